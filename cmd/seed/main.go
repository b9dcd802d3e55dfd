// Command seed loads a starter maturity question set and the default
// business continuity plan template into MongoDB.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"continuity-api/internal/model"
	"continuity-api/internal/repository"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DATABASE")
	if dbName == "" {
		dbName = "continuity"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)
	questionRepo := repository.NewQuestionRepo(db)
	templateRepo := repository.NewTemplateRepo(db)

	if err := questionRepo.ReplaceSet(ctx, model.TypeMaturity, maturityQuestions()); err != nil {
		log.Fatalf("Failed to seed maturity questions: %v", err)
	}
	if err := questionRepo.ReplaceSet(ctx, model.TypeResiliency, resiliencyQuestions()); err != nil {
		log.Fatalf("Failed to seed resiliency questions: %v", err)
	}
	if err := templateRepo.Upsert(ctx, bcpTemplate()); err != nil {
		log.Fatalf("Failed to seed plan template: %v", err)
	}

	log.Println("Seed complete")
}

func maturityQuestions() []model.Question {
	return []model.Question{
		{
			ID:         "mat-gov-1",
			CategoryID: "governance",
			Type:       model.QuestionTypeBoolean,
			Prompt:     "Is there a documented business continuity policy?",
			Weight:     2, MaturityLevel: 1, Order: 1,
		},
		{
			ID:         "mat-gov-2",
			CategoryID: "governance",
			Type:       model.QuestionTypeScale,
			Prompt:     "How regularly is the continuity policy reviewed?",
			Options:    model.QuestionOptions{ScaleMin: 1, ScaleMax: 5, ScaleStep: 1},
			Weight:     1, MaturityLevel: 1, Order: 2,
		},
		{
			ID:         "mat-gov-3",
			CategoryID: "governance",
			Type:       model.QuestionTypeMultiChoice,
			Prompt:     "How are continuity roles assigned?",
			Options:    model.QuestionOptions{Choices: []string{"Ad hoc", "Informally", "Documented with ownership"}},
			Weight:     2, MaturityLevel: 2, Order: 1,
			Rule: &model.VisibilityRule{Kind: model.RuleLevel},
		},
		{
			ID:         "mat-gov-4",
			CategoryID: "governance",
			Type:       model.QuestionTypeBoolean,
			Prompt:     "Are continuity objectives reported to executive leadership?",
			Weight:     3, MaturityLevel: 3, Order: 1,
			Rule:             &model.VisibilityRule{Kind: model.RuleLevel},
			EvidenceRequired: true,
		},
	}
}

func resiliencyQuestions() []model.Question {
	return []model.Question{
		{
			ID:         "res-it-1",
			CategoryID: "it-recovery",
			Type:       model.QuestionTypeBoolean,
			Prompt:     "Do you maintain offsite backups?",
			Weight:     3, Order: 1,
		},
		{
			ID:         "res-it-2",
			CategoryID: "it-recovery",
			Type:       model.QuestionTypeScale,
			Prompt:     "Rate your confidence in restoring from backup within RTO.",
			Options:    model.QuestionOptions{ScaleMin: 1, ScaleMax: 5, ScaleStep: 1},
			Weight:     2, Order: 2,
			Rule: &model.VisibilityRule{
				Kind:      model.RuleConditional,
				DependsOn: "res-it-1",
				Operator:  model.OpEquals,
				Value:     true,
			},
		},
		{
			ID:         "res-it-3",
			CategoryID: "it-recovery",
			Type:       model.QuestionTypeText,
			Prompt:     "Describe the last successful restore test.",
			Weight:     1, Order: 3,
			Rule: &model.VisibilityRule{
				Kind:      model.RuleConditional,
				DependsOn: "res-it-2",
				Operator:  model.OpGreaterThan,
				Value:     3,
			},
			EvidenceRequired: true,
		},
	}
}

func bcpTemplate() *model.PlanTemplate {
	return &model.PlanTemplate{
		PlanType:      "business_continuity",
		TitleTemplate: "Business Continuity Plan - {{organizationName}}",
		BodyTemplate: `# Business Continuity Plan

Organization: {{organizationName}}
Effective date: {{effectiveDate}}

{{#if executiveSummary}}## Executive Summary

{{executiveSummary}}

{{/if}}## Critical Functions

{{#each criticalFunctions}}- {{name}}: RTO {{rto}}, RPO {{rpo}}
{{/each}}

{{#if contacts}}## Emergency Contacts

{{#each contacts}}- {{name}} ({{role}}): {{phone}}
{{/each}}{{/if}}`,
	}
}
