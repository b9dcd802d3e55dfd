package model

import "time"

// PlanTemplate is an authorable document template. TitleTemplate and
// BodyTemplate contain {{field}} placeholders plus {{#if}}/{{#each}}
// blocks merged against structured form data.
type PlanTemplate struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	PlanType      string    `json:"planType" bson:"planType"`
	TitleTemplate string    `json:"titleTemplate" bson:"titleTemplate"`
	BodyTemplate  string    `json:"bodyTemplate" bson:"bodyTemplate"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PlanDocument is a generated document: template merged with an
// organization's form data. Body is plain text handed to external
// PDF/Word export tooling.
type PlanDocument struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	OrganizationID string    `json:"organizationId" bson:"organizationId"`
	PlanType       string    `json:"planType" bson:"planType"`
	AssessmentID   string    `json:"assessmentId,omitempty" bson:"assessmentId,omitempty"`
	Title          string    `json:"title" bson:"title"`
	Body           string    `json:"body" bson:"body"`
	GeneratedAt    time.Time `json:"generatedAt" bson:"generatedAt"`
}
