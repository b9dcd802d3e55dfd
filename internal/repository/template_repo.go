package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"continuity-api/internal/model"
)

// TemplateRepo handles MongoDB operations for plan templates
type TemplateRepo interface {
	GetByPlanType(ctx context.Context, planType string) (*model.PlanTemplate, error)
	List(ctx context.Context) ([]*model.PlanTemplate, error)
	Upsert(ctx context.Context, tpl *model.PlanTemplate) error
}

type templateRepo struct {
	collection *mongo.Collection
}

// NewTemplateRepo creates a new plan template repository
func NewTemplateRepo(db *mongo.Database) TemplateRepo {
	return &templateRepo{
		collection: db.Collection("plan_templates"),
	}
}

func (r *templateRepo) GetByPlanType(ctx context.Context, planType string) (*model.PlanTemplate, error) {
	var tpl model.PlanTemplate
	err := r.collection.FindOne(ctx, bson.M{"planType": planType}).Decode(&tpl)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) List(ctx context.Context) ([]*model.PlanTemplate, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []*model.PlanTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Upsert stores one template per plan type
func (r *templateRepo) Upsert(ctx context.Context, tpl *model.PlanTemplate) error {
	now := time.Now().UTC()
	tpl.UpdatedAt = now
	if tpl.ID == "" {
		tpl.ID = primitive.NewObjectID().Hex()
		tpl.CreatedAt = now
	}
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"planType": tpl.PlanType},
		tpl,
		options.Replace().SetUpsert(true),
	)
	return err
}
