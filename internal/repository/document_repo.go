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

// DocumentRepo handles MongoDB operations for generated plan documents
type DocumentRepo interface {
	Save(ctx context.Context, doc *model.PlanDocument) (string, error)
	GetLatest(ctx context.Context, orgID, planType string) (*model.PlanDocument, error)
	ListByOrg(ctx context.Context, orgID string) ([]*model.PlanDocument, error)
}

type documentRepo struct {
	collection *mongo.Collection
}

// NewDocumentRepo creates a new plan document repository
func NewDocumentRepo(db *mongo.Database) DocumentRepo {
	return &documentRepo{
		collection: db.Collection("plan_documents"),
	}
}

func (r *documentRepo) Save(ctx context.Context, doc *model.PlanDocument) (string, error) {
	doc.GeneratedAt = time.Now().UTC()
	if doc.ID == "" {
		doc.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (r *documentRepo) GetLatest(ctx context.Context, orgID, planType string) (*model.PlanDocument, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "generatedAt", Value: -1}})
	var doc model.PlanDocument
	err := r.collection.FindOne(ctx, bson.M{
		"organizationId": orgID,
		"planType":       planType,
	}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) ListByOrg(ctx context.Context, orgID string) ([]*model.PlanDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "generatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"organizationId": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*model.PlanDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
