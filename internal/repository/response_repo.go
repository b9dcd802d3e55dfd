package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"continuity-api/internal/model"
)

// ResponseRepo handles MongoDB operations for per-question responses
type ResponseRepo interface {
	UpsertMany(ctx context.Context, assessmentID string, responses []model.Response) error
	ListByAssessment(ctx context.Context, assessmentID string) (model.ResponseSet, error)
	DeleteByQuestionIDs(ctx context.Context, assessmentID string, questionIDs []string) error
	DeleteByAssessment(ctx context.Context, assessmentID string) error
}

// responseDoc is the stored shape: one document per (assessment,
// question) pair.
type responseDoc struct {
	AssessmentID string          `bson:"assessmentId"`
	QuestionID   string          `bson:"questionId"`
	Value        interface{}     `bson:"value"`
	Evidence     []model.FileRef `bson:"evidence,omitempty"`
	UpdatedAt    time.Time       `bson:"updatedAt"`
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) UpsertMany(ctx context.Context, assessmentID string, responses []model.Response) error {
	if len(responses) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(responses))
	now := time.Now().UTC()
	for _, resp := range responses {
		doc := responseDoc{
			AssessmentID: assessmentID,
			QuestionID:   resp.QuestionID,
			Value:        resp.Value,
			Evidence:     resp.Evidence,
			UpdatedAt:    now,
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"assessmentId": assessmentID, "questionId": resp.QuestionID}).
			SetReplacement(doc).
			SetUpsert(true))
	}
	_, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (r *responseRepo) ListByAssessment(ctx context.Context, assessmentID string) (model.ResponseSet, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"assessmentId": assessmentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []responseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	set := make(model.ResponseSet, len(docs))
	for _, d := range docs {
		set[d.QuestionID] = model.Response{
			QuestionID: d.QuestionID,
			Value:      d.Value,
			Evidence:   d.Evidence,
			UpdatedAt:  d.UpdatedAt,
		}
	}
	return set, nil
}

func (r *responseRepo) DeleteByQuestionIDs(ctx context.Context, assessmentID string, questionIDs []string) error {
	if len(questionIDs) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{
		"assessmentId": assessmentID,
		"questionId":   bson.M{"$in": questionIDs},
	})
	return err
}

func (r *responseRepo) DeleteByAssessment(ctx context.Context, assessmentID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"assessmentId": assessmentID})
	return err
}
