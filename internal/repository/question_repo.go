package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"continuity-api/internal/model"
)

// QuestionRepo handles MongoDB operations for question definitions
type QuestionRepo interface {
	ListByType(ctx context.Context, t model.AssessmentType) ([]model.Question, error)
	GetByID(ctx context.Context, id string) (*model.Question, error)
	ReplaceSet(ctx context.Context, t model.AssessmentType, questions []model.Question) error
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

// ListByType returns the question set ordered by category, maturity
// level, then authoring order. The engine relies on this ordering.
func (r *questionRepo) ListByType(ctx context.Context, t model.AssessmentType) ([]model.Question, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "categoryId", Value: 1},
		{Key: "maturityLevel", Value: 1},
		{Key: "order", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{"assessmentType": t}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []model.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ReplaceSet swaps out the full question set of one assessment type.
// Used by seeding and question-set administration.
func (r *questionRepo) ReplaceSet(ctx context.Context, t model.AssessmentType, questions []model.Question) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"assessmentType": t}); err != nil {
		return err
	}
	if len(questions) == 0 {
		return nil
	}
	docs := make([]interface{}, len(questions))
	for i, q := range questions {
		q.AssessmentType = t
		docs[i] = q
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}
