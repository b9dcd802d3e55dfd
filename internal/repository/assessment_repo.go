package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"continuity-api/internal/model"
)

// ErrStaleRevision is returned when a response save carries a
// revision that no longer matches the stored assessment, meaning a
// newer save landed first.
var ErrStaleRevision = errors.New("assessment response revision is stale")

// AssessmentRepo handles MongoDB operations for assessments
type AssessmentRepo interface {
	Create(ctx context.Context, a *model.Assessment) (string, error)
	GetByID(ctx context.Context, id string) (*model.Assessment, error)
	FindInProgress(ctx context.Context, orgID string, t model.AssessmentType) (*model.Assessment, error)
	FindCompleted(ctx context.Context, orgID string, t model.AssessmentType) (*model.Assessment, error)
	ListByOrg(ctx context.Context, orgID string) ([]*model.Assessment, error)
	Update(ctx context.Context, a *model.Assessment) error
	// BumpRevision atomically increments the response revision iff the
	// stored value still equals expected. Returns ErrStaleRevision
	// otherwise, and the new revision on success.
	BumpRevision(ctx context.Context, id string, expected int64) (int64, error)
}

type assessmentRepo struct {
	collection *mongo.Collection
}

// NewAssessmentRepo creates a new assessment repository
func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		collection: db.Collection("assessments"),
	}
}

func (r *assessmentRepo) Create(ctx context.Context, a *model.Assessment) (string, error) {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.collection.InsertOne(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

func (r *assessmentRepo) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	var a model.Assessment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepo) FindInProgress(ctx context.Context, orgID string, t model.AssessmentType) (*model.Assessment, error) {
	return r.findOne(ctx, bson.M{
		"organizationId": orgID,
		"type":           t,
		"status":         model.StatusInProgress,
	})
}

func (r *assessmentRepo) FindCompleted(ctx context.Context, orgID string, t model.AssessmentType) (*model.Assessment, error) {
	return r.findOne(ctx, bson.M{
		"organizationId": orgID,
		"type":           t,
		"status":         model.StatusCompleted,
	})
}

func (r *assessmentRepo) findOne(ctx context.Context, filter bson.M) (*model.Assessment, error) {
	var a model.Assessment
	err := r.collection.FindOne(ctx, filter).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepo) ListByOrg(ctx context.Context, orgID string) ([]*model.Assessment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"organizationId": orgID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assessments []*model.Assessment
	if err := cursor.All(ctx, &assessments); err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *assessmentRepo) Update(ctx context.Context, a *model.Assessment) error {
	a.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	return err
}

func (r *assessmentRepo) BumpRevision(ctx context.Context, id string, expected int64) (int64, error) {
	res := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "responseRevision": expected},
		bson.M{
			"$inc": bson.M{"responseRevision": 1},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err := res.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrStaleRevision
		}
		return 0, err
	}
	return expected + 1, nil
}
