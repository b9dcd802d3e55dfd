package service

import (
	"context"

	"continuity-api/internal/engine"
	"continuity-api/internal/model"
	"continuity-api/internal/repository"
)

// QuestionService serves question sets and their current visibility
type QuestionService struct {
	questionRepo repository.QuestionRepo
	responseRepo repository.ResponseRepo
}

// NewQuestionService creates a new question service
func NewQuestionService(questionRepo repository.QuestionRepo, responseRepo repository.ResponseRepo) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		responseRepo: responseRepo,
	}
}

// List returns the full ordered question set for an assessment type
func (s *QuestionService) List(ctx context.Context, t model.AssessmentType) ([]model.Question, error) {
	return s.questionRepo.ListByType(ctx, t)
}

// ReplaceSet swaps out a question set (administration/seeding)
func (s *QuestionService) ReplaceSet(ctx context.Context, t model.AssessmentType, questions []model.Question) error {
	return s.questionRepo.ReplaceSet(ctx, t, questions)
}

// VisibleForAssessment returns the questions currently eligible to be
// shown for an in-progress assessment, given its stored responses.
// Category narrows the scope when non-empty.
func (s *QuestionService) VisibleForAssessment(ctx context.Context, a *model.Assessment, categoryID string) ([]model.Question, error) {
	questions, err := s.questionRepo.ListByType(ctx, a.Type)
	if err != nil {
		return nil, err
	}
	responses, err := s.responseRepo.ListByAssessment(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	eng := engine.New(questions)
	scope := questions
	if categoryID != "" {
		scope = eng.Category(categoryID)
	}
	return eng.Visible(scope, responses), nil
}
