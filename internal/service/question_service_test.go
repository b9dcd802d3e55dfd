package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"continuity-api/internal/model"
)

func TestQuestionService_VisibleForAssessment(t *testing.T) {
	questions := &fakeQuestionRepo{questions: resiliencyQuestions()}
	responses := newFakeResponseRepo()
	svc := NewQuestionService(questions, responses)
	ctx := context.Background()

	a := &model.Assessment{ID: "a1", Type: model.TypeResiliency, Status: model.StatusInProgress}

	// Nothing answered: only unconditional questions show
	visible, err := svc.VisibleForAssessment(ctx, a, "")
	require.NoError(t, err)
	ids := questionIDs(visible)
	assert.ElementsMatch(t, []string{"dr-plan", "dr-owner"}, ids)

	// Answering the root reveals its direct dependent
	require.NoError(t, responses.UpsertMany(ctx, a.ID, []model.Response{
		{QuestionID: "dr-plan", Value: true},
	}))
	visible, err = svc.VisibleForAssessment(ctx, a, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dr-plan", "dr-owner", "dr-tested"}, questionIDs(visible))
}

func TestQuestionService_VisibleForAssessmentByCategory(t *testing.T) {
	all := append(resiliencyQuestions(), model.Question{
		ID:             "other-cat",
		AssessmentType: model.TypeResiliency,
		CategoryID:     "facilities",
		Type:           model.QuestionTypeText,
		Weight:         1,
	})
	questions := &fakeQuestionRepo{questions: all}
	svc := NewQuestionService(questions, newFakeResponseRepo())

	a := &model.Assessment{ID: "a1", Type: model.TypeResiliency, Status: model.StatusInProgress}

	visible, err := svc.VisibleForAssessment(context.Background(), a, "facilities")
	require.NoError(t, err)
	assert.Equal(t, []string{"other-cat"}, questionIDs(visible))
}

func TestQuestionService_ReplaceSet(t *testing.T) {
	questions := &fakeQuestionRepo{questions: resiliencyQuestions()}
	svc := NewQuestionService(questions, newFakeResponseRepo())
	ctx := context.Background()

	replacement := []model.Question{{
		ID:             "new-1",
		AssessmentType: model.TypeResiliency,
		CategoryID:     "it-recovery",
		Type:           model.QuestionTypeBoolean,
		Weight:         1,
	}}
	require.NoError(t, svc.ReplaceSet(ctx, model.TypeResiliency, replacement))

	got, err := svc.List(ctx, model.TypeResiliency)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new-1", got[0].ID)
}

func questionIDs(questions []model.Question) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.ID
	}
	return out
}
