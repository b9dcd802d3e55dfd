package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"continuity-api/internal/model"
)

func maturityQuestions() []model.Question {
	return []model.Question{
		{
			ID:             "gov-1",
			AssessmentType: model.TypeMaturity,
			CategoryID:     "governance",
			Type:           model.QuestionTypeBoolean,
			Weight:         1,
			MaturityLevel:  1,
		},
		{
			ID:             "gov-2",
			AssessmentType: model.TypeMaturity,
			CategoryID:     "governance",
			Type:           model.QuestionTypeScale,
			Options:        model.QuestionOptions{ScaleMin: 1, ScaleMax: 5},
			Weight:         1,
			MaturityLevel:  1,
		},
		{
			ID:               "gov-3",
			AssessmentType:   model.TypeMaturity,
			CategoryID:       "governance",
			Type:             model.QuestionTypeText,
			Weight:           1,
			MaturityLevel:    2,
			Rule:             &model.VisibilityRule{Kind: model.RuleLevel},
			EvidenceRequired: true,
		},
	}
}

func newTestAssessmentService(t *testing.T) (*AssessmentService, *fakeAssessmentRepo, *fakeResponseRepo, *fakeDraftCache, *fakeProgressCache, *fakeBroadcaster) {
	t.Helper()
	assessments := newFakeAssessmentRepo()
	responses := newFakeResponseRepo()
	drafts := newFakeDraftCache()
	progress := newFakeProgressCache()
	questions := &fakeQuestionRepo{questions: maturityQuestions()}

	svc := NewAssessmentService(assessments, questions, responses, progress, drafts, zap.NewNop())
	b := &fakeBroadcaster{}
	svc.SetBroadcaster(b)
	return svc, assessments, responses, drafts, progress, b
}

func TestAssessmentService_StartCreatesAndResumes(t *testing.T) {
	svc, _, _, _, _, _ := newTestAssessmentService(t)
	ctx := context.Background()

	first, err := svc.Start(ctx, "org1", model.TypeMaturity)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, first.Status)
	assert.NotEmpty(t, first.ID)

	// A second start resumes rather than creating a duplicate
	second, err := svc.Start(ctx, "org1", model.TypeMaturity)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// A different type gets its own record
	other, err := svc.Start(ctx, "org1", model.TypeResiliency)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestAssessmentService_StartBlockedByCompleted(t *testing.T) {
	svc, repo, _, _, _, _ := newTestAssessmentService(t)
	ctx := context.Background()

	a, err := svc.Start(ctx, "org1", model.TypeMaturity)
	require.NoError(t, err)
	require.NoError(t, a.Complete())
	require.NoError(t, repo.Update(ctx, a))

	_, err = svc.Start(ctx, "org1", model.TypeMaturity)
	assert.ErrorIs(t, err, ErrArchiveRequired)
}

func TestAssessmentService_ArchiveAndRestart(t *testing.T) {
	svc, repo, _, _, _, _ := newTestAssessmentService(t)
	ctx := context.Background()

	old, err := svc.Start(ctx, "org1", model.TypeMaturity)
	require.NoError(t, err)
	require.NoError(t, old.Complete())
	require.NoError(t, repo.Update(ctx, old))

	fresh, err := svc.ArchiveAndRestart(ctx, "org1", model.TypeMaturity)
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, fresh.ID)
	assert.Equal(t, model.StatusInProgress, fresh.Status)

	archived, err := repo.GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusArchived, archived.Status)
}

func TestAssessmentService_GetUnknown(t *testing.T) {
	svc, _, _, _, _, _ := newTestAssessmentService(t)

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestAssessmentService_CompleteRequiresEvidence(t *testing.T) {
	svc, _, responses, _, _, _ := newTestAssessmentService(t)
	ctx := context.Background()

	a, err := svc.Start(ctx, "org1", model.TypeMaturity)
	require.NoError(t, err)

	// Qualify both level-1 questions so gov-3 becomes visible, and
	// answer it without evidence.
	require.NoError(t, responses.UpsertMany(ctx, a.ID, []model.Response{
		{QuestionID: "gov-1", Value: true},
		{QuestionID: "gov-2", Value: float64(5)},
		{QuestionID: "gov-3", Value: "documented"},
	}))

	_, err = svc.Complete(ctx, "org1", a.ID)
	assert.ErrorIs(t, err, ErrEvidenceMissing)

	// Attach a file and completion goes through
	require.NoError(t, responses.UpsertMany(ctx, a.ID, []model.Response{
		{QuestionID: "gov-3", Value: "documented", Evidence: []model.FileRef{{ID: "f1", Name: "policy.pdf"}}},
	}))
	done, err := svc.Complete(ctx, "org1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
}

func TestAssessmentService_CompleteSkipsHiddenEvidence(t *testing.T) {
	svc, _, responses, _, _, _ := newTestAssessmentService(t)
	ctx := context.Background()

	a, err := svc.Start(ctx, "org1", model.TypeMaturity)
	require.NoError(t, err)

	// gov-2 does not qualify, so the evidence-required gov-3 stays
	// hidden and must not block completion.
	require.NoError(t, responses.UpsertMany(ctx, a.ID, []model.Response{
		{QuestionID: "gov-1", Value: true},
		{QuestionID: "gov-2", Value: float64(2)},
	}))

	done, err := svc.Complete(ctx, "org1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, done.Status)
}

func TestAssessmentService_CompleteSideEffects(t *testing.T) {
	svc, _, responses, drafts, _, b := newTestAssessmentService(t)
	ctx := context.Background()

	a, err := svc.Start(ctx, "org1", model.TypeMaturity)
	require.NoError(t, err)
	require.NoError(t, responses.UpsertMany(ctx, a.ID, []model.Response{
		{QuestionID: "gov-1", Value: true},
	}))
	require.NoError(t, drafts.SetDraft(ctx, a.ID, &model.Response{QuestionID: "gov-2", Value: float64(3)}))

	_, err = svc.Complete(ctx, "org1", a.ID)
	require.NoError(t, err)

	assert.Contains(t, drafts.cleared, a.ID)
	events := b.byType("assessment_completed")
	require.Len(t, events, 1)
	assert.Equal(t, "org1", events[0].orgID)

	// Completing again is an invalid transition
	_, err = svc.Complete(ctx, "org1", a.ID)
	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)
}

func TestAssessmentService_Progress(t *testing.T) {
	svc, _, responses, _, progressCache, b := newTestAssessmentService(t)
	ctx := context.Background()

	a, err := svc.Start(ctx, "org1", model.TypeMaturity)
	require.NoError(t, err)

	// gov-3 is hidden until both level-1 answers qualify, so the scope
	// is 3 questions with 1 visible answered.
	require.NoError(t, responses.UpsertMany(ctx, a.ID, []model.Response{
		{QuestionID: "gov-1", Value: true},
	}))

	snapshot, err := svc.Progress(ctx, "org1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, snapshot.Overall)
	assert.Equal(t, map[string]int{"governance": 33}, snapshot.ByCategory)

	cached, err := progressCache.Get(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, snapshot.Overall, cached.Overall)

	require.Len(t, b.byType("progress_update"), 1)
}

func TestAssessmentService_CachedProgress(t *testing.T) {
	svc, _, _, _, progressCache, _ := newTestAssessmentService(t)
	ctx := context.Background()

	a, err := svc.Start(ctx, "org1", model.TypeMaturity)
	require.NoError(t, err)

	// Cache hit short-circuits recomputation
	require.NoError(t, progressCache.Set(ctx, &model.ProgressSnapshot{AssessmentID: a.ID, Overall: 99}))
	snapshot, err := svc.CachedProgress(ctx, "org1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 99, snapshot.Overall)

	// Miss falls back to a fresh computation
	require.NoError(t, progressCache.Delete(ctx, a.ID))
	snapshot, err = svc.CachedProgress(ctx, "org1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Overall)
}

func TestAssessmentService_ForeignOrgRejected(t *testing.T) {
	svc, _, _, _, _, _ := newTestAssessmentService(t)
	ctx := context.Background()

	a, err := svc.Start(ctx, "org1", model.TypeMaturity)
	require.NoError(t, err)

	_, err = svc.GetOwned(ctx, "org2", a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Complete(ctx, "org2", a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Progress(ctx, "org2", a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CachedProgress(ctx, "org2", a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// The assessment itself is untouched
	got, err := svc.GetOwned(ctx, "org1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)
}
