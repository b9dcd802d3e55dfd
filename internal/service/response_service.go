package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"

	"continuity-api/internal/cache"
	"continuity-api/internal/engine"
	"continuity-api/internal/metrics"
	"continuity-api/internal/model"
	"continuity-api/internal/repository"
)

// ErrValidation wraps per-question validation failures on save
var ErrValidation = errors.New("response validation failed")

// ResponseService persists response batches: validates values against
// question definitions, applies cascading invalidation of dependent
// answers, and guards against stale concurrent saves with the
// assessment's response revision.
type ResponseService struct {
	assessmentRepo repository.AssessmentRepo
	questionRepo   repository.QuestionRepo
	responseRepo   repository.ResponseRepo
	draftCache     cache.DraftCache
	assessmentSvc  *AssessmentService
	log            *zap.Logger
}

// NewResponseService creates a new response service
func NewResponseService(
	assessmentRepo repository.AssessmentRepo,
	questionRepo repository.QuestionRepo,
	responseRepo repository.ResponseRepo,
	draftCache cache.DraftCache,
	assessmentSvc *AssessmentService,
	log *zap.Logger,
) *ResponseService {
	return &ResponseService{
		assessmentRepo: assessmentRepo,
		questionRepo:   questionRepo,
		responseRepo:   responseRepo,
		draftCache:     draftCache,
		assessmentSvc:  assessmentSvc,
		log:            log,
	}
}

// SaveDraft autosaves a single in-flight answer to the draft cache.
// Drafts are not scored and expire on their own.
func (s *ResponseService) SaveDraft(ctx context.Context, orgID, assessmentID string, resp *model.Response) error {
	if _, err := s.assessmentSvc.GetOwned(ctx, orgID, assessmentID); err != nil {
		return err
	}
	resp.UpdatedAt = time.Now().UTC()
	return s.draftCache.SetDraft(ctx, assessmentID, resp)
}

// SaveResult reports what a save batch did
type SaveResult struct {
	Revision int64                   `json:"revision"`
	Cleared  []string                `json:"clearedQuestionIds,omitempty"`
	Progress *model.ProgressSnapshot `json:"progress,omitempty"`
}

// Save persists a batch of responses for an in-progress assessment.
// revision must match the assessment's current response revision; a
// mismatch means a newer save already landed and this one is dropped
// with repository.ErrStaleRevision. Questions whose conditional rules
// depend on any changed question have their stored answers cleared,
// transitively.
func (s *ResponseService) Save(ctx context.Context, orgID, assessmentID string, responses []model.Response, revision int64) (*SaveResult, error) {
	a, err := s.assessmentSvc.GetOwned(ctx, orgID, assessmentID)
	if err != nil {
		return nil, err
	}
	if !a.IsInProgress() {
		return nil, model.ErrInvalidStatusTransition
	}

	questions, err := s.questionRepo.ListByType(ctx, a.Type)
	if err != nil {
		return nil, err
	}
	eng := engine.New(questions)
	byID := make(map[string]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	for _, resp := range responses {
		q, ok := byID[resp.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown question %s", ErrValidation, resp.QuestionID)
		}
		if err := validateValue(q, resp); err != nil {
			return nil, err
		}
	}

	prior, err := s.responseRepo.ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	// Optimistic revision check decides the concurrent-save race:
	// the slower save loses instead of silently overwriting.
	newRevision, err := s.assessmentRepo.BumpRevision(ctx, assessmentID, revision)
	if err != nil {
		if errors.Is(err, repository.ErrStaleRevision) {
			metrics.StaleSaves.Inc()
			s.log.Warn("stale response save rejected",
				zap.String("assessmentId", assessmentID),
				zap.Int64("revision", revision))
		}
		return nil, err
	}

	if err := s.responseRepo.UpsertMany(ctx, assessmentID, responses); err != nil {
		return nil, fmt.Errorf("failed to persist responses: %w", err)
	}

	// Cascading invalidation: answers conditioned on a changed
	// question are stale and get cleared, transitively. Re-saving an
	// unchanged answer invalidates nothing, and answers arriving in
	// this batch are never cleared by their own batch.
	stored := prior.Clone()
	inBatch := make(map[string]bool, len(responses))
	for _, resp := range responses {
		stored[resp.QuestionID] = resp
		inBatch[resp.QuestionID] = true
	}
	var cleared []string
	for _, resp := range responses {
		if prev, ok := prior[resp.QuestionID]; ok && reflect.DeepEqual(prev.Value, resp.Value) {
			continue
		}
		for _, id := range eng.Invalidate(resp.QuestionID, stored) {
			if !inBatch[id] {
				cleared = append(cleared, id)
			}
		}
	}
	if len(cleared) > 0 {
		if err := s.responseRepo.DeleteByQuestionIDs(ctx, assessmentID, cleared); err != nil {
			return nil, fmt.Errorf("failed to clear dependent responses: %w", err)
		}
		if err := s.draftCache.DeleteDrafts(ctx, assessmentID, cleared); err != nil {
			s.log.Warn("failed to clear dependent drafts", zap.Error(err))
		}
	}

	// Persisted answers supersede their drafts
	saved := make([]string, len(responses))
	for i, resp := range responses {
		saved[i] = resp.QuestionID
	}
	if err := s.draftCache.DeleteDrafts(ctx, assessmentID, saved); err != nil {
		s.log.Warn("failed to clear saved drafts", zap.Error(err))
	}

	metrics.ResponsesSaved.WithLabelValues(string(a.Type)).Inc()

	progress, err := s.assessmentSvc.Progress(ctx, orgID, assessmentID)
	if err != nil {
		s.log.Warn("failed to refresh progress", zap.String("assessmentId", assessmentID), zap.Error(err))
		progress = nil
	}

	return &SaveResult{
		Revision: newRevision,
		Cleared:  cleared,
		Progress: progress,
	}, nil
}

// Responses returns the stored response set of an assessment
func (s *ResponseService) Responses(ctx context.Context, orgID, assessmentID string) (model.ResponseSet, error) {
	if _, err := s.assessmentSvc.GetOwned(ctx, orgID, assessmentID); err != nil {
		return nil, err
	}
	return s.responseRepo.ListByAssessment(ctx, assessmentID)
}

// Drafts returns the autosaved drafts of an assessment
func (s *ResponseService) Drafts(ctx context.Context, orgID, assessmentID string) (model.ResponseSet, error) {
	if _, err := s.assessmentSvc.GetOwned(ctx, orgID, assessmentID); err != nil {
		return nil, err
	}
	return s.draftCache.GetAllDrafts(ctx, assessmentID)
}

// validateValue checks a response value against its question's type
// and options. Evidence attachments are checked against the
// question's file constraints when present.
func validateValue(q model.Question, resp model.Response) error {
	if !resp.HasValue() {
		return fmt.Errorf("%w: question %s has no value", ErrValidation, q.ID)
	}
	switch q.Type {
	case model.QuestionTypeBoolean:
		if _, ok := resp.Value.(bool); !ok {
			return fmt.Errorf("%w: question %s expects a boolean", ErrValidation, q.ID)
		}
	case model.QuestionTypeScale:
		n, ok := numericValue(resp.Value)
		if !ok {
			return fmt.Errorf("%w: question %s expects a number", ErrValidation, q.ID)
		}
		if q.Options.ScaleMax > 0 && (n < float64(q.Options.ScaleMin) || n > float64(q.Options.ScaleMax)) {
			return fmt.Errorf("%w: question %s value %v outside scale %d-%d",
				ErrValidation, q.ID, resp.Value, q.Options.ScaleMin, q.Options.ScaleMax)
		}
	case model.QuestionTypeMultiChoice:
		s, ok := resp.Value.(string)
		if !ok {
			return fmt.Errorf("%w: question %s expects an option string", ErrValidation, q.ID)
		}
		if len(q.Options.Choices) > 0 && !contains(q.Options.Choices, s) {
			return fmt.Errorf("%w: question %s has no option %q", ErrValidation, q.ID, s)
		}
	case model.QuestionTypeText, model.QuestionTypeDate:
		if _, ok := resp.Value.(string); !ok {
			return fmt.Errorf("%w: question %s expects a string", ErrValidation, q.ID)
		}
	}
	return validateEvidence(q, resp)
}

func validateEvidence(q model.Question, resp model.Response) error {
	req := q.Evidence
	if req == nil {
		return nil
	}
	n := len(resp.Evidence)
	if req.MinFiles > 0 && n < req.MinFiles {
		return fmt.Errorf("%w: question %s requires at least %d evidence files", ErrValidation, q.ID, req.MinFiles)
	}
	if req.MaxFiles > 0 && n > req.MaxFiles {
		return fmt.Errorf("%w: question %s allows at most %d evidence files", ErrValidation, q.ID, req.MaxFiles)
	}
	for _, f := range resp.Evidence {
		if req.MaxSizeBytes > 0 && f.SizeBytes > req.MaxSizeBytes {
			return fmt.Errorf("%w: evidence file %s exceeds %d bytes", ErrValidation, f.Name, req.MaxSizeBytes)
		}
		if len(req.AllowedTypes) > 0 && !contains(req.AllowedTypes, f.ContentType) {
			return fmt.Errorf("%w: evidence file %s has disallowed type %s", ErrValidation, f.Name, f.ContentType)
		}
	}
	return nil
}

func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
