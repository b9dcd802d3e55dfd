package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"continuity-api/internal/cache"
	"continuity-api/internal/engine"
	"continuity-api/internal/metrics"
	"continuity-api/internal/model"
	"continuity-api/internal/repository"
)

var (
	// ErrArchiveRequired means a completed assessment of this type is
	// still active; the client must explicitly archive and restart.
	ErrArchiveRequired = errors.New("a completed assessment exists; archive it before retaking")
	// ErrAssessmentNotFound is returned for unknown assessment IDs
	ErrAssessmentNotFound = errors.New("assessment not found")
	// ErrForbidden is returned when an assessment belongs to another
	// organization than the caller's
	ErrForbidden = errors.New("assessment belongs to another organization")
	// ErrEvidenceMissing blocks completion while required evidence is absent
	ErrEvidenceMissing = errors.New("required evidence is missing")
)

// AssessmentService enforces the assessment lifecycle: one
// in-progress record per (organization, type), archive before retake,
// and progress computation on top of the visibility engine.
type AssessmentService struct {
	assessmentRepo repository.AssessmentRepo
	questionRepo   repository.QuestionRepo
	responseRepo   repository.ResponseRepo
	progressCache  cache.ProgressCache
	draftCache     cache.DraftCache
	broadcaster    Broadcaster
	log            *zap.Logger
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(
	assessmentRepo repository.AssessmentRepo,
	questionRepo repository.QuestionRepo,
	responseRepo repository.ResponseRepo,
	progressCache cache.ProgressCache,
	draftCache cache.DraftCache,
	log *zap.Logger,
) *AssessmentService {
	return &AssessmentService{
		assessmentRepo: assessmentRepo,
		questionRepo:   questionRepo,
		responseRepo:   responseRepo,
		progressCache:  progressCache,
		draftCache:     draftCache,
		log:            log,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *AssessmentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start resumes the in-progress assessment when one exists, otherwise
// creates a fresh one. A still-active completed record blocks the
// start with ErrArchiveRequired; retaking is an explicit user action.
func (s *AssessmentService) Start(ctx context.Context, orgID string, t model.AssessmentType) (*model.Assessment, error) {
	if inProgress, err := s.assessmentRepo.FindInProgress(ctx, orgID, t); err != nil {
		return nil, err
	} else if inProgress != nil {
		return inProgress, nil
	}

	if completed, err := s.assessmentRepo.FindCompleted(ctx, orgID, t); err != nil {
		return nil, err
	} else if completed != nil {
		return nil, ErrArchiveRequired
	}

	return s.create(ctx, orgID, t)
}

// ArchiveAndRestart archives the active completed assessment of this
// type and creates a fresh in-progress one.
func (s *AssessmentService) ArchiveAndRestart(ctx context.Context, orgID string, t model.AssessmentType) (*model.Assessment, error) {
	completed, err := s.assessmentRepo.FindCompleted(ctx, orgID, t)
	if err != nil {
		return nil, err
	}
	if completed != nil {
		if err := completed.Archive(); err != nil {
			return nil, err
		}
		if err := s.assessmentRepo.Update(ctx, completed); err != nil {
			return nil, fmt.Errorf("failed to archive assessment: %w", err)
		}
		s.log.Info("assessment archived",
			zap.String("assessmentId", completed.ID),
			zap.String("organizationId", orgID),
			zap.String("type", string(t)))
	}
	return s.create(ctx, orgID, t)
}

func (s *AssessmentService) create(ctx context.Context, orgID string, t model.AssessmentType) (*model.Assessment, error) {
	a := &model.Assessment{
		OrganizationID: orgID,
		Type:           t,
		Status:         model.StatusInProgress,
	}
	if _, err := s.assessmentRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}
	s.log.Info("assessment started",
		zap.String("assessmentId", a.ID),
		zap.String("organizationId", orgID),
		zap.String("type", string(t)))
	return a, nil
}

// Get loads one assessment by ID
func (s *AssessmentService) Get(ctx context.Context, id string) (*model.Assessment, error) {
	a, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAssessmentNotFound
	}
	return a, nil
}

// GetOwned loads one assessment and verifies it belongs to the
// caller's organization. Every per-assessment operation goes through
// this check.
func (s *AssessmentService) GetOwned(ctx context.Context, orgID, id string) (*model.Assessment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.OrganizationID != orgID {
		return nil, ErrForbidden
	}
	return a, nil
}

// GetInProgress loads the current in-progress assessment, nil when none
func (s *AssessmentService) GetInProgress(ctx context.Context, orgID string, t model.AssessmentType) (*model.Assessment, error) {
	return s.assessmentRepo.FindInProgress(ctx, orgID, t)
}

// ListByOrg returns all of an organization's assessments
func (s *AssessmentService) ListByOrg(ctx context.Context, orgID string) ([]*model.Assessment, error) {
	return s.assessmentRepo.ListByOrg(ctx, orgID)
}

// Complete transitions the assessment to completed. Visible questions
// that require evidence must carry at least one file reference.
func (s *AssessmentService) Complete(ctx context.Context, orgID, assessmentID string) (*model.Assessment, error) {
	a, err := s.GetOwned(ctx, orgID, assessmentID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByType(ctx, a.Type)
	if err != nil {
		return nil, err
	}
	responses, err := s.responseRepo.ListByAssessment(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	eng := engine.New(questions)
	for _, q := range questions {
		if !q.EvidenceRequired || !eng.IsVisible(q, responses) {
			continue
		}
		resp, ok := responses[q.ID]
		if !ok || !resp.HasValue() || len(resp.Evidence) == 0 {
			return nil, fmt.Errorf("%w: question %s", ErrEvidenceMissing, q.ID)
		}
	}

	if err := a.Complete(); err != nil {
		return nil, err
	}
	if err := s.assessmentRepo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to complete assessment: %w", err)
	}

	// Working state is no longer needed once completed
	if err := s.draftCache.Clear(ctx, a.ID); err != nil {
		s.log.Warn("failed to clear drafts", zap.String("assessmentId", a.ID), zap.Error(err))
	}

	metrics.AssessmentsCompleted.WithLabelValues(string(a.Type)).Inc()
	s.log.Info("assessment completed",
		zap.String("assessmentId", a.ID),
		zap.String("organizationId", a.OrganizationID),
		zap.String("type", string(a.Type)))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOrg(a.OrganizationID, "assessment_completed", map[string]interface{}{
			"assessmentId": a.ID,
			"type":         a.Type,
		})
	}
	return a, nil
}

// Progress recomputes the progress snapshot for an assessment, caches
// it, and pushes it to dashboard listeners.
func (s *AssessmentService) Progress(ctx context.Context, orgID, assessmentID string) (*model.ProgressSnapshot, error) {
	a, err := s.GetOwned(ctx, orgID, assessmentID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByType(ctx, a.Type)
	if err != nil {
		return nil, err
	}
	responses, err := s.responseRepo.ListByAssessment(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	eng := engine.New(questions)
	byCategory := make(map[string]int)
	for _, q := range questions {
		if _, done := byCategory[q.CategoryID]; !done {
			byCategory[q.CategoryID] = eng.CategoryProgress(q.CategoryID, responses)
		}
	}

	snapshot := &model.ProgressSnapshot{
		AssessmentID: a.ID,
		Overall:      eng.OverallProgress(responses),
		ByCategory:   byCategory,
		Revision:     a.ResponseRevision,
		UpdatedAt:    time.Now().UTC(),
	}

	if err := s.progressCache.Set(ctx, snapshot); err != nil {
		s.log.Warn("failed to cache progress", zap.String("assessmentId", a.ID), zap.Error(err))
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOrg(a.OrganizationID, "progress_update", snapshot)
	}
	return snapshot, nil
}

// CachedProgress returns the last snapshot without recomputing,
// falling back to a fresh computation on cache miss. The ownership
// check runs before the cache is consulted; cached snapshots carry no
// organization.
func (s *AssessmentService) CachedProgress(ctx context.Context, orgID, assessmentID string) (*model.ProgressSnapshot, error) {
	if _, err := s.GetOwned(ctx, orgID, assessmentID); err != nil {
		return nil, err
	}
	snapshot, err := s.progressCache.Get(ctx, assessmentID)
	if err == nil && snapshot != nil {
		return snapshot, nil
	}
	return s.Progress(ctx, orgID, assessmentID)
}
