package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"continuity-api/internal/docgen"
	"continuity-api/internal/metrics"
	"continuity-api/internal/model"
	"continuity-api/internal/repository"
)

// ErrTemplateNotFound is returned when no template exists for a plan type
var ErrTemplateNotFound = errors.New("plan template not found")

// PlanService generates plan documents by merging structured form
// data into the stored template for a plan type. The merged text is
// what external PDF/Word exporters receive.
type PlanService struct {
	templateRepo repository.TemplateRepo
	documentRepo repository.DocumentRepo
	log          *zap.Logger
}

// NewPlanService creates a new plan service
func NewPlanService(templateRepo repository.TemplateRepo, documentRepo repository.DocumentRepo, log *zap.Logger) *PlanService {
	return &PlanService{
		templateRepo: templateRepo,
		documentRepo: documentRepo,
		log:          log,
	}
}

// Generate renders the plan-type template against the given form data
// and persists the resulting document.
func (s *PlanService) Generate(ctx context.Context, orgID, planType, assessmentID string, data map[string]interface{}) (*model.PlanDocument, error) {
	tpl, err := s.templateRepo.GetByPlanType(ctx, planType)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, planType)
	}

	doc := &model.PlanDocument{
		OrganizationID: orgID,
		PlanType:       planType,
		AssessmentID:   assessmentID,
		Title:          docgen.Render(tpl.TitleTemplate, data),
		Body:           docgen.Render(tpl.BodyTemplate, data),
	}
	if _, err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save plan document: %w", err)
	}

	metrics.DocumentsGenerated.WithLabelValues(planType).Inc()
	s.log.Info("plan document generated",
		zap.String("organizationId", orgID),
		zap.String("planType", planType),
		zap.String("documentId", doc.ID))
	return doc, nil
}

// Latest returns the most recently generated document for a plan type
func (s *PlanService) Latest(ctx context.Context, orgID, planType string) (*model.PlanDocument, error) {
	return s.documentRepo.GetLatest(ctx, orgID, planType)
}

// ListDocuments returns all generated documents of an organization
func (s *PlanService) ListDocuments(ctx context.Context, orgID string) ([]*model.PlanDocument, error) {
	return s.documentRepo.ListByOrg(ctx, orgID)
}

// Templates lists all stored plan templates
func (s *PlanService) Templates(ctx context.Context) ([]*model.PlanTemplate, error) {
	return s.templateRepo.List(ctx)
}

// SaveTemplate creates or replaces the template of a plan type
func (s *PlanService) SaveTemplate(ctx context.Context, tpl *model.PlanTemplate) error {
	return s.templateRepo.Upsert(ctx, tpl)
}
