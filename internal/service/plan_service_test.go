package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"continuity-api/internal/model"
)

func newTestPlanService() (*PlanService, *fakeTemplateRepo, *fakeDocumentRepo) {
	templates := &fakeTemplateRepo{byPlanType: map[string]*model.PlanTemplate{}}
	documents := &fakeDocumentRepo{}
	return NewPlanService(templates, documents, zap.NewNop()), templates, documents
}

func TestPlanService_Generate(t *testing.T) {
	svc, templates, documents := newTestPlanService()
	ctx := context.Background()

	require.NoError(t, templates.Upsert(ctx, &model.PlanTemplate{
		PlanType:      "business_continuity",
		TitleTemplate: "{{orgName}} Business Continuity Plan",
		BodyTemplate:  "Objective: {{objective}}\n{{#each contacts}}- {{name}}\n{{/each}}",
	}))

	doc, err := svc.Generate(ctx, "org1", "business_continuity", "a1", map[string]interface{}{
		"orgName":   "Acme",
		"objective": "resume operations within 4 hours",
		"contacts": []interface{}{
			map[string]interface{}{"name": "Ada"},
			map[string]interface{}{"name": "Grace"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Business Continuity Plan", doc.Title)
	assert.Equal(t, "Objective: resume operations within 4 hours\n- Ada\n- Grace\n", doc.Body)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "a1", doc.AssessmentID)

	latest, err := documents.GetLatest(ctx, "org1", "business_continuity")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, doc.ID, latest.ID)
}

func TestPlanService_GenerateUnknownTemplate(t *testing.T) {
	svc, _, _ := newTestPlanService()

	_, err := svc.Generate(context.Background(), "org1", "no-such-plan", "", nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestPlanService_Latest(t *testing.T) {
	svc, templates, _ := newTestPlanService()
	ctx := context.Background()

	require.NoError(t, templates.Upsert(ctx, &model.PlanTemplate{
		PlanType:      "disaster_recovery",
		TitleTemplate: "DR Plan v{{version}}",
		BodyTemplate:  "body",
	}))

	_, err := svc.Generate(ctx, "org1", "disaster_recovery", "", map[string]interface{}{"version": float64(1)})
	require.NoError(t, err)
	second, err := svc.Generate(ctx, "org1", "disaster_recovery", "", map[string]interface{}{"version": float64(2)})
	require.NoError(t, err)

	latest, err := svc.Latest(ctx, "org1", "disaster_recovery")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "DR Plan v2", latest.Title)

	gone, err := svc.Latest(ctx, "other-org", "disaster_recovery")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestPlanService_Templates(t *testing.T) {
	svc, _, _ := newTestPlanService()
	ctx := context.Background()

	require.NoError(t, svc.SaveTemplate(ctx, &model.PlanTemplate{PlanType: "crisis_comms", BodyTemplate: "x"}))
	require.NoError(t, svc.SaveTemplate(ctx, &model.PlanTemplate{PlanType: "crisis_comms", BodyTemplate: "y"}))

	all, err := svc.Templates(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1, "upsert replaces by plan type")
	assert.Equal(t, "y", all[0].BodyTemplate)
}
