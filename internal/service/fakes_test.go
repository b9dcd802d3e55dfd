package service

import (
	"context"
	"fmt"
	"sync"

	"continuity-api/internal/model"
	"continuity-api/internal/repository"
)

// In-memory doubles for the repository and cache interfaces. They keep
// just enough state for the service tests to observe side effects.

type fakeAssessmentRepo struct {
	mu     sync.Mutex
	byID   map[string]*model.Assessment
	nextID int
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{byID: make(map[string]*model.Assessment)}
}

func (r *fakeAssessmentRepo) Create(_ context.Context, a *model.Assessment) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = fmt.Sprintf("a%d", r.nextID)
	cp := *a
	r.byID[a.ID] = &cp
	return a.ID, nil
}

func (r *fakeAssessmentRepo) GetByID(_ context.Context, id string) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssessmentRepo) FindInProgress(_ context.Context, orgID string, t model.AssessmentType) (*model.Assessment, error) {
	return r.find(orgID, t, model.StatusInProgress), nil
}

func (r *fakeAssessmentRepo) FindCompleted(_ context.Context, orgID string, t model.AssessmentType) (*model.Assessment, error) {
	return r.find(orgID, t, model.StatusCompleted), nil
}

func (r *fakeAssessmentRepo) find(orgID string, t model.AssessmentType, status model.AssessmentStatus) *model.Assessment {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.OrganizationID == orgID && a.Type == t && a.Status == status {
			cp := *a
			return &cp
		}
	}
	return nil
}

func (r *fakeAssessmentRepo) ListByOrg(_ context.Context, orgID string) ([]*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Assessment
	for _, a := range r.byID {
		if a.OrganizationID == orgID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAssessmentRepo) Update(_ context.Context, a *model.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *fakeAssessmentRepo) BumpRevision(_ context.Context, id string, expected int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok || a.ResponseRevision != expected {
		return 0, repository.ErrStaleRevision
	}
	a.ResponseRevision++
	return a.ResponseRevision, nil
}

type fakeQuestionRepo struct {
	questions []model.Question
}

func (r *fakeQuestionRepo) ListByType(_ context.Context, t model.AssessmentType) ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.questions {
		if q.AssessmentType == t {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) GetByID(_ context.Context, id string) (*model.Question, error) {
	for _, q := range r.questions {
		if q.ID == id {
			cp := q
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeQuestionRepo) ReplaceSet(_ context.Context, t model.AssessmentType, questions []model.Question) error {
	var kept []model.Question
	for _, q := range r.questions {
		if q.AssessmentType != t {
			kept = append(kept, q)
		}
	}
	r.questions = append(kept, questions...)
	return nil
}

type fakeResponseRepo struct {
	mu      sync.Mutex
	byAsmnt map[string]model.ResponseSet
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{byAsmnt: make(map[string]model.ResponseSet)}
}

func (r *fakeResponseRepo) UpsertMany(_ context.Context, assessmentID string, responses []model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.byAsmnt[assessmentID]
	if !ok {
		set = make(model.ResponseSet)
		r.byAsmnt[assessmentID] = set
	}
	for _, resp := range responses {
		set[resp.QuestionID] = resp
	}
	return nil
}

func (r *fakeResponseRepo) ListByAssessment(_ context.Context, assessmentID string) (model.ResponseSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byAsmnt[assessmentID].Clone(), nil
}

func (r *fakeResponseRepo) DeleteByQuestionIDs(_ context.Context, assessmentID string, questionIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.byAsmnt[assessmentID]
	for _, id := range questionIDs {
		delete(set, id)
	}
	return nil
}

func (r *fakeResponseRepo) DeleteByAssessment(_ context.Context, assessmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byAsmnt, assessmentID)
	return nil
}

type fakeDraftCache struct {
	mu      sync.Mutex
	drafts  map[string]model.ResponseSet
	cleared []string
}

func newFakeDraftCache() *fakeDraftCache {
	return &fakeDraftCache{drafts: make(map[string]model.ResponseSet)}
}

func (c *fakeDraftCache) SetDraft(_ context.Context, assessmentID string, resp *model.Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.drafts[assessmentID]
	if !ok {
		set = make(model.ResponseSet)
		c.drafts[assessmentID] = set
	}
	set[resp.QuestionID] = *resp
	return nil
}

func (c *fakeDraftCache) GetDraft(_ context.Context, assessmentID, questionID string) (*model.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if resp, ok := c.drafts[assessmentID][questionID]; ok {
		cp := resp
		return &cp, nil
	}
	return nil, nil
}

func (c *fakeDraftCache) GetAllDrafts(_ context.Context, assessmentID string) (model.ResponseSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drafts[assessmentID].Clone(), nil
}

func (c *fakeDraftCache) DeleteDrafts(_ context.Context, assessmentID string, questionIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	set := c.drafts[assessmentID]
	for _, id := range questionIDs {
		delete(set, id)
	}
	return nil
}

func (c *fakeDraftCache) Clear(_ context.Context, assessmentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.drafts, assessmentID)
	c.cleared = append(c.cleared, assessmentID)
	return nil
}

type fakeProgressCache struct {
	mu        sync.Mutex
	snapshots map[string]*model.ProgressSnapshot
}

func newFakeProgressCache() *fakeProgressCache {
	return &fakeProgressCache{snapshots: make(map[string]*model.ProgressSnapshot)}
}

func (c *fakeProgressCache) Set(_ context.Context, snapshot *model.ProgressSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[snapshot.AssessmentID] = snapshot
	return nil
}

func (c *fakeProgressCache) Get(_ context.Context, assessmentID string) (*model.ProgressSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshots[assessmentID], nil
}

func (c *fakeProgressCache) Delete(_ context.Context, assessmentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, assessmentID)
	return nil
}

type fakeSessionCache struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{sessions: make(map[string]*model.Session)}
}

func (c *fakeSessionCache) Set(_ context.Context, session *model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.ID] = session
	return nil
}

func (c *fakeSessionCache) Get(_ context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[id], nil
}

func (c *fakeSessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}

type fakeTemplateRepo struct {
	byPlanType map[string]*model.PlanTemplate
}

func (r *fakeTemplateRepo) GetByPlanType(_ context.Context, planType string) (*model.PlanTemplate, error) {
	return r.byPlanType[planType], nil
}

func (r *fakeTemplateRepo) List(_ context.Context) ([]*model.PlanTemplate, error) {
	var out []*model.PlanTemplate
	for _, tpl := range r.byPlanType {
		out = append(out, tpl)
	}
	return out, nil
}

func (r *fakeTemplateRepo) Upsert(_ context.Context, tpl *model.PlanTemplate) error {
	if r.byPlanType == nil {
		r.byPlanType = make(map[string]*model.PlanTemplate)
	}
	r.byPlanType[tpl.PlanType] = tpl
	return nil
}

type fakeDocumentRepo struct {
	mu     sync.Mutex
	docs   []*model.PlanDocument
	nextID int
}

func (r *fakeDocumentRepo) Save(_ context.Context, doc *model.PlanDocument) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	doc.ID = fmt.Sprintf("d%d", r.nextID)
	r.docs = append(r.docs, doc)
	return doc.ID, nil
}

func (r *fakeDocumentRepo) GetLatest(_ context.Context, orgID, planType string) (*model.PlanDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.docs) - 1; i >= 0; i-- {
		if r.docs[i].OrganizationID == orgID && r.docs[i].PlanType == planType {
			return r.docs[i], nil
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) ListByOrg(_ context.Context, orgID string) ([]*model.PlanDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PlanDocument
	for _, d := range r.docs {
		if d.OrganizationID == orgID {
			out = append(out, d)
		}
	}
	return out, nil
}

type broadcastEvent struct {
	orgID   string
	msgType string
	payload interface{}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (b *fakeBroadcaster) BroadcastToOrg(orgID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{orgID: orgID, msgType: msgType, payload: payload})
}

func (b *fakeBroadcaster) byType(msgType string) []broadcastEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []broadcastEvent
	for _, e := range b.events {
		if e.msgType == msgType {
			out = append(out, e)
		}
	}
	return out
}
