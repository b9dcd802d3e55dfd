package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"continuity-api/internal/model"
	"continuity-api/internal/service"
	"continuity-api/internal/transport/rest/middleware"
)

// PlanHandler handles plan template and document endpoints
type PlanHandler struct {
	planSvc *service.PlanService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planSvc *service.PlanService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc}
}

// GeneratePlanRequest is the request body for document generation
type GeneratePlanRequest struct {
	AssessmentID string                 `json:"assessmentId,omitempty"`
	Data         map[string]interface{} `json:"data"`
}

// Generate handles POST /v1/plans/{planType}/generate
func (h *PlanHandler) Generate(w http.ResponseWriter, r *http.Request) {
	planType := mux.Vars(r)["planType"]
	orgID := middleware.GetOrgID(r.Context())

	var req GeneratePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.planSvc.Generate(r.Context(), orgID, planType, req.AssessmentID, req.Data)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// Latest handles GET /v1/plans/{planType}/latest
func (h *PlanHandler) Latest(w http.ResponseWriter, r *http.Request) {
	planType := mux.Vars(r)["planType"]
	orgID := middleware.GetOrgID(r.Context())

	doc, err := h.planSvc.Latest(r.Context(), orgID, planType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "no generated document for plan type")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// ListDocuments handles GET /v1/plans/documents
func (h *PlanHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	docs, err := h.planSvc.ListDocuments(r.Context(), orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

// ListTemplates handles GET /v1/plans/templates
func (h *PlanHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.planSvc.Templates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}

// SaveTemplate handles PUT /v1/plans/{planType}/template
func (h *PlanHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	planType := mux.Vars(r)["planType"]

	var tpl model.PlanTemplate
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tpl.PlanType = planType

	if err := h.planSvc.SaveTemplate(r.Context(), &tpl); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}
