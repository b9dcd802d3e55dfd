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

// AssessmentHandler handles assessment lifecycle endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentSvc: assessmentSvc}
}

// StartAssessmentRequest is the request body for starting an assessment
type StartAssessmentRequest struct {
	Type model.AssessmentType `json:"type"`
}

// Start handles POST /v1/assessments
func (h *AssessmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	var req StartAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Type.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown assessment type")
		return
	}

	a, err := h.assessmentSvc.Start(r.Context(), orgID, req.Type)
	if err != nil {
		if errors.Is(err, service.ErrArchiveRequired) {
			// Not a failure: the client offers "archive and restart"
			writeJSON(w, http.StatusConflict, map[string]string{
				"error":  err.Error(),
				"action": "archive_and_restart",
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

// Restart handles POST /v1/assessments/restart
func (h *AssessmentHandler) Restart(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	var req StartAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Type.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown assessment type")
		return
	}

	a, err := h.assessmentSvc.ArchiveAndRestart(r.Context(), orgID, req.Type)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

// Get handles GET /v1/assessments/{assessmentId}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	assessmentID := mux.Vars(r)["assessmentId"]

	a, err := h.assessmentSvc.GetOwned(r.Context(), middleware.GetOrgID(r.Context()), assessmentID)
	if err != nil {
		writeOwnershipError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// List handles GET /v1/assessments
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())

	assessments, err := h.assessmentSvc.ListByOrg(r.Context(), orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"assessments": assessments})
}

// Complete handles POST /v1/assessments/{assessmentId}/complete
func (h *AssessmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	assessmentID := mux.Vars(r)["assessmentId"]

	a, err := h.assessmentSvc.Complete(r.Context(), middleware.GetOrgID(r.Context()), assessmentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssessmentNotFound), errors.Is(err, service.ErrForbidden):
			writeOwnershipError(w, err)
		case errors.Is(err, service.ErrEvidenceMissing):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, model.ErrInvalidStatusTransition):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// Progress handles GET /v1/assessments/{assessmentId}/progress
func (h *AssessmentHandler) Progress(w http.ResponseWriter, r *http.Request) {
	assessmentID := mux.Vars(r)["assessmentId"]

	snapshot, err := h.assessmentSvc.CachedProgress(r.Context(), middleware.GetOrgID(r.Context()), assessmentID)
	if err != nil {
		writeOwnershipError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
