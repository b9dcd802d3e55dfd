package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"continuity-api/internal/model"
	"continuity-api/internal/repository"
	"continuity-api/internal/service"
	"continuity-api/internal/transport/rest/middleware"
)

// ResponseHandler handles response persistence endpoints
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// SaveResponsesRequest is the request body for a response batch save
type SaveResponsesRequest struct {
	Responses []model.Response `json:"responses"`
	Revision  int64            `json:"revision"`
}

// Save handles PUT /v1/assessments/{assessmentId}/responses
func (h *ResponseHandler) Save(w http.ResponseWriter, r *http.Request) {
	assessmentID := mux.Vars(r)["assessmentId"]

	var req SaveResponsesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Responses) == 0 {
		writeError(w, http.StatusBadRequest, "no responses in request")
		return
	}

	result, err := h.responseSvc.Save(r.Context(), middleware.GetOrgID(r.Context()), assessmentID, req.Responses, req.Revision)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssessmentNotFound), errors.Is(err, service.ErrForbidden):
			writeOwnershipError(w, err)
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, repository.ErrStaleRevision):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, model.ErrInvalidStatusTransition):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /v1/assessments/{assessmentId}/responses
func (h *ResponseHandler) Get(w http.ResponseWriter, r *http.Request) {
	assessmentID := mux.Vars(r)["assessmentId"]

	responses, err := h.responseSvc.Responses(r.Context(), middleware.GetOrgID(r.Context()), assessmentID)
	if err != nil {
		writeOwnershipError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"responses": responses})
}

// SaveDraft handles PUT /v1/assessments/{assessmentId}/questions/{questionId}/draft
func (h *ResponseHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	assessmentID := vars["assessmentId"]
	questionID := vars["questionId"]

	var resp model.Response
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp.QuestionID = questionID

	if err := h.responseSvc.SaveDraft(r.Context(), middleware.GetOrgID(r.Context()), assessmentID, &resp); err != nil {
		writeOwnershipError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "draft_saved"})
}

// Drafts handles GET /v1/assessments/{assessmentId}/drafts
func (h *ResponseHandler) Drafts(w http.ResponseWriter, r *http.Request) {
	assessmentID := mux.Vars(r)["assessmentId"]

	drafts, err := h.responseSvc.Drafts(r.Context(), middleware.GetOrgID(r.Context()), assessmentID)
	if err != nil {
		writeOwnershipError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"drafts": drafts})
}
