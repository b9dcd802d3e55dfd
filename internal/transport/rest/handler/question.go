package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"continuity-api/internal/model"
	"continuity-api/internal/service"
	"continuity-api/internal/transport/rest/middleware"
)

// QuestionHandler handles question set endpoints
type QuestionHandler struct {
	questionSvc   *service.QuestionService
	assessmentSvc *service.AssessmentService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionSvc *service.QuestionService, assessmentSvc *service.AssessmentService) *QuestionHandler {
	return &QuestionHandler{
		questionSvc:   questionSvc,
		assessmentSvc: assessmentSvc,
	}
}

// List handles GET /v1/questions/{type}
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	t := model.AssessmentType(mux.Vars(r)["type"])
	if !t.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown assessment type")
		return
	}

	questions, err := h.questionSvc.List(r.Context(), t)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

// ReplaceSetRequest is the request body for replacing a question set
type ReplaceSetRequest struct {
	Questions []model.Question `json:"questions"`
}

// ReplaceSet handles PUT /v1/questions/{type}
func (h *QuestionHandler) ReplaceSet(w http.ResponseWriter, r *http.Request) {
	t := model.AssessmentType(mux.Vars(r)["type"])
	if !t.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown assessment type")
		return
	}

	var req ReplaceSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.questionSvc.ReplaceSet(r.Context(), t, req.Questions); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": len(req.Questions)})
}

// Visible handles GET /v1/assessments/{assessmentId}/questions,
// returning only the questions currently eligible to be shown.
// Optional ?category= narrows the scope.
func (h *QuestionHandler) Visible(w http.ResponseWriter, r *http.Request) {
	assessmentID := mux.Vars(r)["assessmentId"]

	a, err := h.assessmentSvc.GetOwned(r.Context(), middleware.GetOrgID(r.Context()), assessmentID)
	if err != nil {
		writeOwnershipError(w, err)
		return
	}

	questions, err := h.questionSvc.VisibleForAssessment(r.Context(), a, r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}
