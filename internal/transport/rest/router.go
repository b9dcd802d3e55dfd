package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"continuity-api/internal/service"
	"continuity-api/internal/transport/rest/handler"
	"continuity-api/internal/transport/rest/middleware"
	"continuity-api/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	AssessmentService *service.AssessmentService
	QuestionService   *service.QuestionService
	ResponseService   *service.ResponseService
	PlanService       *service.PlanService
	WSHandler         *ws.Handler
	CORSOrigins       string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService)
	questionHandler := handler.NewQuestionHandler(c.QuestionService, c.AssessmentService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)
	planHandler := handler.NewPlanHandler(c.PlanService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSOrigins))

	// Health check and metrics
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/orgs/{orgId}/dashboard", c.WSHandler.DashboardWS).Methods("GET")

	// Authenticated routes
	authed := v1.NewRoute().Subrouter()
	authed.Use(authMW.RequireUser)

	authed.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")

	authed.HandleFunc("/assessments", assessmentHandler.Start).Methods("POST", "OPTIONS")
	authed.HandleFunc("/assessments", assessmentHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/assessments/restart", assessmentHandler.Restart).Methods("POST", "OPTIONS")
	authed.HandleFunc("/assessments/{assessmentId}", assessmentHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/assessments/{assessmentId}/complete", assessmentHandler.Complete).Methods("POST", "OPTIONS")
	authed.HandleFunc("/assessments/{assessmentId}/progress", assessmentHandler.Progress).Methods("GET", "OPTIONS")
	authed.HandleFunc("/assessments/{assessmentId}/questions", questionHandler.Visible).Methods("GET", "OPTIONS")
	authed.HandleFunc("/assessments/{assessmentId}/responses", responseHandler.Save).Methods("PUT", "OPTIONS")
	authed.HandleFunc("/assessments/{assessmentId}/responses", responseHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/assessments/{assessmentId}/drafts", responseHandler.Drafts).Methods("GET", "OPTIONS")
	authed.HandleFunc("/assessments/{assessmentId}/questions/{questionId}/draft", responseHandler.SaveDraft).Methods("PUT", "OPTIONS")

	authed.HandleFunc("/questions/{type}", questionHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/questions/{type}", questionHandler.ReplaceSet).Methods("PUT", "OPTIONS")

	authed.HandleFunc("/plans/templates", planHandler.ListTemplates).Methods("GET", "OPTIONS")
	authed.HandleFunc("/plans/documents", planHandler.ListDocuments).Methods("GET", "OPTIONS")
	authed.HandleFunc("/plans/{planType}/template", planHandler.SaveTemplate).Methods("PUT", "OPTIONS")
	authed.HandleFunc("/plans/{planType}/generate", planHandler.Generate).Methods("POST", "OPTIONS")
	authed.HandleFunc("/plans/{planType}/latest", planHandler.Latest).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(origins string) mux.MiddlewareFunc {
	if origins == "" {
		origins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
