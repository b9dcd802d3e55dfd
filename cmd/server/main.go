package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"continuity-api/internal/cache"
	"continuity-api/internal/config"
	"continuity-api/internal/logger"
	"continuity-api/internal/repository"
	"continuity-api/internal/service"
	"continuity-api/internal/transport/rest"
	"continuity-api/internal/transport/ws"
)

// @title Continuity Assessment API
// @version 1.0
// @description BCDR assessment service: questionnaires, progress scoring, plan document generation
// @host localhost:8080
// @BasePath /v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	log.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("failed to ping Redis", zap.Error(err))
	}
	log.Info("connected to Redis")

	// WebSocket hub
	wsHub := ws.NewHub(log)

	// Repositories
	questionRepo := repository.NewQuestionRepo(db)
	assessmentRepo := repository.NewAssessmentRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	documentRepo := repository.NewDocumentRepo(db)

	// Caches
	sessionCache := cache.NewSessionCache(rdb)
	draftCache := cache.NewDraftCache(rdb)
	progressCache := cache.NewProgressCache(rdb)

	// Services
	authSvc := service.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret, sessionCache)
	assessmentSvc := service.NewAssessmentService(assessmentRepo, questionRepo, responseRepo, progressCache, draftCache, log)
	questionSvc := service.NewQuestionService(questionRepo, responseRepo)
	responseSvc := service.NewResponseService(assessmentRepo, questionRepo, responseRepo, draftCache, assessmentSvc, log)
	planSvc := service.NewPlanService(templateRepo, documentRepo, log)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	assessmentSvc.SetBroadcaster(wsHub)

	wsHandler := ws.NewHandler(wsHub, authSvc, log)

	// Create router with container
	container := &rest.Container{
		AuthService:       authSvc,
		AssessmentService: assessmentSvc,
		QuestionService:   questionSvc,
		ResponseService:   responseSvc,
		PlanService:       planSvc,
		WSHandler:         wsHandler,
		CORSOrigins:       cfg.CORSOrigins,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen and serve", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
