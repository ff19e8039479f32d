package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/filmatch/filmatch-backend/internal/db"
	"github.com/filmatch/filmatch-backend/internal/handlers"
	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/repos"
	"github.com/filmatch/filmatch-backend/internal/server"
	"github.com/filmatch/filmatch-backend/internal/services"
	"github.com/filmatch/filmatch-backend/internal/utils"
)

func main() {
	// Logger
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Failed to load .env: %v\n", err)
	}
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	listenAddr := utils.GetEnv("LISTEN_ADDR", ":8080", log)
	modelPath := utils.GetEnv("ML_MODEL_PATH", "data/model/movie_recommender.bin", log)
	webDir := utils.GetEnv("WEB_DIR", "web", log)
	corsOrigins := utils.GetEnv("CORS_ORIGINS", "", log)
	candidateLimit := utils.GetEnvAsInt("RECOMMEND_CANDIDATE_LIMIT", 100, log)
	topK := utils.GetEnvAsInt("RECOMMEND_TOP_K", 5, log)

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Database auto migration failed", "error", err)
		os.Exit(1)
	}
	gormDB := dbService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	movieRepo := repos.NewMovieRepo(gormDB, log)
	ratingRepo := repos.NewRatingRepo(gormDB, log)
	userRepo := repos.NewUserRepo(gormDB, log)

	// Services
	log.Info("Setting up services from main...")
	scoringService := services.NewScoringService(log, modelPath)
	trainingService := services.NewTrainingService(log, ratingRepo, movieRepo, modelPath)
	recommendationService := services.NewRecommendationService(log, movieRepo, scoringService, services.RecommenderConfig{
		CandidateLimit: candidateLimit,
		TopK:           topK,
	})
	movieService := services.NewMovieService(log, movieRepo, ratingRepo)
	ratingService := services.NewRatingService(log, ratingRepo)
	authService := services.NewAuthService(log, userRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService)
	movieHandler := handlers.NewMovieHandler(log, movieService)
	ratingHandler := handlers.NewRatingHandler(log, ratingService)
	recommendationHandler := handlers.NewRecommendationHandler(log, trainingService, scoringService, recommendationService)

	var origins []string
	if corsOrigins != "" {
		origins = strings.Split(corsOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		Log:                   log,
		AuthHandler:           authHandler,
		MovieHandler:          movieHandler,
		RatingHandler:         ratingHandler,
		RecommendationHandler: recommendationHandler,
		CORSOrigins:           origins,
		WebDir:                webDir,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Hot-reload the model when a training pass replaces the artifact.
	go scoringService.Watch(ctx)

	srv := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}
	go func() {
		log.Info("HTTP server listening", "addr", listenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown failed", "error", err)
	}
}
