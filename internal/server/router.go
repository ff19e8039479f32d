package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/filmatch/filmatch-backend/internal/handlers"
	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/middleware"
)

type RouterConfig struct {
	Log                   *logger.Logger
	AuthHandler           *handlers.AuthHandler
	MovieHandler          *handlers.MovieHandler
	RatingHandler         *handlers.RatingHandler
	RecommendationHandler *handlers.RecommendationHandler
	CORSOrigins           []string
	WebDir                string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))

	// Cors
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api/recommendations")
	{
		api.POST("/login", cfg.AuthHandler.Login)
		api.GET("/movies/:userId", cfg.MovieHandler.ListForUser)
		api.POST("/rate", cfg.RatingHandler.Rate)
		api.POST("/train", cfg.RecommendationHandler.Train)
		api.POST("/predict", cfg.RecommendationHandler.Predict)
		api.GET("/recommend/:userId", cfg.RecommendationHandler.Recommend)
	}

	if cfg.WebDir != "" {
		router.Static("/app", cfg.WebDir)
	}

	return router
}
