package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/ml"
	"github.com/filmatch/filmatch-backend/internal/services"
)

type RecommendationHandler struct {
	log      *logger.Logger
	training services.TrainingService
	scoring  services.ScoringService
	recSvc   services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, training services.TrainingService, scoring services.ScoringService, recSvc services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:      log.With("handler", "RecommendationHandler"),
		training: training,
		scoring:  scoring,
		recSvc:   recSvc,
	}
}

// POST /api/recommendations/train
// Triggers a full synchronous retrain.
func (rh *RecommendationHandler) Train(c *gin.Context) {
	report, err := rh.training.Train(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrTrainingInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		rh.log.Error("Training failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// The watcher also picks the new artifact up, but swapping here makes the
	// fresh model visible to the very next request.
	if report.Records > 0 {
		if err := rh.scoring.Reload(); err != nil {
			rh.log.Warn("Model reload after training failed", "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": report.Message})
}

// POST /api/recommendations/predict
// Scores a single caller-supplied feature record.
func (rh *RecommendationHandler) Predict(c *gin.Context) {
	var input ml.FeatureRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	score, err := rh.scoring.Predict(input)
	if err != nil {
		if errors.Is(err, services.ErrModelUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		rh.log.Error("Prediction failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictedScore": score, "input": input})
}

// GET /api/recommendations/recommend/:userId
// Top 5 unrated movies for the user, best predicted rating first.
func (rh *RecommendationHandler) Recommend(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	recs, err := rh.recSvc.Recommend(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrModelUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		rh.log.Error("Recommendation failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recs)
}
