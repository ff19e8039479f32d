package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/services"
)

type RatingHandler struct {
	log       *logger.Logger
	ratingSvc services.RatingService
}

func NewRatingHandler(log *logger.Logger, ratingSvc services.RatingService) *RatingHandler {
	return &RatingHandler{
		log:       log.With("handler", "RatingHandler"),
		ratingSvc: ratingSvc,
	}
}

// POST /api/recommendations/rate
func (rh *RatingHandler) Rate(c *gin.Context) {
	var req struct {
		UserID  int     `json:"userId"`
		MovieID int     `json:"movieId"`
		Rating  float32 `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := rh.ratingSvc.Rate(c.Request.Context(), req.UserID, req.MovieID, req.Rating); err != nil {
		if errors.Is(err, services.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rh.log.Error("Failed to save rating", "user_id", req.UserID, "movie_id", req.MovieID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rating saved"})
}
