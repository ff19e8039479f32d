package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/services"
)

type MovieHandler struct {
	log      *logger.Logger
	movieSvc services.MovieService
}

func NewMovieHandler(log *logger.Logger, movieSvc services.MovieService) *MovieHandler {
	return &MovieHandler{
		log:      log.With("handler", "MovieHandler"),
		movieSvc: movieSvc,
	}
}

// GET /api/recommendations/movies/:userId
// Full catalog with the user's own rating per movie (0 when unrated).
func (mh *MovieHandler) ListForUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	movies, err := mh.movieSvc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		mh.log.Error("Failed to list movies", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, movies)
}
