package services

import (
	"context"
	"fmt"

	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/repos"
	"github.com/filmatch/filmatch-backend/internal/types"
)

type RatingService interface {
	Rate(ctx context.Context, userID, movieID int, value float32) error
}

type ratingService struct {
	log        *logger.Logger
	ratingRepo repos.RatingRepo
}

func NewRatingService(log *logger.Logger, ratingRepo repos.RatingRepo) RatingService {
	return &ratingService{
		log:        log.With("service", "RatingService"),
		ratingRepo: ratingRepo,
	}
}

// Rate upserts the user's rating for a movie: the latest submitted value wins.
func (rs *ratingService) Rate(ctx context.Context, userID, movieID int, value float32) error {
	if userID == 0 || movieID == 0 {
		return ErrInvalidID
	}

	rating := &types.Rating{UserID: userID, MovieID: movieID, Value: value}
	if err := rs.ratingRepo.Upsert(ctx, nil, rating); err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	return nil
}
