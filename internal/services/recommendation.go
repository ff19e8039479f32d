package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/ml"
	"github.com/filmatch/filmatch-backend/internal/repos"
)

// ScoredMovie is one ranked recommendation.
type ScoredMovie struct {
	MovieID int     `json:"movieId"`
	Title   string  `json:"title"`
	Score   float32 `json:"predictedRating"`
}

// RecommenderConfig bounds the work done per request.
type RecommenderConfig struct {
	CandidateLimit int
	TopK           int
}

type RecommendationService interface {
	Recommend(ctx context.Context, userID int) ([]ScoredMovie, error)
}

type recommendationService struct {
	log       *logger.Logger
	movieRepo repos.MovieRepo
	scoring   ScoringService
	cfg       RecommenderConfig
}

func NewRecommendationService(log *logger.Logger, movieRepo repos.MovieRepo, scoring ScoringService, cfg RecommenderConfig) RecommendationService {
	// Apply defaults
	if cfg.CandidateLimit == 0 {
		cfg.CandidateLimit = 100
	}
	if cfg.TopK == 0 {
		cfg.TopK = 5
	}
	return &recommendationService{
		log:       log.With("service", "RecommendationService"),
		movieRepo: movieRepo,
		scoring:   scoring,
		cfg:       cfg,
	}
}

// Recommend scores up to CandidateLimit movies the user has not rated and
// returns the TopK by predicted rating, descending, ties kept in candidate
// order. A user who has rated everything in reach gets an empty slice.
func (rs *recommendationService) Recommend(ctx context.Context, userID int) ([]ScoredMovie, error) {
	candidates, err := rs.movieRepo.ListUnrated(ctx, nil, userID, rs.cfg.CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	scored := make([]ScoredMovie, 0, len(candidates))
	for _, movie := range candidates {
		score, err := rs.scoring.Predict(ml.CandidateRecord(userID, movie))
		if err != nil {
			if errors.Is(err, ErrModelUnavailable) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to score movie %d: %w", movie.ID, err)
		}
		scored = append(scored, ScoredMovie{
			MovieID: movie.ID,
			Title:   movie.Title,
			Score:   score,
		})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if len(scored) > rs.cfg.TopK {
		scored = scored[:rs.cfg.TopK]
	}
	return scored, nil
}
