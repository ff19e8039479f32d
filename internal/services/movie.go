package services

import (
	"context"
	"fmt"

	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/repos"
)

// MovieWithRating is a catalog row merged with the viewing user's own rating.
// Nullable metadata is flattened for the frontend: 0 year, empty strings,
// MyRating 0 when the user has not rated the movie.
type MovieWithRating struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Genre    string  `json:"genre"`
	Year     int     `json:"year"`
	Photo    string  `json:"photo"`
	MyRating float32 `json:"myRating"`
}

type MovieService interface {
	ListForUser(ctx context.Context, userID int) ([]MovieWithRating, error)
}

type movieService struct {
	log        *logger.Logger
	movieRepo  repos.MovieRepo
	ratingRepo repos.RatingRepo
}

func NewMovieService(log *logger.Logger, movieRepo repos.MovieRepo, ratingRepo repos.RatingRepo) MovieService {
	return &movieService{
		log:        log.With("service", "MovieService"),
		movieRepo:  movieRepo,
		ratingRepo: ratingRepo,
	}
}

func (ms *movieService) ListForUser(ctx context.Context, userID int) ([]MovieWithRating, error) {
	movies, err := ms.movieRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	ratings, err := ms.ratingRepo.ForUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user ratings: %w", err)
	}
	byMovie := make(map[int]float32, len(ratings))
	for _, r := range ratings {
		byMovie[r.MovieID] = r.Value
	}

	results := make([]MovieWithRating, 0, len(movies))
	for _, m := range movies {
		row := MovieWithRating{
			ID:       m.ID,
			Title:    m.Title,
			MyRating: byMovie[m.ID],
		}
		if m.Year != nil {
			row.Year = *m.Year
		}
		if m.Genre != nil {
			row.Genre = *m.Genre
		}
		if m.Photo != nil {
			row.Photo = *m.Photo
		}
		results = append(results, row)
	}
	return results, nil
}
