package services

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/repos"
)

func TestRecommend_ScenarioExcludesRatedMovies(t *testing.T) {
	db := newTestDB(t)
	log := logger.NewNop()
	path := filepath.Join(t.TempDir(), "model.bin")

	seedMovie(t, db, 10, "Drama 2000", 2000, "drama", "a b")
	seedMovie(t, db, 11, "Comedy 1999", 1999, "comedy", "c d")
	seedMovie(t, db, 12, "Drama 2001", 2001, "drama", "a e")
	seedRating(t, db, 1, 10, 5)
	seedRating(t, db, 1, 11, 2)

	movieRepo := repos.NewMovieRepo(db, log)
	ratingRepo := repos.NewRatingRepo(db, log)
	training := NewTrainingService(log, ratingRepo, movieRepo, path)
	if _, err := training.Train(context.Background()); err != nil {
		t.Fatalf("train failed: %v", err)
	}
	scoring := NewScoringService(log, path)
	recSvc := NewRecommendationService(log, movieRepo, scoring, RecommenderConfig{})

	recs, err := recSvc.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) > 5 {
		t.Fatalf("expected at most 5 results, got %d", len(recs))
	}
	for _, r := range recs {
		if r.MovieID == 10 || r.MovieID == 11 {
			t.Fatalf("recommendation includes already-rated movie %d", r.MovieID)
		}
		if math.IsNaN(float64(r.Score)) || math.IsInf(float64(r.Score), 0) {
			t.Fatalf("expected finite score, got %v", r.Score)
		}
	}
}

func TestRecommend_SortedDescendingAndCapped(t *testing.T) {
	db := newTestDB(t)
	log := logger.NewNop()
	path := filepath.Join(t.TempDir(), "model.bin")

	for i := 1; i <= 12; i++ {
		genre := "drama"
		if i%2 == 0 {
			genre = "comedy"
		}
		seedMovie(t, db, i, "Movie", 1990+i, genre, "cast")
	}
	// User 2 supplies training signal; user 1 has rated nothing.
	for i := 1; i <= 6; i++ {
		value := float32(5)
		if i%2 == 0 {
			value = 1
		}
		seedRating(t, db, 2, i, value)
	}

	movieRepo := repos.NewMovieRepo(db, log)
	ratingRepo := repos.NewRatingRepo(db, log)
	training := NewTrainingService(log, ratingRepo, movieRepo, path)
	if _, err := training.Train(context.Background()); err != nil {
		t.Fatalf("train failed: %v", err)
	}
	scoring := NewScoringService(log, path)
	recSvc := NewRecommendationService(log, movieRepo, scoring, RecommenderConfig{})

	recs, err := recSvc.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("expected exactly 5 of 12 candidates, got %d", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Score < recs[i].Score {
			t.Fatalf("expected descending scores, got %v before %v", recs[i-1].Score, recs[i].Score)
		}
	}
}

func TestRecommend_TiedScoresKeepCandidateOrder(t *testing.T) {
	db := newTestDB(t)
	log := logger.NewNop()
	path := filepath.Join(t.TempDir(), "model.bin")

	// Identical metadata everywhere, so every candidate scores the same for
	// user 1 and the sort must fall back to the by-id candidate order.
	for i := 1; i <= 8; i++ {
		seedMovie(t, db, i, "Twin", 2000, "drama", "same cast")
	}
	seedRating(t, db, 2, 6, 4)
	seedRating(t, db, 2, 7, 4)

	movieRepo := repos.NewMovieRepo(db, log)
	ratingRepo := repos.NewRatingRepo(db, log)
	training := NewTrainingService(log, ratingRepo, movieRepo, path)
	if _, err := training.Train(context.Background()); err != nil {
		t.Fatalf("train failed: %v", err)
	}
	scoring := NewScoringService(log, path)
	recSvc := NewRecommendationService(log, movieRepo, scoring, RecommenderConfig{})

	recs, err := recSvc.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("expected 5 results, got %d", len(recs))
	}
	for i, r := range recs {
		if r.Score != recs[0].Score {
			t.Fatalf("expected tied scores, got %v and %v", recs[0].Score, r.Score)
		}
		if r.MovieID != i+1 {
			t.Fatalf("expected tied candidates in id order, got movie %d at %d", r.MovieID, i)
		}
	}
}

func TestRecommend_UserWhoRatedEverythingGetsEmptySlice(t *testing.T) {
	db := newTestDB(t)
	log := logger.NewNop()
	path := filepath.Join(t.TempDir(), "model.bin")

	seedMovie(t, db, 1, "Only", 2000, "drama", "x")
	seedRating(t, db, 1, 1, 4)

	movieRepo := repos.NewMovieRepo(db, log)
	ratingRepo := repos.NewRatingRepo(db, log)
	training := NewTrainingService(log, ratingRepo, movieRepo, path)
	if _, err := training.Train(context.Background()); err != nil {
		t.Fatalf("train failed: %v", err)
	}
	scoring := NewScoringService(log, path)
	recSvc := NewRecommendationService(log, movieRepo, scoring, RecommenderConfig{})

	recs, err := recSvc.Recommend(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty result, got %v", recs)
	}
}

func TestRecommend_ModelUnavailable(t *testing.T) {
	db := newTestDB(t)
	log := logger.NewNop()

	seedMovie(t, db, 1, "Any", 2000, "drama", "x")

	movieRepo := repos.NewMovieRepo(db, log)
	scoring := NewScoringService(log, filepath.Join(t.TempDir(), "absent.bin"))
	recSvc := NewRecommendationService(log, movieRepo, scoring, RecommenderConfig{})

	_, err := recSvc.Recommend(context.Background(), 1)
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}
