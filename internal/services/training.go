package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/ml"
	"github.com/filmatch/filmatch-backend/internal/repos"
	"github.com/filmatch/filmatch-backend/internal/types"
)

// TrainingReport summarises one training pass.
type TrainingReport struct {
	RunID    string        `json:"runId"`
	Records  int           `json:"records"`
	Path     string        `json:"path,omitempty"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"-"`
}

type TrainingService interface {
	Train(ctx context.Context) (*TrainingReport, error)
}

type trainingService struct {
	log        *logger.Logger
	ratingRepo repos.RatingRepo
	movieRepo  repos.MovieRepo
	modelPath  string
	inFlight   sync.Mutex
}

func NewTrainingService(log *logger.Logger, ratingRepo repos.RatingRepo, movieRepo repos.MovieRepo, modelPath string) TrainingService {
	return &trainingService{
		log:        log.With("service", "TrainingService"),
		ratingRepo: ratingRepo,
		movieRepo:  movieRepo,
		modelPath:  modelPath,
	}
}

// Train joins every rating with its movie, fits the pipeline and replaces the
// model artifact on disk. At most one pass runs at a time; a concurrent call
// fails fast with ErrTrainingInProgress instead of racing the save.
func (ts *trainingService) Train(ctx context.Context) (*TrainingReport, error) {
	if !ts.inFlight.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer ts.inFlight.Unlock()

	runID := uuid.NewString()
	runLog := ts.log.With("run_id", runID)
	start := time.Now()

	records, err := ts.buildTrainingSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load training data: %w", err)
	}

	if len(records) == 0 {
		runLog.Info("No ratings to train on, keeping existing model")
		return &TrainingReport{
			RunID:   runID,
			Records: 0,
			Message: "no data to train",
		}, nil
	}

	runLog.Info("Fitting model", "records", len(records))
	model, err := ml.Fit(records)
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}

	if err := model.Save(ts.modelPath); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	duration := time.Since(start)
	runLog.Info("Model trained and saved", "records", len(records), "path", ts.modelPath, "duration", duration)
	return &TrainingReport{
		RunID:    runID,
		Records:  len(records),
		Path:     ts.modelPath,
		Message:  fmt.Sprintf("model trained with %d records and saved to %s", len(records), ts.modelPath),
		Duration: duration,
	}, nil
}

// buildTrainingSet inner-joins ratings with movies: ratings whose movie row
// is missing are silently excluded.
func (ts *trainingService) buildTrainingSet(ctx context.Context) ([]ml.FeatureRecord, error) {
	ratings, err := ts.ratingRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, nil
	}

	movieIDs := make([]int, 0, len(ratings))
	seen := make(map[int]struct{}, len(ratings))
	for _, r := range ratings {
		if _, ok := seen[r.MovieID]; ok {
			continue
		}
		seen[r.MovieID] = struct{}{}
		movieIDs = append(movieIDs, r.MovieID)
	}

	movies, err := ts.movieRepo.GetByIDs(ctx, nil, movieIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*types.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}

	records := make([]ml.FeatureRecord, 0, len(ratings))
	for _, r := range ratings {
		movie, ok := byID[r.MovieID]
		if !ok {
			continue
		}
		records = append(records, ml.TrainingRecord(r, movie))
	}
	return records, nil
}
