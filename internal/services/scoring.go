package services

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/ml"
)

type ScoringService interface {
	// Predict scores one record. Safe for concurrent callers.
	Predict(rec ml.FeatureRecord) (float32, error)
	// Reload swaps in the artifact currently on disk.
	Reload() error
	// Watch reloads the model whenever the artifact file is replaced.
	// Blocks until ctx is done.
	Watch(ctx context.Context)
	Loaded() bool
}

// scoringService holds the current model behind an atomic pointer. Each
// reload builds a fresh immutable model and swaps the pointer, so in-flight
// Predict calls keep the snapshot they started with.
type scoringService struct {
	log       *logger.Logger
	modelPath string
	current   atomic.Pointer[ml.Model]
}

func NewScoringService(log *logger.Logger, modelPath string) ScoringService {
	s := &scoringService{
		log:       log.With("service", "ScoringService"),
		modelPath: modelPath,
	}
	if err := s.Reload(); err != nil {
		if os.IsNotExist(err) {
			s.log.Warn("No model artifact yet, predictions unavailable until trained", "path", modelPath)
		} else {
			s.log.Error("Failed to load model at startup", "path", modelPath, "error", err)
		}
	}
	return s
}

func (s *scoringService) Predict(rec ml.FeatureRecord) (float32, error) {
	model := s.current.Load()
	if model == nil {
		return 0, ErrModelUnavailable
	}
	return model.Predict(rec), nil
}

func (s *scoringService) Loaded() bool {
	return s.current.Load() != nil
}

func (s *scoringService) Reload() error {
	model, err := ml.Load(s.modelPath)
	if err != nil {
		return err
	}
	s.current.Store(model)
	s.log.Info("Model loaded", "path", s.modelPath, "records", model.Records, "trained_at", model.TrainedAt)
	return nil
}

func (s *scoringService) Watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Error("Failed to start model watcher", "error", err)
		return
	}
	defer watcher.Close()

	// Watch the directory: saves land as a rename into the target path, and
	// rename targets only surface as directory events.
	dir := filepath.Dir(s.modelPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.Error("Failed to create model directory for watcher", "dir", dir, "error", err)
		return
	}
	if err := watcher.Add(dir); err != nil {
		s.log.Error("Failed to watch model directory", "dir", dir, "error", err)
		return
	}
	s.log.Info("Watching model artifact for changes", "path", s.modelPath)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != s.modelPath {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.log.Error("Model reload failed", "path", s.modelPath, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Error("Model watcher error", "error", err)
		}
	}
}
