package ml

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const modelVersion = 1

// Model is the trained scoring pipeline: the fitted encoders, the feature
// vector layout and the tree ensemble. Once built it is immutable; callers
// may share one instance across goroutines.
type Model struct {
	Version   int
	TrainedAt time.Time
	Records   int

	Users  *UserEncoder
	Genres *TextFeaturizer
	Casts  *TextFeaturizer

	Ensemble *Ensemble
}

// Fit trains the full pipeline: encoders over the training records, then the
// gradient-boosted ensemble over the encoded vectors. The feature vector is
// [user one-hot | year | genre terms | cast terms].
func Fit(records []FeatureRecord) (*Model, error) {
	if len(records) == 0 {
		return nil, errors.New("no training records")
	}

	genres := make([]string, len(records))
	casts := make([]string, len(records))
	for i, rec := range records {
		genres[i] = rec.Genre
		casts[i] = rec.Cast
	}

	m := &Model{
		Version:   modelVersion,
		TrainedAt: time.Now().UTC(),
		Records:   len(records),
		Users:     fitUserEncoder(records),
		Genres:    fitTextFeaturizer(genres),
		Casts:     fitTextFeaturizer(casts),
	}

	features := make([][]float64, len(records))
	labels := make([]float64, len(records))
	for i, rec := range records {
		features[i] = m.vectorize(rec)
		labels[i] = float64(rec.Label)
	}

	ensemble, err := FitEnsemble(GBTConfig{Trees: 50}, features, labels)
	if err != nil {
		return nil, fmt.Errorf("failed to fit tree ensemble: %w", err)
	}
	m.Ensemble = ensemble
	return m, nil
}

// Predict scores one record. Safe for concurrent use.
func (m *Model) Predict(rec FeatureRecord) float32 {
	return float32(m.Ensemble.Predict(m.vectorize(rec)))
}

func (m *Model) featureSize() int {
	return m.Users.width() + 1 + m.Genres.width() + m.Casts.width()
}

func (m *Model) vectorize(rec FeatureRecord) []float64 {
	vec := make([]float64, m.featureSize())
	offset := 0
	m.Users.encode(rec.UserID, vec, offset)
	offset += m.Users.width()
	vec[offset] = float64(rec.Year)
	offset++
	m.Genres.encode(rec.Genre, vec, offset)
	offset += m.Genres.width()
	m.Casts.encode(rec.Cast, vec, offset)
	return vec
}

// Save serializes the model to path. The artifact is written to a temp file
// in the target directory and renamed into place, so a failed save leaves
// any prior artifact untouched.
func (m *Model) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp model file: %w", err)
	}
	tmpName := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(m); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write model file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace model file: %w", err)
	}
	return nil
}

// Load reads a model artifact from path.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m Model
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode model file: %w", err)
	}
	if m.Version != modelVersion {
		return nil, fmt.Errorf("unsupported model version %d", m.Version)
	}
	return &m, nil
}
