package ml

import (
	"strconv"

	"github.com/filmatch/filmatch-backend/internal/types"
)

// FeatureRecord is the flat representation of a (user, movie) pair the model
// consumes. UserID is a string on purpose: the encoder must treat distinct
// users as distinct categories, not points on a numeric scale. Label is only
// meaningful for training records.
type FeatureRecord struct {
	UserID string  `json:"userId"`
	Year   float32 `json:"year"`
	Genre  string  `json:"genre"`
	Cast   string  `json:"cast"`
	Label  float32 `json:"label,omitempty"`
}

// TrainingRecord flattens a rating and its movie into a labeled record.
// Missing movie metadata defaults to zero values rather than failing.
func TrainingRecord(rating *types.Rating, movie *types.Movie) FeatureRecord {
	rec := CandidateRecord(rating.UserID, movie)
	rec.Label = rating.Value
	return rec
}

// CandidateRecord builds an unlabeled record for scoring a movie for a user.
func CandidateRecord(userID int, movie *types.Movie) FeatureRecord {
	rec := FeatureRecord{UserID: strconv.Itoa(userID)}
	if movie == nil {
		return rec
	}
	if movie.Year != nil {
		rec.Year = float32(*movie.Year)
	}
	if movie.Genre != nil {
		rec.Genre = *movie.Genre
	}
	if movie.Cast != nil {
		rec.Cast = *movie.Cast
	}
	return rec
}
