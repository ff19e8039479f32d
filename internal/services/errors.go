package services

import "errors"

var (
	// ErrModelUnavailable is returned by Predict before any model has been
	// trained or loaded.
	ErrModelUnavailable = errors.New("no trained model available")

	// ErrTrainingInProgress is returned when Train is called while another
	// training pass holds the flight lock.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrInvalidCredentials is deliberately generic so login failures do not
	// reveal whether the user exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidID rejects zero user or movie identifiers on rating submission.
	ErrInvalidID = errors.New("userId and movieId must be non-zero")
)
