package analog

import "errors"

var (
	// ErrInsufficientHistory indicates fewer observed months than the model
	// needs, or a station with no usable historical ratios.
	ErrInsufficientHistory = errors.New("analog: insufficient history")

	// ErrNoAcceptableAnalog indicates that every ranked candidate period was
	// rejected by the amplitude or used-year checks.
	ErrNoAcceptableAnalog = errors.New("analog: no acceptable analog period")

	// ErrHorizonExceedsHistory indicates a forecast horizon that runs past
	// the end of the analog source data.
	ErrHorizonExceedsHistory = errors.New("analog: horizon exceeds available history")
)
