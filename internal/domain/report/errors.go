package report

import "errors"

// Sentinel error kinds for the assessment input contract. Callers match
// them with errors.Is.
var (
	// ErrInvalidInput marks a request the engine refuses to assess:
	// a reference with no readable words, a negative duration, or a
	// batch outside its size bounds. No partial report accompanies it.
	ErrInvalidInput = errors.New("invalid assessment input")
)
