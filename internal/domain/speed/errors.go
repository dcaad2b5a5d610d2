package speed

import "errors"

// Sentinel kinds for speed calculation errors.
var (
	ErrNegativeWords   = errors.New("spoken word count is negative")
	ErrNegativeElapsed = errors.New("elapsed duration is negative")
)
