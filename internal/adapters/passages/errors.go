package passages

import "errors"

// Error constants.
var (
	// ErrBadCatalog marks an embedded catalog that fails validation at
	// startup; the process should refuse to start rather than serve it.
	ErrBadCatalog = errors.New("invalid passage catalog")

	// ErrUnknownDifficulty marks a difficulty filter outside the
	// beginner/intermediate/advanced labels.
	ErrUnknownDifficulty = errors.New("unknown difficulty")

	// ErrInvalidAge marks a non-positive age filter.
	ErrInvalidAge = errors.New("invalid age")
)
