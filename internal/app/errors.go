package service

import "errors"

// Error constants.
var (
	// ErrNotStarted is returned by batch operations before Start has
	// raised the worker pool. Single assessments never need Start.
	ErrNotStarted = errors.New("assessment service is not started")
)
