package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	// ErrBackpressure reports a batch the queue had no room for. The
	// submission is rejected whole; nothing is partially enqueued for
	// the caller to track.
	ErrBackpressure = errors.New("assessment queue is full")
)
