// Package accuracy derives word-count metrics from an alignment result.
package accuracy

import (
	"math"

	"github.com/fluense/fluense/internal/domain/align"
)

// Metrics summarizes how much of the reference text was read correctly.
type Metrics struct {
	TotalWords      int     `json:"total_words"`
	CorrectWords    int     `json:"correct_words"`
	WrongWords      int     `json:"wrong_words"`
	MissingWords    int     `json:"missing_words"`
	ExtraWords      int     `json:"extra_words"`
	AccuracyPercent float64 `json:"accuracy_percent"`
}

// Aggregate counts the alignment buckets and computes the accuracy
// percentage. TotalWords counts reference words only, so extra words
// lower no denominator here; they are penalized by the risk scorer.
func Aggregate(res align.Result) Metrics {
	m := Metrics{
		CorrectWords: len(res.Correct),
		WrongWords:   len(res.Wrong),
		MissingWords: len(res.Missing),
		ExtraWords:   len(res.Extra),
	}
	m.TotalWords = m.CorrectWords + m.WrongWords + m.MissingWords
	if m.TotalWords > 0 {
		m.AccuracyPercent = round2(float64(m.CorrectWords) / float64(m.TotalWords) * 100)
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
