// Package report contains the assembled result of one reading assessment.
// Field names mirror the OpenAPI schema for /assess.
package report

import (
	"github.com/fluense/fluense/internal/domain/accuracy"
	"github.com/fluense/fluense/internal/domain/align"
	"github.com/fluense/fluense/internal/domain/assist"
	"github.com/fluense/fluense/internal/domain/risk"
	"github.com/fluense/fluense/internal/domain/speed"
)

// StatusSuccess marks a fully assembled report.
const StatusSuccess = "success"

// WordErrors lists the exact tokens behind the accuracy counts. Wrong
// words serialize as [spoken, correct] pairs.
type WordErrors struct {
	WrongWords   []align.WordPair `json:"wrong_words"`
	MissingWords []string         `json:"missing_words"`
	ExtraWords   []string         `json:"extra_words"`
}

// Report is the complete assessment of one reading attempt. It is a
// value assembled once per call and never mutated afterwards.
type Report struct {
	AssessmentID         string            `json:"assessment_id"`
	ReferenceText        string            `json:"reference_text"`
	RecognizedText       string            `json:"recognized_text"`
	Age                  int               `json:"age,omitempty"`
	AccuracyMetrics      accuracy.Metrics  `json:"accuracy_metrics"`
	SpeedMetrics         speed.Metrics     `json:"speed_metrics"`
	RiskAssessment       risk.Assessment   `json:"risk_assessment"`
	WordErrors           WordErrors        `json:"word_errors"`
	AccuracyFeedback     string            `json:"accuracy_feedback"`
	DifficultyAssessment string            `json:"difficulty_assessment"`
	Assistance           assist.Assistance `json:"assistance"`
	Status               string            `json:"status"`
}
