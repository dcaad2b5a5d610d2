// Package smoketest drives an end-to-end exercise of a running Fluense
// service: it pulls the passage catalog, fabricates readings with known
// error patterns, submits them concurrently through both assessment
// endpoints, and verifies every report against the scoring invariants.
package smoketest

import "time"

// Config holds configuration for the smoke test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumReadings int           // Number of readings to generate
	BatchSize   int           // Readings per batch request
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for readings
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// Passage mirrors the catalog entries served by /passages.
type Passage struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	Difficulty string `json:"difficulty"`
	MinAge     int    `json:"min_age"`
	MaxAge     int    `json:"max_age"`
}

// Reading is one generated assessment request plus the scenario that
// produced it. The scenario and passage_id fields are for the output
// file; the service ignores them.
type Reading struct {
	Scenario       string  `json:"scenario"`
	PassageID      string  `json:"passage_id"`
	ReferenceText  string  `json:"reference_text"`
	RecognizedText string  `json:"recognized_text"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Age            int     `json:"age,omitempty"`
}

// Stats holds smoke test statistics
type Stats struct {
	ReadingsGenerated  int
	ReadingsSubmitted  int
	ReadingsSuccessful int
	ReadingsFailed     int
	BatchesSubmitted   int
	BatchesSuccessful  int
	BatchesFailed      int
	ReportsVerified    int
	VerificationErrors int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
