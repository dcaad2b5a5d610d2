// Package speed computes reading pace and classifies it against band tables.
package speed

import "math"

const secondsPerMinute = 60

// Band labels every pace at or above its threshold, first match wins.
type Band struct {
	MinWPM float64
	Label  string
}

// Default classification tables, ordered by descending threshold.
var (
	defaultCategoryBands = []Band{
		{MinWPM: 200, Label: "Very Fast"},
		{MinWPM: 150, Label: "Fast"},
		{MinWPM: 120, Label: "Average"},
		{MinWPM: 90, Label: "Slightly Slow"},
		{MinWPM: 60, Label: "Slow"},
	}
	defaultRiskBands = []Band{
		{MinWPM: 120, Label: "Low"},
		{MinWPM: 90, Label: "Moderate"},
	}
)

const (
	defaultCategoryFloor = "Very Slow"
	defaultRiskFloor     = "High"
)

// Metrics reports the reading pace together with its classifications.
type Metrics struct {
	ElapsedSeconds   float64 `json:"elapsed_seconds"`
	SpokenWords      int     `json:"spoken_words"`
	WPM              float64 `json:"wpm"`
	SpeedCategory    string  `json:"speed_category"`
	DyslexiaRiskBand string  `json:"dyslexia_risk_band"`
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithCategoryBands replaces the speed category table and its floor label.
func WithCategoryBands(bands []Band, floor string) Option {
	return func(c *Calculator) {
		if len(bands) > 0 && floor != "" {
			c.categories = append([]Band(nil), bands...)
			c.categoryFloor = floor
		}
	}
}

// WithRiskBands replaces the dyslexia risk band table and its floor label.
func WithRiskBands(bands []Band, floor string) Option {
	return func(c *Calculator) {
		if len(bands) > 0 && floor != "" {
			c.riskBands = append([]Band(nil), bands...)
			c.riskFloor = floor
		}
	}
}

// Calculator turns word counts and elapsed time into classified pace metrics.
type Calculator struct {
	categories    []Band
	categoryFloor string
	riskBands     []Band
	riskFloor     string
}

// NewCalculator creates a Calculator with the default band tables.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		categories:    defaultCategoryBands,
		categoryFloor: defaultCategoryFloor,
		riskBands:     defaultRiskBands,
		riskFloor:     defaultRiskFloor,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute derives words per minute from an explicit elapsed duration and
// labels it. A zero duration yields zero WPM rather than a division error;
// negative inputs are rejected.
func (c *Calculator) Compute(spokenWords int, elapsedSeconds float64) (Metrics, error) {
	if spokenWords < 0 {
		return Metrics{}, ErrNegativeWords
	}
	if elapsedSeconds < 0 {
		return Metrics{}, ErrNegativeElapsed
	}

	m := Metrics{
		ElapsedSeconds: elapsedSeconds,
		SpokenWords:    spokenWords,
	}
	if elapsedSeconds > 0 {
		m.WPM = round2(float64(spokenWords) / (elapsedSeconds / secondsPerMinute))
	}
	m.SpeedCategory = classify(m.WPM, c.categories, c.categoryFloor)
	m.DyslexiaRiskBand = classify(m.WPM, c.riskBands, c.riskFloor)
	return m, nil
}

func classify(wpm float64, bands []Band, floor string) string {
	for _, b := range bands {
		if wpm >= b.MinWPM {
			return b.Label
		}
	}
	return floor
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
