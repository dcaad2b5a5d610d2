// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Keep the scoring tables here as plain data; domain packages receive
//     them through their option constructors.
//   - Provide New(ctx) to build a Config with defaults.
//   - External errors must be wrapped via this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"runtime"

	"github.com/fluense/fluense/internal/domain/risk"
	"github.com/fluense/fluense/internal/domain/speed"
)

// Band is one row of a WPM classification table.
type Band struct {
	MinWPM float64 `koanf:"min_wpm"`
	Label  string  `koanf:"label"`
}

// Anchor is one point of the pace sub-score curve.
type Anchor struct {
	WPM   float64 `koanf:"wpm"`
	Score float64 `koanf:"score"`
}

// Weights splits the risk score across the five components.
type Weights struct {
	WPM      float64 `koanf:"wpm"`
	Accuracy float64 `koanf:"accuracy"`
	Missing  float64 `koanf:"missing"`
	Wrong    float64 `koanf:"wrong"`
	Extra    float64 `koanf:"extra"`
}

// Thresholds are the per-component sub-score triggers for indicators.
type Thresholds struct {
	WPM      float64 `koanf:"wpm"`
	Accuracy float64 `koanf:"accuracy"`
	Missing  float64 `koanf:"missing"`
	Wrong    float64 `koanf:"wrong"`
	Extra    float64 `koanf:"extra"`
}

// Cutoffs are the inclusive upper bounds of the Low and Moderate tiers.
type Cutoffs struct {
	Low      float64 `koanf:"low"`
	Moderate float64 `koanf:"moderate"`
}

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile enables a rotating file sink next to stdout when set.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// HTTP server timeouts, in seconds.
	ReadTimeoutSec     int `koanf:"read_timeout_sec"`
	WriteTimeoutSec    int `koanf:"write_timeout_sec"`
	IdleTimeoutSec     int `koanf:"idle_timeout_sec"`
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec"`

	// QueueSize bounds the in-memory batch assessment queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of assessment workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxBatchItems caps the number of readings in one batch request.
	MaxBatchItems int `koanf:"max_batch_items"`

	// SpeedBands classify WPM into categories, ordered by descending
	// threshold. SpeedFloor labels everything below the last band.
	SpeedBands []Band `koanf:"speed_bands"`
	SpeedFloor string `koanf:"speed_floor"`

	// RiskBands is the coarser WPM table behind dyslexia_risk_band.
	RiskBands []Band `koanf:"risk_bands"`
	RiskFloor string `koanf:"risk_floor"`

	// WPMCurve anchors the pace sub-score, ordered by descending WPM.
	WPMCurve []Anchor `koanf:"wpm_curve"`

	// RiskWeights must sum to one.
	RiskWeights Weights `koanf:"risk_weights"`

	// IndicatorThresholds trigger concern strings per component.
	IndicatorThresholds Thresholds `koanf:"indicator_thresholds"`

	// RiskCutoffs map scores onto the Low/Moderate/High tiers.
	RiskCutoffs Cutoffs `koanf:"risk_cutoffs"`
}

// New creates a Config using the default tables. Context is accepted first
// to satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8080",
		ReadTimeoutSec:     10,
		WriteTimeoutSec:    10,
		IdleTimeoutSec:     60,
		ShutdownTimeoutSec: 30,
		QueueSize:          10_000,
		WorkerCount:        runtime.NumCPU(),
		MaxBatchItems:      100,
		SpeedBands: []Band{
			{MinWPM: 200, Label: "Very Fast"},
			{MinWPM: 150, Label: "Fast"},
			{MinWPM: 120, Label: "Average"},
			{MinWPM: 90, Label: "Slightly Slow"},
			{MinWPM: 60, Label: "Slow"},
		},
		SpeedFloor: "Very Slow",
		RiskBands: []Band{
			{MinWPM: 120, Label: "Low"},
			{MinWPM: 90, Label: "Moderate"},
		},
		RiskFloor: "High",
		WPMCurve: []Anchor{
			{WPM: 150, Score: 0},
			{WPM: 100, Score: 50},
			{WPM: 50, Score: 75},
		},
		RiskWeights:         Weights{WPM: 0.40, Accuracy: 0.25, Missing: 0.15, Wrong: 0.15, Extra: 0.05},
		IndicatorThresholds: Thresholds{WPM: 0, Accuracy: 20, Missing: 5, Wrong: 5, Extra: 10},
		RiskCutoffs:         Cutoffs{Low: 30, Moderate: 60},
	}
}

// Validate checks every table and weight the scoring pipeline depends on.
// The service must refuse to start on any violation.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.ReadTimeoutSec <= 0 || c.WriteTimeoutSec <= 0 || c.IdleTimeoutSec <= 0 || c.ShutdownTimeoutSec <= 0 {
		return fmt.Errorf("%w: server timeouts must be positive", ErrInvalidConfig)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	if c.MaxBatchItems <= 0 {
		return fmt.Errorf("%w: max_batch_items must be positive", ErrInvalidConfig)
	}
	if err := validateBands(c.SpeedBands, c.SpeedFloor); err != nil {
		return fmt.Errorf("%w: speed_bands: %v", ErrInvalidConfig, err)
	}
	if err := validateBands(c.RiskBands, c.RiskFloor); err != nil {
		return fmt.Errorf("%w: risk_bands: %v", ErrInvalidConfig, err)
	}
	if err := validateCurve(c.WPMCurve); err != nil {
		return fmt.Errorf("%w: wpm_curve: %v", ErrInvalidConfig, err)
	}
	if !c.riskWeights().Valid() {
		return fmt.Errorf("%w: risk_weights must be non-negative and sum to 1", ErrInvalidConfig)
	}
	for _, v := range []float64{
		c.IndicatorThresholds.WPM,
		c.IndicatorThresholds.Accuracy,
		c.IndicatorThresholds.Missing,
		c.IndicatorThresholds.Wrong,
		c.IndicatorThresholds.Extra,
	} {
		if v < 0 {
			return fmt.Errorf("%w: indicator_thresholds must be non-negative", ErrInvalidConfig)
		}
	}
	if !c.riskCutoffs().Valid() {
		return fmt.Errorf("%w: risk_cutoffs must satisfy 0 <= low < moderate", ErrInvalidConfig)
	}
	return nil
}

func validateBands(bands []Band, floor string) error {
	if len(bands) == 0 {
		return fmt.Errorf("table must not be empty")
	}
	if floor == "" {
		return fmt.Errorf("floor label must not be empty")
	}
	for i, b := range bands {
		if b.Label == "" {
			return fmt.Errorf("band %d has an empty label", i)
		}
		if i > 0 && b.MinWPM >= bands[i-1].MinWPM {
			return fmt.Errorf("thresholds must be strictly descending")
		}
	}
	return nil
}

func validateCurve(curve []Anchor) error {
	if len(curve) == 0 {
		return fmt.Errorf("curve must not be empty")
	}
	for i, a := range curve {
		if a.Score < 0 || a.Score > 100 {
			return fmt.Errorf("anchor %d score must be within [0,100]", i)
		}
		if i > 0 && a.WPM >= curve[i-1].WPM {
			return fmt.Errorf("anchor WPM values must be strictly descending")
		}
	}
	return nil
}

// SpeedOptions converts the band tables into speed calculator options.
func (c *Config) SpeedOptions() []speed.Option {
	return []speed.Option{
		speed.WithCategoryBands(toSpeedBands(c.SpeedBands), c.SpeedFloor),
		speed.WithRiskBands(toSpeedBands(c.RiskBands), c.RiskFloor),
	}
}

// RiskOptions converts the scoring tables into risk scorer options.
func (c *Config) RiskOptions() []risk.Option {
	curve := make([]risk.Anchor, 0, len(c.WPMCurve))
	for _, a := range c.WPMCurve {
		curve = append(curve, risk.Anchor{WPM: a.WPM, Score: a.Score})
	}
	return []risk.Option{
		risk.WithWeights(c.riskWeights()),
		risk.WithWPMCurve(curve),
		risk.WithThresholds(risk.Thresholds{
			WPM:      c.IndicatorThresholds.WPM,
			Accuracy: c.IndicatorThresholds.Accuracy,
			Missing:  c.IndicatorThresholds.Missing,
			Wrong:    c.IndicatorThresholds.Wrong,
			Extra:    c.IndicatorThresholds.Extra,
		}),
		risk.WithCutoffs(c.riskCutoffs()),
	}
}

func (c *Config) riskWeights() risk.Weights {
	return risk.Weights{
		WPM:      c.RiskWeights.WPM,
		Accuracy: c.RiskWeights.Accuracy,
		Missing:  c.RiskWeights.Missing,
		Wrong:    c.RiskWeights.Wrong,
		Extra:    c.RiskWeights.Extra,
	}
}

func (c *Config) riskCutoffs() risk.Cutoffs {
	return risk.Cutoffs{Low: c.RiskCutoffs.Low, Moderate: c.RiskCutoffs.Moderate}
}

func toSpeedBands(bands []Band) []speed.Band {
	out := make([]speed.Band, 0, len(bands))
	for _, b := range bands {
		out = append(out, speed.Band{MinWPM: b.MinWPM, Label: b.Label})
	}
	return out
}
