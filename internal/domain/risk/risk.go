// Package risk combines accuracy and pace metrics into a weighted dyslexia
// risk assessment with indicators, recommendations and a summary line.
package risk

import (
	"fmt"
	"math"
	"strings"

	"github.com/fluense/fluense/internal/domain/accuracy"
	"github.com/fluense/fluense/internal/domain/speed"
)

// Risk level labels produced by the tier mapping.
const (
	LevelLow      = "Low"
	LevelModerate = "Moderate"
	LevelHigh     = "High"
)

// Component keys used in the component score map, in report order.
const (
	ComponentWPM      = "wpm"
	ComponentAccuracy = "accuracy"
	ComponentMissing  = "missing"
	ComponentWrong    = "wrong"
	ComponentExtra    = "extra"
)

const maxSubScore = 100

// componentOrder fixes the order indicators and recommendations are
// emitted in, and resolves dominant-factor ties.
var componentOrder = []string{
	ComponentWPM,
	ComponentAccuracy,
	ComponentMissing,
	ComponentWrong,
	ComponentExtra,
}

// Anchor pins a WPM value to a sub-score on the pace curve.
type Anchor struct {
	WPM   float64
	Score float64
}

// Weights assigns each component its share of the final score.
type Weights struct {
	WPM      float64
	Accuracy float64
	Missing  float64
	Wrong    float64
	Extra    float64
}

// Valid reports whether every weight is non-negative and the weights
// sum to one.
func (w Weights) Valid() bool {
	for _, v := range []float64{w.WPM, w.Accuracy, w.Missing, w.Wrong, w.Extra} {
		if v < 0 {
			return false
		}
	}
	sum := w.WPM + w.Accuracy + w.Missing + w.Wrong + w.Extra
	return math.Abs(sum-1) < 1e-9
}

func (w Weights) of(component string) float64 {
	switch component {
	case ComponentWPM:
		return w.WPM
	case ComponentAccuracy:
		return w.Accuracy
	case ComponentMissing:
		return w.Missing
	case ComponentWrong:
		return w.Wrong
	case ComponentExtra:
		return w.Extra
	}
	return 0
}

// Thresholds hold the per-component sub-score values above which the
// component's concern indicator fires.
type Thresholds struct {
	WPM      float64
	Accuracy float64
	Missing  float64
	Wrong    float64
	Extra    float64
}

func (t Thresholds) of(component string) float64 {
	switch component {
	case ComponentWPM:
		return t.WPM
	case ComponentAccuracy:
		return t.Accuracy
	case ComponentMissing:
		return t.Missing
	case ComponentWrong:
		return t.Wrong
	case ComponentExtra:
		return t.Extra
	}
	return 0
}

// Cutoffs are the inclusive upper bounds of the Low and Moderate tiers.
// Scores above Moderate classify as High.
type Cutoffs struct {
	Low      float64
	Moderate float64
}

// Valid reports whether the cutoffs describe three orderable tiers.
func (c Cutoffs) Valid() bool {
	return c.Low >= 0 && c.Moderate > c.Low
}

// Default scoring configuration.
var (
	defaultWeights = Weights{WPM: 0.40, Accuracy: 0.25, Missing: 0.15, Wrong: 0.15, Extra: 0.05}
	defaultCurve   = []Anchor{
		{WPM: 150, Score: 0},
		{WPM: 100, Score: 50},
		{WPM: 50, Score: 75},
	}
	defaultThresholds = Thresholds{WPM: 0, Accuracy: 20, Missing: 5, Wrong: 5, Extra: 10}
	defaultCutoffs    = Cutoffs{Low: 30, Moderate: 60}
)

// Assessment is the combined risk verdict for one reading.
type Assessment struct {
	RiskScore       float64            `json:"risk_score"`
	RiskLevel       string             `json:"risk_level"`
	ComponentScores map[string]float64 `json:"component_scores"`
	Indicators      []string           `json:"indicators"`
	Recommendations []string           `json:"recommendations"`
	Summary         string             `json:"summary"`
}

// Scorer weighs component sub-scores into a single 0-100 risk score.
type Scorer struct {
	weights    Weights
	curve      []Anchor
	thresholds Thresholds
	cutoffs    Cutoffs
}

// NewScorer creates a Scorer with the default weights, pace curve,
// indicator thresholds and tier cutoffs.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights:    defaultWeights,
		curve:      defaultCurve,
		thresholds: defaultThresholds,
		cutoffs:    defaultCutoffs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score combines the accuracy and pace metrics of one reading into a
// weighted risk assessment. It is a pure function of its inputs.
func (s *Scorer) Score(acc accuracy.Metrics, pace speed.Metrics) Assessment {
	spoken := acc.CorrectWords + acc.WrongWords + acc.ExtraWords

	subs := map[string]float64{
		ComponentWPM:      round2(WPMSubScore(s.curve, pace.WPM)),
		ComponentAccuracy: round2(AccuracySubScore(acc.AccuracyPercent)),
		ComponentMissing:  round2(ProportionSubScore(acc.MissingWords, acc.TotalWords)),
		ComponentWrong:    round2(ProportionSubScore(acc.WrongWords, acc.TotalWords)),
		ComponentExtra:    round2(ProportionSubScore(acc.ExtraWords, spoken)),
	}

	var total float64
	for _, key := range componentOrder {
		total += s.weights.of(key) * subs[key]
	}
	score := round2(clampScore(total))
	level := s.LevelFor(score)

	indicators := make([]string, 0, len(componentOrder))
	recommendations := make([]string, 0, 8)
	for _, key := range componentOrder {
		if subs[key] > s.thresholds.of(key) {
			indicators = append(indicators, concerns[key])
			recommendations = append(recommendations, advice[key]...)
		}
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, baselineAdvice)
	}

	return Assessment{
		RiskScore:       score,
		RiskLevel:       level,
		ComponentScores: subs,
		Indicators:      indicators,
		Recommendations: recommendations,
		Summary:         s.summarize(score, level, subs),
	}
}

// LevelFor maps a risk score onto its tier label. Cutoffs are inclusive,
// so a score sitting exactly on a boundary stays in the lower tier.
func (s *Scorer) LevelFor(score float64) string {
	switch {
	case score <= s.cutoffs.Low:
		return LevelLow
	case score <= s.cutoffs.Moderate:
		return LevelModerate
	default:
		return LevelHigh
	}
}

func (s *Scorer) summarize(score float64, level string, subs map[string]float64) string {
	dominant := componentOrder[0]
	best := -1.0
	for _, key := range componentOrder {
		if contribution := s.weights.of(key) * subs[key]; contribution > best {
			best = contribution
			dominant = key
		}
	}
	return fmt.Sprintf("Reading shows %s risk (score %.2f of 100) with %s as the main contributing factor.",
		strings.ToLower(level), score, factors[dominant])
}

// WPMSubScore maps a pace onto the anchor curve. Paces at or above the
// first anchor take that anchor's score, paces between anchors
// interpolate linearly, and paces below the final anchor take the scale
// maximum.
func WPMSubScore(curve []Anchor, wpm float64) float64 {
	if len(curve) == 0 {
		return 0
	}
	if wpm >= curve[0].WPM {
		return curve[0].Score
	}
	for i := 1; i < len(curve); i++ {
		hi, lo := curve[i-1], curve[i]
		if wpm >= lo.WPM {
			t := (hi.WPM - wpm) / (hi.WPM - lo.WPM)
			return hi.Score + t*(lo.Score-hi.Score)
		}
	}
	return maxSubScore
}

// AccuracySubScore inverts an accuracy percentage into a sub-score.
func AccuracySubScore(accuracyPercent float64) float64 {
	return clampScore(maxSubScore - accuracyPercent)
}

// ProportionSubScore scales count over population to a 0-100 sub-score,
// returning zero for an empty population.
func ProportionSubScore(count, population int) float64 {
	if population <= 0 || count <= 0 {
		return 0
	}
	return clampScore(float64(count) / float64(population) * maxSubScore)
}

func clampScore(v float64) float64 {
	return math.Min(maxSubScore, math.Max(0, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
