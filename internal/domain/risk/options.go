package risk

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights replaces the component weights. Weights that fail
// validation are ignored.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		if w.Valid() {
			s.weights = w
		}
	}
}

// WithWPMCurve replaces the pace anchor curve. The curve must be
// non-empty with strictly descending WPM values.
func WithWPMCurve(curve []Anchor) Option {
	return func(s *Scorer) {
		if !descending(curve) {
			return
		}
		s.curve = append([]Anchor(nil), curve...)
	}
}

// WithThresholds replaces the indicator trigger thresholds.
func WithThresholds(t Thresholds) Option {
	return func(s *Scorer) {
		s.thresholds = t
	}
}

// WithCutoffs replaces the tier cutoffs. Invalid cutoffs are ignored.
func WithCutoffs(c Cutoffs) Option {
	return func(s *Scorer) {
		if c.Valid() {
			s.cutoffs = c
		}
	}
}

func descending(curve []Anchor) bool {
	if len(curve) == 0 {
		return false
	}
	for i := 1; i < len(curve); i++ {
		if curve[i].WPM >= curve[i-1].WPM {
			return false
		}
	}
	return true
}
