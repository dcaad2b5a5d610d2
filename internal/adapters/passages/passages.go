// Package passages serves the embedded graded passage catalog. Clients
// pick a passage for the reader, time the reading outside the engine, and
// submit the transcript for assessment; the catalog itself is read-only.
package passages

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

// Difficulty labels used by the catalog.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

//go:embed passages.json
var catalogJSON []byte

// Passage is one graded reading passage. The age range is a suggestion
// for selection, not a constraint the engine enforces.
type Passage struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	Difficulty string `json:"difficulty"`
	MinAge     int    `json:"min_age"`
	MaxAge     int    `json:"max_age"`
}

// Library holds the parsed catalog. It is immutable after New, so all
// methods are safe for concurrent use.
type Library struct {
	passages []Passage
}

// New parses and validates the embedded catalog.
func New() (*Library, error) {
	var all []Passage
	if err := json.Unmarshal(catalogJSON, &all); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadCatalog, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrBadCatalog)
	}

	seen := make(map[string]bool, len(all))
	for i, p := range all {
		switch {
		case p.ID == "":
			return nil, fmt.Errorf("%w: passage %d has no id", ErrBadCatalog, i)
		case seen[p.ID]:
			return nil, fmt.Errorf("%w: duplicate passage id %q", ErrBadCatalog, p.ID)
		case strings.TrimSpace(p.Text) == "":
			return nil, fmt.Errorf("%w: passage %q has no text", ErrBadCatalog, p.ID)
		case !knownDifficulty(p.Difficulty):
			return nil, fmt.Errorf("%w: passage %q has unknown difficulty %q", ErrBadCatalog, p.ID, p.Difficulty)
		case p.MinAge < 1 || p.MaxAge < p.MinAge:
			return nil, fmt.Errorf("%w: passage %q has invalid age range %d-%d", ErrBadCatalog, p.ID, p.MinAge, p.MaxAge)
		}
		seen[p.ID] = true
	}

	return &Library{passages: all}, nil
}

func knownDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// All returns every passage in catalog order.
func (l *Library) All() []Passage {
	out := make([]Passage, len(l.passages))
	copy(out, l.passages)
	return out
}

// ByDifficulty returns the passages with the given difficulty label.
func (l *Library) ByDifficulty(difficulty string) ([]Passage, error) {
	d := strings.ToLower(strings.TrimSpace(difficulty))
	if !knownDifficulty(d) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}

	var out []Passage
	for _, p := range l.passages {
		if p.Difficulty == d {
			out = append(out, p)
		}
	}
	return out, nil
}

// ForAge returns the passages whose suggested age range covers age.
// Choosing among them stays with the client.
func (l *Library) ForAge(age int) ([]Passage, error) {
	if age < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAge, age)
	}

	var out []Passage
	for _, p := range l.passages {
		if age >= p.MinAge && age <= p.MaxAge {
			out = append(out, p)
		}
	}
	return out, nil
}
