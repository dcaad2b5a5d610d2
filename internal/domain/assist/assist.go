// Package assist builds per-word guidance for the errors in a reading.
// It produces the text a pronunciation tutor reads out; audio synthesis
// belongs to the caller.
package assist

import (
	"fmt"

	"github.com/fluense/fluense/internal/domain/align"
)

// WordGuidance pairs a misread word with its correction message.
type WordGuidance struct {
	Spoken  string `json:"spoken"`
	Correct string `json:"correct"`
	Message string `json:"message"`
}

// MissingGuidance carries the retry message for a skipped word.
type MissingGuidance struct {
	Word    string `json:"word"`
	Message string `json:"message"`
}

// PracticePlan tells the reader how to work through their errors.
type PracticePlan struct {
	TotalErrors  int      `json:"total_errors"`
	Instructions []string `json:"instructions"`
	Motivation   string   `json:"motivation"`
}

// Assistance is the guidance block attached to an assessment report.
type Assistance struct {
	HasErrors    bool              `json:"has_errors"`
	ErrorCount   int               `json:"error_count"`
	WordErrors   []WordGuidance    `json:"word_errors"`
	MissingWords []MissingGuidance `json:"missing_words"`
	PracticePlan *PracticePlan     `json:"practice_plan,omitempty"`
}

var practiceInstructions = []string{
	"Listen to each correct pronunciation",
	"Repeat each word until it feels comfortable",
	"Read the paragraph once more slowly",
	"Focus on the words you struggled with",
}

const practiceMotivation = "Great job taking the assessment! These corrections will help you improve. Practice makes perfect!"

// Build assembles guidance for every wrong and missing word. Extra words
// carry no guidance; they appear only in the report's error listing. The
// practice plan is present only when there is something to practice.
func Build(wrong []align.WordPair, missing []string) Assistance {
	a := Assistance{
		WordErrors:   make([]WordGuidance, 0, len(wrong)),
		MissingWords: make([]MissingGuidance, 0, len(missing)),
	}

	for _, p := range wrong {
		a.WordErrors = append(a.WordErrors, WordGuidance{
			Spoken:  p.Spoken,
			Correct: p.Correct,
			Message: fmt.Sprintf("You said '%s' instead of '%s'. Listen to the correct pronunciation and try again.", p.Spoken, p.Correct),
		})
	}
	for _, w := range missing {
		a.MissingWords = append(a.MissingWords, MissingGuidance{
			Word:    w,
			Message: fmt.Sprintf("You skipped this word. Listen: '%s'. Try reading it again.", w),
		})
	}

	a.ErrorCount = len(wrong) + len(missing)
	a.HasErrors = a.ErrorCount > 0
	if a.HasErrors {
		a.PracticePlan = &PracticePlan{
			TotalErrors:  a.ErrorCount,
			Instructions: append([]string(nil), practiceInstructions...),
			Motivation:   practiceMotivation,
		}
	}
	return a
}
