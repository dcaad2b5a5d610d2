package smoketest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/fluense/fluense/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	scenarioDivisor    = 8
	secondsPerMinute   = 60.0
)

// Target pace ranges per scenario, in words per minute.
const (
	typicalWPMMin      = 90.0
	typicalWPMRange    = 90.0 // typical readers land between 90 and 180
	slowWPMMin         = 30.0
	slowWPMRange       = 30.0 // slow readers land between 30 and 60
	fastWPMMin         = 180.0
	fastWPMRange       = 60.0 // fast readers land between 180 and 240
	strugglingWPMMin   = 45.0
	strugglingWPMRange = 75.0 // struggling readers land between 45 and 120
)

// Error injection probabilities per word.
const (
	omitProbability       = 0.2
	substituteProbability = 0.2
	insertProbability     = 0.15
	mixedProbability      = 0.12
)

// Constants for reading scenario cases.
const (
	caseCleanRead     = 0
	caseSlowCleanRead = 1
	caseFastCleanRead = 2
	caseOmissions     = 3
	caseSubstitutions = 4
	caseInsertions    = 5
	caseMixedErrors   = 6
	caseSilentReader  = 7
)

// decoyWords are plausible misreadings used for substitutions and
// insertions: reversals, function word swaps, and near neighbours.
var decoyWords = []string{
	"was", "saw", "on", "no", "form", "from", "then", "than",
	"left", "felt", "dog", "bog", "big", "dig", "who", "how",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, n) using crypto/rand.
func getRandomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateReadings fabricates readings by mutating catalog passages.
func generateReadings(ctx context.Context, config *Config, passages []Passage, stats *Stats) ([]Reading, error) {
	logger.Get().Info(ctx, "generating readings from the passage catalog",
		logger.Int("numReadings", config.NumReadings),
		logger.Int("passages", len(passages)))

	if len(passages) == 0 {
		return nil, fmt.Errorf("passage catalog is empty")
	}

	readings := make([]Reading, config.NumReadings)

	// Generate readings concurrently
	type readingResult struct {
		index   int
		reading Reading
		err     error
	}

	resultChan := make(chan readingResult, config.NumReadings)

	// Use worker pool for reading generation
	workerCount := minInt(config.Workers, config.NumReadings)
	readingsPerWorker := config.NumReadings / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * readingsPerWorker
		end := start + readingsPerWorker
		if worker == workerCount-1 {
			end = config.NumReadings // Last worker gets the remainder
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- readingResult{index: i, err: ctx.Err()}
					return
				default:
					passage := passages[getRandomInt(len(passages))]
					resultChan <- readingResult{index: i, reading: generateSingleReading(passage)}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumReadings; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during reading generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate reading %d: %w", result.index, result.err)
			}
			readings[result.index] = result.reading
		}
	}

	stats.ReadingsGenerated = len(readings)
	logger.Get().Info(ctx, "generated readings successfully", logger.Int("count", len(readings)))

	return readings, nil
}

// generateSingleReading mutates one passage according to a random scenario
// and derives the elapsed time from a scenario-appropriate reading pace.
func generateSingleReading(passage Passage) Reading {
	words := strings.Fields(passage.Text)

	scenario := "clean"
	spoken := words
	wpm := typicalWPMMin + getRandomFloat()*typicalWPMRange

	n, _ := rand.Int(rand.Reader, big.NewInt(scenarioDivisor))
	switch n.Int64() {
	case caseCleanRead:
		// Word-perfect reading at a typical pace - most common baseline
	case caseSlowCleanRead:
		// Word-perfect but slow; speed alone should drive the risk score
		scenario = "slow"
		wpm = slowWPMMin + getRandomFloat()*slowWPMRange
	case caseFastCleanRead:
		// Word-perfect and fast
		scenario = "fast"
		wpm = fastWPMMin + getRandomFloat()*fastWPMRange
	case caseOmissions:
		// Reader skips words
		scenario = "omissions"
		spoken = omitWords(words, omitProbability)
		wpm = strugglingWPMMin + getRandomFloat()*strugglingWPMRange
	case caseSubstitutions:
		// Reader misreads words
		scenario = "substitutions"
		spoken = substituteWords(words, substituteProbability)
		wpm = strugglingWPMMin + getRandomFloat()*strugglingWPMRange
	case caseInsertions:
		// Reader adds words that are not in the passage
		scenario = "insertions"
		spoken = insertWords(words, insertProbability)
		wpm = strugglingWPMMin + getRandomFloat()*strugglingWPMRange
	case caseMixedErrors:
		// All three error kinds at once
		scenario = "mixed"
		spoken = insertWords(substituteWords(omitWords(words, mixedProbability), mixedProbability), mixedProbability)
		wpm = strugglingWPMMin + getRandomFloat()*strugglingWPMRange
	case caseSilentReader:
		// Recognizer produced nothing; exercises the zero-WPM path
		scenario = "silent"
		spoken = nil
	}

	elapsed := 0.0
	if len(spoken) > 0 {
		elapsed = float64(len(spoken)) / wpm * secondsPerMinute
	}

	// Suggest an age inside the passage's own range so the request
	// always passes API validation.
	age := 0
	if passage.MinAge > 0 && passage.MaxAge >= passage.MinAge {
		age = passage.MinAge + getRandomInt(passage.MaxAge-passage.MinAge+1)
	}

	return Reading{
		Scenario:       scenario,
		PassageID:      passage.ID,
		ReferenceText:  passage.Text,
		RecognizedText: strings.Join(spoken, " "),
		ElapsedSeconds: elapsed,
		Age:            age,
	}
}

// omitWords drops roughly p of the words, always keeping at least one.
func omitWords(words []string, p float64) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if getRandomFloat() < p {
			continue
		}
		out = append(out, w)
	}
	if len(out) == 0 && len(words) > 0 {
		out = append(out, words[0])
	}
	return out
}

// substituteWords replaces roughly p of the words with decoys.
func substituteWords(words []string, p float64) []string {
	out := make([]string, len(words))
	copy(out, words)
	for i := range out {
		if getRandomFloat() < p {
			out[i] = decoyWords[getRandomInt(len(decoyWords))]
		}
	}
	return out
}

// insertWords injects decoys after roughly p of the words.
func insertWords(words []string, p float64) []string {
	out := make([]string, 0, len(words)+len(words)/4)
	for _, w := range words {
		out = append(out, w)
		if getRandomFloat() < p {
			out = append(out, decoyWords[getRandomInt(len(decoyWords))])
		}
	}
	return out
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
