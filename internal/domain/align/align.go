// Package align computes minimal-edit word alignments between reference and
// recognized token sequences.
package align

import (
	"encoding/json"
	"fmt"
)

// WordPair records a substitution: the token the reader actually spoke and
// the reference token it replaced. It serializes as the two-element array
// ["spoken","correct"] expected by assistance and UI consumers.
type WordPair struct {
	Spoken  string
	Correct string
}

// MarshalJSON encodes the pair as ["spoken","correct"].
func (p WordPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Spoken, p.Correct})
}

// UnmarshalJSON decodes the ["spoken","correct"] wire form.
func (p *WordPair) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("word pair must have exactly 2 elements, got %d", len(pair))
	}
	p.Spoken = pair[0]
	p.Correct = pair[1]
	return nil
}

// Result partitions both token sequences by alignment outcome. Every
// reference token lands in exactly one of Correct, Wrong (correct side) or
// Missing; every recognized token in Correct, Wrong (spoken side) or Extra.
type Result struct {
	Correct []string
	Wrong   []WordPair
	Missing []string
	Extra   []string
}

// Align computes a minimal-edit (longest-common-subsequence) alignment of
// the recognized tokens against the reference tokens and classifies every
// token. A contiguous substitution block is paired element-wise up to the
// shorter side; leftover reference tokens count as missing and leftover
// recognized tokens as extra. The walk uses fixed tie-breaks, so identical
// inputs always produce identical results.
func Align(ref, rec []string) Result {
	res := Result{
		Correct: []string{},
		Wrong:   []WordPair{},
		Missing: []string{},
		Extra:   []string{},
	}

	// lcs[i][j] holds the longest-common-subsequence length of ref[i:] and
	// rec[j:]. Filled back to front so the forward walk below can consult it.
	n, m := len(ref), len(rec)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			switch {
			case ref[i] == rec[j]:
				lcs[i][j] = lcs[i+1][j+1] + 1
			case lcs[i+1][j] >= lcs[i][j+1]:
				lcs[i][j] = lcs[i+1][j]
			default:
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	// Unmatched tokens between two matches form one substitution block:
	// refRun holds the reference side in order, recRun the recognized side.
	var refRun, recRun []string
	flush := func() {
		k := min(len(refRun), len(recRun))
		for idx := 0; idx < k; idx++ {
			res.Wrong = append(res.Wrong, WordPair{Spoken: recRun[idx], Correct: refRun[idx]})
		}
		res.Missing = append(res.Missing, refRun[k:]...)
		res.Extra = append(res.Extra, recRun[k:]...)
		refRun = refRun[:0]
		recRun = recRun[:0]
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case ref[i] == rec[j]:
			flush()
			res.Correct = append(res.Correct, ref[i])
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			// Ties consume the reference side first, keeping substitution
			// pairs stable across runs.
			refRun = append(refRun, ref[i])
			i++
		default:
			recRun = append(recRun, rec[j])
			j++
		}
	}
	refRun = append(refRun, ref[i:]...)
	recRun = append(recRun, rec[j:]...)
	flush()

	return res
}
