package smoketest

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// verifyReport checks one assessment report against the scoring
// invariants: the accuracy counts partition the reference words, every
// metric stays inside its bounds, the risk tiers are well formed, and the
// word error lists agree with the counts.
func verifyReport(body []byte, reading Reading) error {
	rep := gjson.ParseBytes(body)

	if status := rep.Get("status").String(); status != "success" {
		return fmt.Errorf("status %q", status)
	}
	if rep.Get("assessment_id").String() == "" {
		return fmt.Errorf("assessment_id is empty")
	}
	if got := rep.Get("reference_text").String(); got != reading.ReferenceText {
		return fmt.Errorf("reference_text not echoed back")
	}

	// Accuracy counts must partition the reference words.
	total := rep.Get("accuracy_metrics.total_words").Int()
	correct := rep.Get("accuracy_metrics.correct_words").Int()
	wrong := rep.Get("accuracy_metrics.wrong_words").Int()
	missing := rep.Get("accuracy_metrics.missing_words").Int()
	extra := rep.Get("accuracy_metrics.extra_words").Int()
	if correct+wrong+missing != total {
		return fmt.Errorf("accuracy partition broken: %d+%d+%d != %d", correct, wrong, missing, total)
	}

	if accuracy := rep.Get("accuracy_metrics.accuracy_percent").Float(); accuracy < 0 || accuracy > 100 {
		return fmt.Errorf("accuracy_percent out of range: %v", accuracy)
	}

	// Speed metrics: zero elapsed time must yield zero WPM.
	elapsed := rep.Get("speed_metrics.elapsed_seconds").Float()
	wpm := rep.Get("speed_metrics.wpm").Float()
	if elapsed == 0 && wpm != 0 {
		return fmt.Errorf("wpm %v with zero elapsed time", wpm)
	}
	if wpm < 0 {
		return fmt.Errorf("negative wpm: %v", wpm)
	}
	if rep.Get("speed_metrics.speed_category").String() == "" {
		return fmt.Errorf("speed_category is empty")
	}
	if rep.Get("speed_metrics.dyslexia_risk_band").String() == "" {
		return fmt.Errorf("dyslexia_risk_band is empty")
	}

	// Risk score bounds and tier labels.
	if score := rep.Get("risk_assessment.risk_score").Float(); score < 0 || score > 100 {
		return fmt.Errorf("risk_score out of range: %v", score)
	}
	switch level := rep.Get("risk_assessment.risk_level").String(); level {
	case "Low", "Moderate", "High":
	default:
		return fmt.Errorf("unknown risk_level %q", level)
	}
	components := rep.Get("risk_assessment.component_scores")
	for _, name := range []string{"wpm", "accuracy", "missing", "wrong", "extra"} {
		if !components.Get(name).Exists() {
			return fmt.Errorf("component_scores missing %q", name)
		}
	}

	// Word error lists must agree with the accuracy counts.
	wrongList := rep.Get("word_errors.wrong_words").Array()
	if int64(len(wrongList)) != wrong {
		return fmt.Errorf("wrong_words list has %d entries, counts say %d", len(wrongList), wrong)
	}
	for i, pair := range wrongList {
		if !pair.IsArray() || len(pair.Array()) != 2 {
			return fmt.Errorf("wrong_words[%d] is not a two element pair", i)
		}
	}
	if missingList := rep.Get("word_errors.missing_words").Array(); int64(len(missingList)) != missing {
		return fmt.Errorf("missing_words list has %d entries, counts say %d", len(missingList), missing)
	}
	if extraList := rep.Get("word_errors.extra_words").Array(); int64(len(extraList)) != extra {
		return fmt.Errorf("extra_words list has %d entries, counts say %d", len(extraList), extra)
	}

	// Assistance must agree with the error counts.
	errorCount := rep.Get("assistance.error_count").Int()
	if errorCount != wrong+missing {
		return fmt.Errorf("assistance error_count %d, counts say %d", errorCount, wrong+missing)
	}
	if hasErrors := rep.Get("assistance.has_errors").Bool(); hasErrors != (errorCount > 0) {
		return fmt.Errorf("has_errors=%v with error_count=%d", hasErrors, errorCount)
	}

	return nil
}
