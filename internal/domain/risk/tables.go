package risk

// Concern wording per component, emitted when the component's sub-score
// exceeds its trigger threshold.
var concerns = map[string]string{
	ComponentWPM:      "Slow reading speed",
	ComponentAccuracy: "Low reading accuracy",
	ComponentMissing:  "Frequent word skipping",
	ComponentWrong:    "Multiple pronunciation errors",
	ComponentExtra:    "Many extra words",
}

// Advice per component, appended in component order for every triggered
// concern.
var advice = map[string][]string{
	ComponentWPM:      {"Practice fluency drills and timed reading exercises"},
	ComponentAccuracy: {"Focus on accuracy over speed", "Practice with age-appropriate passages"},
	ComponentMissing:  {"Use finger tracking or a pointer while reading"},
	ComponentWrong:    {"Focus on phonetic awareness training", "Practice phonetic decoding exercises"},
	ComponentExtra:    {"Try audiobook pairing with text reading"},
}

const baselineAdvice = "Continue current reading practice and challenge with more complex texts"

// Phrases naming each component in the summary sentence.
var factors = map[string]string{
	ComponentWPM:      "reading speed",
	ComponentAccuracy: "word accuracy",
	ComponentMissing:  "skipped words",
	ComponentWrong:    "misread words",
	ComponentExtra:    "extra words",
}

// feedbackTiers map accuracy percentages to encouragement, highest
// tier first.
var feedbackTiers = []struct {
	MinAccuracy float64
	Text        string
}{
	{90, "Excellent reading! Keep it up!"},
	{80, "Good job! Just a few words to work on."},
	{70, "Nice effort! Practice a bit more."},
	{60, "Keep practicing! You're making progress."},
}

const feedbackFloor = "Let's practice this passage again!"

// AccuracyFeedback returns the encouragement sentence for an accuracy
// percentage.
func AccuracyFeedback(accuracyPercent float64) string {
	for _, tier := range feedbackTiers {
		if accuracyPercent >= tier.MinAccuracy {
			return tier.Text
		}
	}
	return feedbackFloor
}

// DifficultyAssessment judges whether the passage difficulty suited the
// reader, from the accuracy and pace of the attempt.
func DifficultyAssessment(accuracyPercent, wpm float64) string {
	switch {
	case accuracyPercent >= 90 && wpm >= 120:
		return "Excellent reader - challenge with harder passages"
	case accuracyPercent >= 90:
		return "Accurate but slow - may need confidence building"
	case accuracyPercent >= 80 && wpm >= 120:
		return "Good progress - current level is appropriate"
	case accuracyPercent >= 80:
		return "Keep practicing at current level"
	case accuracyPercent >= 70 && wpm >= 100:
		return "Struggling - try easier material for success"
	case accuracyPercent >= 70:
		return "Too difficult - use simpler passages"
	default:
		return "Too challenging - start with beginner passages"
	}
}
