package report_test

import (
	"encoding/json"
	"testing"

	accuracy "github.com/fluense/fluense/internal/domain/accuracy"
	align "github.com/fluense/fluense/internal/domain/align"
	assist "github.com/fluense/fluense/internal/domain/assist"
	report "github.com/fluense/fluense/internal/domain/report"
	risk "github.com/fluense/fluense/internal/domain/risk"
	speed "github.com/fluense/fluense/internal/domain/speed"
	textnorm "github.com/fluense/fluense/internal/domain/textnorm"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tidwall/gjson"
)

func buildReport(reference, recognized string, elapsedSeconds float64) (report.Report, error) {
	refTokens := textnorm.Tokens(reference)
	recTokens := textnorm.Tokens(recognized)

	res := align.Align(refTokens, recTokens)
	acc := accuracy.Aggregate(res)
	pace, err := speed.NewCalculator().Compute(len(recTokens), elapsedSeconds)
	if err != nil {
		return report.Report{}, err
	}

	return report.Report{
		AssessmentID:    "7e2f6dd0-6f6a-4a86-9c4e-2a5702c2a1ce",
		ReferenceText:   reference,
		RecognizedText:  recognized,
		AccuracyMetrics: acc,
		SpeedMetrics:    pace,
		RiskAssessment:  risk.NewScorer().Score(acc, pace),
		WordErrors: report.WordErrors{
			WrongWords:   res.Wrong,
			MissingWords: res.Missing,
			ExtraWords:   res.Extra,
		},
		AccuracyFeedback:     risk.AccuracyFeedback(acc.AccuracyPercent),
		DifficultyAssessment: risk.DifficultyAssessment(acc.AccuracyPercent, pace.WPM),
		Assistance:           assist.Build(res.Wrong, res.Missing),
		Status:               report.StatusSuccess,
	}, nil
}

func TestReportWireFormat(t *testing.T) {
	Convey("Given a report assembled from a flawed reading", t, func() {
		r, err := buildReport(
			"The quick brown fox jumps over the lazy dog.",
			"the brown fox jumps over the lazy cat",
			60,
		)
		So(err, ShouldBeNil)

		data, merr := json.Marshal(r)
		So(merr, ShouldBeNil)
		body := string(data)

		Convey("Then the accuracy block should carry the word counts", func() {
			So(gjson.Get(body, "accuracy_metrics.total_words").Int(), ShouldEqual, 9)
			So(gjson.Get(body, "accuracy_metrics.correct_words").Int(), ShouldEqual, 7)
			So(gjson.Get(body, "accuracy_metrics.wrong_words").Int(), ShouldEqual, 1)
			So(gjson.Get(body, "accuracy_metrics.missing_words").Int(), ShouldEqual, 1)
			So(gjson.Get(body, "accuracy_metrics.extra_words").Int(), ShouldEqual, 0)
			So(gjson.Get(body, "accuracy_metrics.accuracy_percent").Float(), ShouldEqual, 77.78)
		})

		Convey("Then the speed block should carry the pace", func() {
			So(gjson.Get(body, "speed_metrics.elapsed_seconds").Float(), ShouldEqual, 60)
			So(gjson.Get(body, "speed_metrics.spoken_words").Int(), ShouldEqual, 8)
			So(gjson.Get(body, "speed_metrics.wpm").Float(), ShouldEqual, 8)
			So(gjson.Get(body, "speed_metrics.speed_category").String(), ShouldEqual, "Very Slow")
			So(gjson.Get(body, "speed_metrics.dyslexia_risk_band").String(), ShouldEqual, "High")
		})

		Convey("Then the risk block should carry the assessment", func() {
			So(gjson.Get(body, "risk_assessment.risk_score").Float(), ShouldEqual, 48.89)
			So(gjson.Get(body, "risk_assessment.risk_level").String(), ShouldEqual, "Moderate")
			So(gjson.Get(body, "risk_assessment.component_scores.wpm").Float(), ShouldEqual, 100)
			So(gjson.Get(body, "risk_assessment.component_scores.extra").Float(), ShouldEqual, 0)
			So(gjson.Get(body, "risk_assessment.indicators.#").Int(), ShouldBeGreaterThan, 0)
			So(gjson.Get(body, "risk_assessment.recommendations.#").Int(), ShouldBeGreaterThan, 0)
			So(gjson.Get(body, "risk_assessment.summary").String(), ShouldNotBeBlank)
		})

		Convey("Then the word errors should serialize as token lists", func() {
			So(gjson.Get(body, "word_errors.wrong_words.0.0").String(), ShouldEqual, "cat")
			So(gjson.Get(body, "word_errors.wrong_words.0.1").String(), ShouldEqual, "dog")
			So(gjson.Get(body, "word_errors.missing_words.0").String(), ShouldEqual, "quick")
			So(gjson.Get(body, "word_errors.extra_words").IsArray(), ShouldBeTrue)
			So(gjson.Get(body, "word_errors.extra_words.#").Int(), ShouldEqual, 0)
		})

		Convey("Then the assistance block should cover both error kinds", func() {
			So(gjson.Get(body, "assistance.has_errors").Bool(), ShouldBeTrue)
			So(gjson.Get(body, "assistance.error_count").Int(), ShouldEqual, 2)
			So(gjson.Get(body, "assistance.word_errors.0.spoken").String(), ShouldEqual, "cat")
			So(gjson.Get(body, "assistance.missing_words.0.word").String(), ShouldEqual, "quick")
			So(gjson.Get(body, "assistance.practice_plan.total_errors").Int(), ShouldEqual, 2)
		})

		Convey("Then the envelope fields should echo the inputs", func() {
			So(gjson.Get(body, "assessment_id").String(), ShouldEqual, "7e2f6dd0-6f6a-4a86-9c4e-2a5702c2a1ce")
			So(gjson.Get(body, "reference_text").String(), ShouldEqual, "The quick brown fox jumps over the lazy dog.")
			So(gjson.Get(body, "recognized_text").String(), ShouldEqual, "the brown fox jumps over the lazy cat")
			So(gjson.Get(body, "status").String(), ShouldEqual, "success")
			So(gjson.Get(body, "accuracy_feedback").String(), ShouldNotBeBlank)
			So(gjson.Get(body, "difficulty_assessment").String(), ShouldNotBeBlank)
		})

		Convey("Then the age field should be omitted when unset", func() {
			So(gjson.Get(body, "age").Exists(), ShouldBeFalse)
		})
	})

	Convey("Given a report for a reader with a known age", t, func() {
		r, err := buildReport("the cat sat on the mat", "the cat sat on the mat", 10)
		So(err, ShouldBeNil)
		r.Age = 8

		data, merr := json.Marshal(r)
		So(merr, ShouldBeNil)
		body := string(data)

		Convey("Then the age should be echoed", func() {
			So(gjson.Get(body, "age").Int(), ShouldEqual, 8)
		})

		Convey("Then a clean reading should omit the practice plan", func() {
			So(gjson.Get(body, "assistance.has_errors").Bool(), ShouldBeFalse)
			So(gjson.Get(body, "assistance.practice_plan").Exists(), ShouldBeFalse)
		})
	})
}
