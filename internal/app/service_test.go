package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/fluense/fluense/internal/app"
	"github.com/fluense/fluense/internal/domain/report"
	"github.com/fluense/fluense/internal/domain/speed"
	"github.com/fluense/fluense/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithMaxBatchItems(10),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a service with custom band tables", t, func() {
		svc := service.New(
			service.WithSpeedOptions(
				speed.WithCategoryBands([]speed.Band{{MinWPM: 1, Label: "Moving"}}, "Still"),
			),
		)

		Convey("When assessing a reading", func() {
			rep, err := svc.Assess(context.Background(), report.Request{
				ReferenceText:  "the sun rises in the east",
				RecognizedText: "the sun rises in the east",
				ElapsedSeconds: 10,
			})

			Convey("Then the custom table should drive the category", func() {
				So(err, ShouldBeNil)
				So(rep.SpeedMetrics.SpeedCategory, ShouldEqual, "Moving")
			})
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Assess(t *testing.T) {
	Convey("Given an unstarted service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When assessing a perfect reading", func() {
			rep, err := svc.Assess(ctx, report.Request{
				ReferenceText:  "The sun rises in the east.",
				RecognizedText: "the sun rises in the east",
				ElapsedSeconds: 10,
				Age:            7,
			})

			Convey("Then the report should show a flawless result", func() {
				So(err, ShouldBeNil)
				So(rep.AssessmentID, ShouldNotBeEmpty)
				So(rep.Status, ShouldEqual, report.StatusSuccess)
				So(rep.Age, ShouldEqual, 7)
				So(rep.AccuracyMetrics.TotalWords, ShouldEqual, 6)
				So(rep.AccuracyMetrics.CorrectWords, ShouldEqual, 6)
				So(rep.AccuracyMetrics.AccuracyPercent, ShouldEqual, 100.0)
				So(rep.Assistance.HasErrors, ShouldBeFalse)
				So(rep.Assistance.PracticePlan, ShouldBeNil)
			})
		})

		Convey("When assessing a reading with every error kind", func() {
			rep, err := svc.Assess(ctx, report.Request{
				ReferenceText:  "The quick brown fox jumps over the lazy dog.",
				RecognizedText: "the brown fox jumps over the lazy cat",
				ElapsedSeconds: 60,
			})

			Convey("Then the counts should partition both texts", func() {
				So(err, ShouldBeNil)
				So(rep.AccuracyMetrics.TotalWords, ShouldEqual, 9)
				So(rep.AccuracyMetrics.CorrectWords, ShouldEqual, 7)
				So(rep.AccuracyMetrics.WrongWords, ShouldEqual, 1)
				So(rep.AccuracyMetrics.MissingWords, ShouldEqual, 1)
				So(rep.AccuracyMetrics.ExtraWords, ShouldEqual, 0)
				So(rep.AccuracyMetrics.AccuracyPercent, ShouldEqual, 77.78)
			})

			Convey("And the word errors should carry the exact tokens", func() {
				So(err, ShouldBeNil)
				So(rep.WordErrors.WrongWords, ShouldHaveLength, 1)
				So(rep.WordErrors.WrongWords[0].Spoken, ShouldEqual, "cat")
				So(rep.WordErrors.WrongWords[0].Correct, ShouldEqual, "dog")
				So(rep.WordErrors.MissingWords, ShouldResemble, []string{"quick"})
				So(rep.WordErrors.ExtraWords, ShouldBeEmpty)
			})

			Convey("And the speed and risk blocks should be assembled", func() {
				So(err, ShouldBeNil)
				So(rep.SpeedMetrics.WPM, ShouldEqual, 8.0)
				So(rep.SpeedMetrics.SpeedCategory, ShouldEqual, "Very Slow")
				So(rep.SpeedMetrics.DyslexiaRiskBand, ShouldEqual, "High")
				So(rep.RiskAssessment.RiskScore, ShouldEqual, 48.89)
				So(rep.RiskAssessment.RiskLevel, ShouldEqual, "Moderate")
				So(rep.AccuracyFeedback, ShouldNotBeEmpty)
				So(rep.DifficultyAssessment, ShouldNotBeEmpty)
			})

			Convey("And the assistance block should cover every error", func() {
				So(err, ShouldBeNil)
				So(rep.Assistance.HasErrors, ShouldBeTrue)
				So(rep.Assistance.ErrorCount, ShouldEqual, 2)
				So(rep.Assistance.WordErrors, ShouldHaveLength, 1)
				So(rep.Assistance.MissingWords, ShouldHaveLength, 1)
				So(rep.Assistance.PracticePlan, ShouldNotBeNil)
			})
		})

		Convey("When the recognized text is empty", func() {
			rep, err := svc.Assess(ctx, report.Request{
				ReferenceText:  "Sam is my dog.",
				RecognizedText: "",
				ElapsedSeconds: 30,
			})

			Convey("Then the report should mark a complete omission", func() {
				So(err, ShouldBeNil)
				So(rep.AccuracyMetrics.CorrectWords, ShouldEqual, 0)
				So(rep.AccuracyMetrics.MissingWords, ShouldEqual, 4)
				So(rep.AccuracyMetrics.AccuracyPercent, ShouldEqual, 0.0)
				So(rep.SpeedMetrics.WPM, ShouldEqual, 0.0)
				So(rep.Status, ShouldEqual, report.StatusSuccess)
			})
		})

		Convey("When the elapsed time is zero", func() {
			rep, err := svc.Assess(ctx, report.Request{
				ReferenceText:  "Sam is my dog.",
				RecognizedText: "Sam is my dog.",
				ElapsedSeconds: 0,
			})

			Convey("Then WPM should be zero and the report complete", func() {
				So(err, ShouldBeNil)
				So(rep.SpeedMetrics.WPM, ShouldEqual, 0.0)
				So(rep.AccuracyMetrics.AccuracyPercent, ShouldEqual, 100.0)
			})
		})

		Convey("When the reference text has no readable words", func() {
			_, err := svc.Assess(ctx, report.Request{
				ReferenceText:  "!!! ... 123---",
				RecognizedText: "anything",
				ElapsedSeconds: 10,
			})

			Convey("Then it should reject the input", func() {
				So(errors.Is(err, report.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When the elapsed time is negative", func() {
			_, err := svc.Assess(ctx, report.Request{
				ReferenceText:  "Sam is my dog.",
				RecognizedText: "Sam is my dog.",
				ElapsedSeconds: -1,
			})

			Convey("Then it should reject the input", func() {
				So(errors.Is(err, report.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestService_AssessBatch(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithMaxBatchItems(5),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When submitting a batch of readings", func() {
			items := []report.Request{
				{ReferenceText: "the red hen sits on her nest", RecognizedText: "the red hen sits on her nest", ElapsedSeconds: 12},
				{ReferenceText: "sam is my dog", RecognizedText: "sam is a dog", ElapsedSeconds: 8},
				{ReferenceText: "today it rains", RecognizedText: "", ElapsedSeconds: 5},
			}

			reports, err := svc.AssessBatch(ctx, items)

			Convey("Then reports should come back in submission order", func() {
				So(err, ShouldBeNil)
				So(reports, ShouldHaveLength, 3)
				So(reports[0].ReferenceText, ShouldEqual, items[0].ReferenceText)
				So(reports[1].ReferenceText, ShouldEqual, items[1].ReferenceText)
				So(reports[2].ReferenceText, ShouldEqual, items[2].ReferenceText)
			})

			Convey("And every report should be complete", func() {
				So(err, ShouldBeNil)
				for _, rep := range reports {
					So(rep.AssessmentID, ShouldNotBeEmpty)
					So(rep.Status, ShouldEqual, report.StatusSuccess)
				}
				So(reports[0].AccuracyMetrics.AccuracyPercent, ShouldEqual, 100.0)
				So(reports[2].AccuracyMetrics.CorrectWords, ShouldEqual, 0)
			})
		})

		Convey("When submitting an empty batch", func() {
			_, err := svc.AssessBatch(ctx, nil)

			Convey("Then it should be rejected as invalid input", func() {
				So(errors.Is(err, report.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When exceeding the batch item cap", func() {
			items := make([]report.Request, 6)
			for i := range items {
				items[i] = report.Request{ReferenceText: "sam is my dog", RecognizedText: "sam is my dog", ElapsedSeconds: 5}
			}

			_, err := svc.AssessBatch(ctx, items)

			Convey("Then it should be rejected as invalid input", func() {
				So(errors.Is(err, report.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When one item is invalid", func() {
			items := []report.Request{
				{ReferenceText: "sam is my dog", RecognizedText: "sam is my dog", ElapsedSeconds: 5},
				{ReferenceText: "   ", RecognizedText: "whatever", ElapsedSeconds: 5},
			}

			_, err := svc.AssessBatch(ctx, items)

			Convey("Then the whole batch should fail naming the item", func() {
				So(errors.Is(err, report.ErrInvalidInput), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "item 1")
			})
		})
	})

	Convey("Given an unstarted service", t, func() {
		svc := service.New()

		Convey("When submitting a batch", func() {
			_, err := svc.AssessBatch(context.Background(), []report.Request{
				{ReferenceText: "sam is my dog", RecognizedText: "sam is my dog", ElapsedSeconds: 5},
			})

			Convey("Then it should report the service as not started", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
				So(stats["assessmentsTotal"], ShouldEqual, int64(0))
			})
		})

		Convey("When assessments have completed", func() {
			_, err := svc.Assess(context.Background(), report.Request{
				ReferenceText:  "the sun rises in the east",
				RecognizedText: "the sun rises in the east",
				ElapsedSeconds: 3,
			})
			So(err, ShouldBeNil)

			stats := svc.GetStats()

			Convey("Then the aggregate should reflect them", func() {
				So(stats["assessmentsTotal"], ShouldEqual, int64(1))
				So(stats["averageWPM"], ShouldEqual, 120.0)

				levels, ok := stats["assessmentsByLevel"].(map[string]int64)
				So(ok, ShouldBeTrue)

				total := int64(0)
				for _, n := range levels {
					total += n
				}
				So(total, ShouldEqual, int64(1))
			})
		})
	})
}
