package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	service "github.com/fluense/fluense/internal/app"
	"github.com/fluense/fluense/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service with full integration", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(1000),
			service.WithMaxBatchItems(50),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And the service should be running", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When assessing readings end-to-end", func() {
			err := svc.Start(ctx)
			So(err, ShouldBeNil)

			items := []report.Request{
				{
					ReferenceText:  "The lighthouse keeper climbed the stairs every evening.",
					RecognizedText: "the lighthouse keeper climbed the stairs every evening",
					ElapsedSeconds: 20,
				},
				{
					ReferenceText:  "Most people imagine the desert as an empty place.",
					RecognizedText: "most people imagine the desert as a empty place",
					ElapsedSeconds: 15,
				},
				{
					ReferenceText:  "Honeybees cannot speak, yet they share exact directions.",
					RecognizedText: "",
					ElapsedSeconds: 0,
				},
			}

			reports, err := svc.AssessBatch(ctx, items)
			So(err, ShouldBeNil)
			So(reports, ShouldHaveLength, len(items))

			Convey("Then every report should honor the partition invariant", func() {
				for i, rep := range reports {
					acc := rep.AccuracyMetrics
					So(acc.CorrectWords+acc.WrongWords+acc.MissingWords, ShouldEqual, acc.TotalWords)
					So(acc.AccuracyPercent, ShouldBeBetweenOrEqual, 0.0, 100.0)
					So(rep.ReferenceText, ShouldEqual, items[i].ReferenceText)
				}
			})

			Convey("And the total omission should still produce a complete report", func() {
				rep := reports[2]
				So(rep.AccuracyMetrics.CorrectWords, ShouldEqual, 0)
				So(rep.AccuracyMetrics.MissingWords, ShouldEqual, rep.AccuracyMetrics.TotalWords)
				So(rep.SpeedMetrics.WPM, ShouldEqual, 0.0)
				So(rep.RiskAssessment.RiskLevel, ShouldNotBeEmpty)
				So(rep.Status, ShouldEqual, report.StatusSuccess)
			})

			Convey("And the stats aggregate should count them", func() {
				stats := svc.GetStats()
				So(stats["assessmentsTotal"], ShouldEqual, int64(len(items)))
			})
		})

		Convey("When handling service lifecycle", func() {
			Convey("And starting and stopping multiple times", func() {
				// Start service
				err := svc.Start(ctx)
				So(err, ShouldBeNil)

				// Stop service
				svc.Stop()

				// Check it's stopped
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)

				// Start again
				err = svc.Start(ctx)
				So(err, ShouldBeNil)

				// Check it's started again
				stats = svc.GetStats()
				So(stats["started"], ShouldEqual, true)

				// The restarted pipeline should still serve batches
				reports, err := svc.AssessBatch(ctx, []report.Request{
					{ReferenceText: "sam is my dog", RecognizedText: "sam is my dog", ElapsedSeconds: 4},
				})
				So(err, ShouldBeNil)
				So(reports, ShouldHaveLength, 1)
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a service with concurrent operations", t, func() {
		svc := service.New(
			service.WithWorkerCount(4),
			service.WithQueueSize(2000),
			service.WithMaxBatchItems(100),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When multiple goroutines submit batches concurrently", func() {
			numGoroutines := 10
			itemsPerBatch := 5

			var wg sync.WaitGroup
			errCh := make(chan error, numGoroutines)

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()

					items := make([]report.Request, itemsPerBatch)
					for j := range items {
						items[j] = report.Request{
							ReferenceText:  fmt.Sprintf("reader %d passage %d goes here", id, j),
							RecognizedText: fmt.Sprintf("reader %d passage %d goes here", id, j),
							ElapsedSeconds: float64(5 + j),
						}
					}

					reports, err := svc.AssessBatch(ctx, items)
					if err != nil {
						errCh <- err
						return
					}
					for k, rep := range reports {
						if rep.ReferenceText != items[k].ReferenceText {
							errCh <- fmt.Errorf("batch %d: report %d out of order", id, k)
							return
						}
					}
				}(i)
			}

			wg.Wait()
			close(errCh)

			Convey("Then every batch should succeed in order", func() {
				for err := range errCh {
					So(err, ShouldBeNil)
				}
			})

			Convey("And the stats aggregate should count every item", func() {
				stats := svc.GetStats()
				So(stats["assessmentsTotal"], ShouldEqual, int64(numGoroutines*itemsPerBatch))
			})
		})

		Convey("When single and batch assessments interleave", func() {
			var wg sync.WaitGroup
			errCh := make(chan error, 2)

			wg.Add(2)
			go func() {
				defer wg.Done()
				for i := 0; i < 20; i++ {
					_, err := svc.Assess(ctx, report.Request{
						ReferenceText:  "the river bends beyond the farm",
						RecognizedText: "the river bends beyond the farm",
						ElapsedSeconds: 7,
					})
					if err != nil {
						errCh <- err
						return
					}
				}
			}()
			go func() {
				defer wg.Done()
				for i := 0; i < 5; i++ {
					_, err := svc.AssessBatch(ctx, []report.Request{
						{ReferenceText: "a quiet road", RecognizedText: "a quiet road", ElapsedSeconds: 2},
						{ReferenceText: "the open field", RecognizedText: "the open sky", ElapsedSeconds: 3},
					})
					if err != nil {
						errCh <- err
						return
					}
				}
			}()

			wg.Wait()
			close(errCh)

			Convey("Then no call should fail", func() {
				for err := range errCh {
					So(err, ShouldBeNil)
				}
				stats := svc.GetStats()
				So(stats["assessmentsTotal"], ShouldEqual, int64(30))
			})
		})
	})
}

func TestServiceErrorHandling(t *testing.T) {
	Convey("Given a service with error conditions", t, func() {
		svc := service.New(
			service.WithWorkerCount(1),
			service.WithQueueSize(10),
			service.WithMaxBatchItems(5),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When a batch carries an invalid reading", func() {
			items := []report.Request{
				{ReferenceText: "the red hen", RecognizedText: "the red hen", ElapsedSeconds: 3},
				{ReferenceText: "the red hen", RecognizedText: "the red hen", ElapsedSeconds: -3},
			}

			reports, err := svc.AssessBatch(ctx, items)

			Convey("Then the whole batch should fail naming the item", func() {
				So(err, ShouldNotBeNil)
				So(reports, ShouldBeNil)
				So(err.Error(), ShouldContainSubstring, "item 1")
			})
		})

		Convey("When the service is stopped mid-flight", func() {
			svc.Stop()

			_, err := svc.AssessBatch(ctx, []report.Request{
				{ReferenceText: "the red hen", RecognizedText: "the red hen", ElapsedSeconds: 3},
			})

			Convey("Then batches should be refused", func() {
				So(err, ShouldEqual, service.ErrNotStarted)
			})

			Convey("But single assessments should still work", func() {
				rep, err := svc.Assess(ctx, report.Request{
					ReferenceText:  "the red hen",
					RecognizedText: "the red hen",
					ElapsedSeconds: 3,
				})
				So(err, ShouldBeNil)
				So(rep.Status, ShouldEqual, report.StatusSuccess)
			})
		})
	})
}
