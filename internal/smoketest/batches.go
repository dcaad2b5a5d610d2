package smoketest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/tidwall/gjson"
)

// submitBatches groups the readings and submits them again through the
// batch endpoint, verifying that every report comes back in order.
func submitBatches(ctx context.Context, config *Config, readings []Reading, stats *Stats) error {
	batches := buildBatches(readings, config.BatchSize)
	log.Printf("📦 Submitting %d batches of up to %d readings with %d workers...",
		len(batches), config.BatchSize, config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/assess/batch"

	var (
		successful int64
		failed     int64
		verified   int64
		invalid    int64
	)

	// Create worker pool
	batchChan := make(chan []Reading, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for batch := range batchChan {
				select {
				case <-ctx.Done():
					return
				default:
					ok, bad, err := submitSingleBatch(ctx, client, url, batch)
					atomic.AddInt64(&verified, int64(ok))
					atomic.AddInt64(&invalid, int64(bad))
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Batch failed: %v", err)
						}
					} else {
						atomic.AddInt64(&successful, 1)
					}
				}
			}
		}()
	}

	// Send batches to workers
	go func() {
		defer close(batchChan)
		for _, batch := range batches {
			select {
			case <-ctx.Done():
				return
			case batchChan <- batch:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Update stats
	stats.BatchesSubmitted = len(batches)
	stats.BatchesSuccessful = int(atomic.LoadInt64(&successful))
	stats.BatchesFailed = int(atomic.LoadInt64(&failed))
	stats.ReportsVerified += int(atomic.LoadInt64(&verified))
	stats.VerificationErrors += int(atomic.LoadInt64(&invalid))

	log.Printf(`✅ Batch submission completed:
   Successful: %d
   Failed: %d
   Reports verified: %d
`, stats.BatchesSuccessful, stats.BatchesFailed, int(atomic.LoadInt64(&verified)))

	if n := atomic.LoadInt64(&invalid); n > 0 {
		return fmt.Errorf("%d batch reports failed verification", n)
	}

	return nil
}

// submitSingleBatch posts one batch and verifies each returned report
// against the reading at the same position. It returns the number of
// reports that passed and failed verification.
func submitSingleBatch(ctx context.Context, client *HTTPClient, url string, batch []Reading) (int, int, error) {
	payload := map[string]interface{}{"items": batch}

	resp, err := client.Post(ctx, url, payload)
	if err != nil {
		return 0, 0, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return 0, 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	results := gjson.GetBytes(body, "results")
	if !results.IsArray() {
		return 0, 0, fmt.Errorf("response has no results array")
	}

	// Results must come back in request order, one per item.
	reports := results.Array()
	if len(reports) != len(batch) {
		return 0, 0, fmt.Errorf("expected %d results, got %d", len(batch), len(reports))
	}

	verified, invalid := 0, 0
	for i, rep := range reports {
		if err := verifyReport([]byte(rep.Raw), batch[i]); err != nil {
			invalid++
			log.Printf("⚠️  Batch item %d (%s): %v", i, batch[i].Scenario, err)
			continue
		}
		verified++
	}

	return verified, invalid, nil
}

// buildBatches splits readings into batches of at most size items.
func buildBatches(readings []Reading, size int) [][]Reading {
	if size <= 0 {
		size = 1
	}

	batches := make([][]Reading, 0, (len(readings)+size-1)/size)
	for start := 0; start < len(readings); start += size {
		end := start + size
		if end > len(readings) {
			end = len(readings)
		}
		batches = append(batches, readings[start:end])
	}
	return batches
}
