package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// submitReadings submits readings concurrently using a worker pool and
// verifies every report that comes back.
func submitReadings(ctx context.Context, config *Config, readings []Reading, stats *Stats) error {
	log.Printf("📤 Submitting %d readings with %d workers...", len(readings), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/assess"

	// Counters for statistics
	var (
		successful int64
		invalid    int64
		failed     int64
		submitted  int64
	)

	// Progress reporting runs on its own ticker so the workers stay free
	// of shared timing state.
	progressCtx, stopProgress := context.WithCancel(ctx)
	defer stopProgress()
	go func() {
		ticker := time.NewTicker(ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-progressCtx.Done():
				return
			case <-ticker.C:
				log.Printf("📊 Progress: %d/%d submitted (verified: %d, invalid: %d, failed: %d)",
					atomic.LoadInt64(&submitted), len(readings),
					atomic.LoadInt64(&successful), atomic.LoadInt64(&invalid), atomic.LoadInt64(&failed))
			}
		}
	}()

	// Create worker pool
	readingChan := make(chan Reading, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for reading := range readingChan {
				select {
				case <-ctx.Done():
					return
				default:
					result, err := submitSingleReading(ctx, client, url, reading)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "invalid":
						atomic.AddInt64(&invalid, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					// Broken reports always get logged; transport noise
					// only in verbose mode.
					if result == "invalid" || (err != nil && config.Verbose) {
						log.Printf("⚠️  Reading %s (%s): %v", reading.PassageID, reading.Scenario, err)
					}
				}
			}
		}()
	}

	// Send readings to workers
	go func() {
		defer close(readingChan)
		for _, reading := range readings {
			select {
			case <-ctx.Done():
				return
			case readingChan <- reading:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()
	stopProgress()

	// Update stats
	stats.ReadingsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ReadingsSuccessful = int(atomic.LoadInt64(&successful))
	stats.ReadingsFailed = int(atomic.LoadInt64(&failed))
	stats.ReportsVerified += int(atomic.LoadInt64(&successful))
	stats.VerificationErrors += int(atomic.LoadInt64(&invalid))

	log.Printf(`✅ Reading submission completed:
   Verified: %d
   Invalid reports: %d
   Failed: %d
`, stats.ReadingsSuccessful, int(atomic.LoadInt64(&invalid)), stats.ReadingsFailed)

	if n := atomic.LoadInt64(&invalid); n > 0 {
		return fmt.Errorf("%d reports failed verification", n)
	}

	return nil
}

// submitSingleReading submits one reading, then checks the report against
// the scoring invariants. The result is "success", "invalid" for a report
// that came back broken, or "failed" for transport and HTTP errors.
func submitSingleReading(ctx context.Context, client *HTTPClient, url string, reading Reading) (string, error) {
	resp, err := client.Post(ctx, url, reading)
	if err != nil {
		return "failed", err
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed", err
	}

	if resp.StatusCode != StatusOK {
		return "failed", fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	if err := verifyReport(body, reading); err != nil {
		return "invalid", err
	}

	return "success", nil
}
