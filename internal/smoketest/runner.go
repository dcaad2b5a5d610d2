package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"github.com/fluense/fluense/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting fluense smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("readings", config.NumReadings),
		logger.Int("batchSize", config.BatchSize),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Fetch the passage catalog
	passages, err := fetchPassages(ctx, config)
	if err != nil {
		return fmt.Errorf("passage catalog fetch failed: %w", err)
	}

	// Step 3: Generate readings from the catalog
	readings, err := generateReadings(ctx, config, passages, stats)
	if err != nil {
		return fmt.Errorf("reading generation failed: %w", err)
	}

	// Step 4: Submit readings one by one and verify every report
	if err := submitReadings(ctx, config, readings, stats); err != nil {
		return fmt.Errorf("reading submission failed: %w", err)
	}

	// Step 5: Submit the same readings again through the batch endpoint
	if err := submitBatches(ctx, config, readings, stats); err != nil {
		return fmt.Errorf("batch submission failed: %w", err)
	}

	// Step 6: Check the service stats endpoint
	if err := checkServiceStats(ctx, config, stats); err != nil {
		return fmt.Errorf("stats check failed: %w", err)
	}

	// Step 7: Save readings to file
	if err := saveReadingsToFile(ctx, config, readings); err != nil {
		logger.Get().Warn(ctx, "failed to save readings to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// fetchPassages pulls the graded passage catalog from the service.
func fetchPassages(ctx context.Context, config *Config) ([]Passage, error) {
	logger.Get().Info(ctx, "fetching the passage catalog")

	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/passages")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var passages []Passage
	if err := json.Unmarshal(body, &passages); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("service returned an empty catalog")
	}

	logger.Get().Info(ctx, "fetched passages", logger.Int("count", len(passages)))
	return passages, nil
}

// checkServiceStats pulls /stats and checks that the counters moved.
func checkServiceStats(ctx context.Context, config *Config, stats *Stats) error {
	log.Println("🔍 Checking service stats...")

	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/stats")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	if !gjson.GetBytes(body, "started").Bool() {
		return fmt.Errorf("service reports started=false")
	}
	if wc := gjson.GetBytes(body, "workerCount").Int(); wc <= 0 {
		return fmt.Errorf("service reports workerCount=%d", wc)
	}
	if !gjson.GetBytes(body, "assessmentsByLevel").IsObject() {
		return fmt.Errorf("assessmentsByLevel missing from stats")
	}

	// The service may have served other clients, so the total is a floor.
	total := gjson.GetBytes(body, "assessmentsTotal").Int()
	if total < int64(stats.ReportsVerified) {
		return fmt.Errorf("service counted %d assessments, expected at least %d", total, stats.ReportsVerified)
	}

	log.Printf("✅ Service stats verified (%d assessments, average WPM %.1f)",
		total, gjson.GetBytes(body, "averageWPM").Float())
	return nil
}

// saveReadingsToFile saves the generated readings to a JSON file.
func saveReadingsToFile(ctx context.Context, config *Config, readings []Reading) error {
	if len(readings) == 0 {
		return fmt.Errorf("no readings to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_readings_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write readings to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, reading := range readings {
		jsonData, err := marshalJSON(reading)
		if err != nil {
			return fmt.Errorf("failed to marshal reading %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write reading %d: %w", i, err)
		}

		// Add comma except for last reading
		if i < len(readings)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "readings saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, readingsPerSecond float64

	if stats.ReadingsSubmitted > 0 {
		successRate = float64(stats.ReadingsSuccessful) / float64(stats.ReadingsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		readingsPerSecond = float64(stats.ReadingsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("readingsGenerated", stats.ReadingsGenerated),
		logger.Int("readingsSubmitted", stats.ReadingsSubmitted),
		logger.Int("readingsSuccessful", stats.ReadingsSuccessful),
		logger.Int("readingsFailed", stats.ReadingsFailed),
		logger.Int("batchesSubmitted", stats.BatchesSubmitted),
		logger.Int("batchesSuccessful", stats.BatchesSuccessful),
		logger.Int("batchesFailed", stats.BatchesFailed),
		logger.Int("reportsVerified", stats.ReportsVerified),
		logger.Int("verificationErrors", stats.VerificationErrors),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("readingsPerSecond", readingsPerSecond))
}
