// Package service provides the core assessment service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/fluense/fluense/internal/adapters/pipeline/queue"
	workerpool "github.com/fluense/fluense/internal/adapters/pipeline/worker"
	"github.com/fluense/fluense/internal/domain/accuracy"
	"github.com/fluense/fluense/internal/domain/align"
	"github.com/fluense/fluense/internal/domain/assist"
	"github.com/fluense/fluense/internal/domain/report"
	"github.com/fluense/fluense/internal/domain/risk"
	"github.com/fluense/fluense/internal/domain/speed"
	"github.com/fluense/fluense/internal/domain/textnorm"
	"github.com/fluense/fluense/pkg/logger"
	"github.com/fluense/fluense/pkg/metrics"
)

// Service implements the API dependencies for the reading assessment system.
type Service struct {
	mu sync.RWMutex

	// Core components
	calculator *speed.Calculator
	scorer     *risk.Scorer
	jobQueue   jobqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	maxBatchItems int
	speedOpts     []speed.Option
	riskOpts      []risk.Option

	// State
	started   bool
	startedAt time.Time
	stopCh    chan struct{}

	// Rolling aggregate over completed assessments
	assessed int64
	byLevel  map[string]int64
	wpmSum   float64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of batch assessment workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the batch job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxBatchItems caps the number of readings in one batch request.
func WithMaxBatchItems(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchItems = n
		}
	}
}

// WithSpeedOptions passes band tables through to the speed calculator.
func WithSpeedOptions(opts ...speed.Option) Option {
	return func(s *Service) {
		s.speedOpts = append(s.speedOpts, opts...)
	}
}

// WithRiskOptions passes scoring tables through to the risk scorer.
func WithRiskOptions(opts ...risk.Option) Option {
	return func(s *Service) {
		s.riskOpts = append(s.riskOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration. The calculator
// and scorer are built immediately, so Assess works without Start; Start
// only raises the batch pipeline.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		queueSize:     10_000,
		maxBatchItems: 100,
		byLevel:       make(map[string]int64),
		stopCh:        make(chan struct{}),
		logger:        nil, // resolved lazily; pinned when the service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.calculator = speed.NewCalculator(s.speedOpts...)
	s.scorer = risk.NewScorer(s.riskOpts...)

	return s
}

// log returns the configured logger, falling back to the global one.
func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l != nil {
		return l
	}
	return logger.Get()
}

// Start raises the batch pipeline: the bounded job queue and the worker
// pool draining it. Single assessments do not require Start.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting assessment service...")

	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "assessment service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxBatchItems", s.maxBatchItems),
	)

	return nil
}

// Stop gracefully shuts down the batch pipeline. The service mutex is
// released before waiting on the pool: in-flight workers still need it to
// record their outcomes.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	q := s.jobQueue
	pool := s.workerPool
	lg := s.logger
	s.started = false
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}
	s.mu.Unlock()

	lg.Info(context.Background(), "stopping assessment service...")

	// Closing the queue first ends the dequeue channel, so workers drain
	// and exit even while the run context is still alive.
	if mq, ok := q.(*jobqueue.InMemoryQueue); ok {
		_ = mq.Close()
	}

	if pool != nil {
		pool.Stop()
	}

	lg.Info(context.Background(), "assessment service stopped")
}

// Assess runs one complete reading assessment: normalize both texts,
// align them word by word, aggregate accuracy counts, compute speed
// metrics, score the risk, and assemble the report. It touches no shared
// state beyond the stats aggregate, so it is safe to call concurrently.
func (s *Service) Assess(ctx context.Context, req report.Request) (report.Report, error) {
	refWords := textnorm.Tokens(req.ReferenceText)
	if len(refWords) == 0 {
		metrics.RecordAssessmentRejected()
		return report.Report{}, fmt.Errorf("%w: reference text has no readable words", report.ErrInvalidInput)
	}
	if req.ElapsedSeconds < 0 {
		metrics.RecordAssessmentRejected()
		return report.Report{}, fmt.Errorf("%w: elapsed_seconds must not be negative, got %v", report.ErrInvalidInput, req.ElapsedSeconds)
	}

	recWords := textnorm.Tokens(req.RecognizedText)

	alignStart := time.Now()
	aligned := align.Align(refWords, recWords)
	metrics.RecordAlignmentLatency(float64(time.Since(alignStart).Nanoseconds()) / 1e6)

	acc := accuracy.Aggregate(aligned)

	pace, err := s.calculator.Compute(len(recWords), req.ElapsedSeconds)
	if err != nil {
		metrics.RecordAssessmentRejected()
		return report.Report{}, fmt.Errorf("%w: %w", report.ErrInvalidInput, err)
	}

	assessment := s.scorer.Score(acc, pace)

	rep := report.Report{
		AssessmentID:    uuid.NewString(),
		ReferenceText:   req.ReferenceText,
		RecognizedText:  req.RecognizedText,
		Age:             req.Age,
		AccuracyMetrics: acc,
		SpeedMetrics:    pace,
		RiskAssessment:  assessment,
		WordErrors: report.WordErrors{
			WrongWords:   aligned.Wrong,
			MissingWords: aligned.Missing,
			ExtraWords:   aligned.Extra,
		},
		AccuracyFeedback:     risk.AccuracyFeedback(acc.AccuracyPercent),
		DifficultyAssessment: risk.DifficultyAssessment(acc.AccuracyPercent, pace.WPM),
		Assistance:           assist.Build(aligned.Wrong, aligned.Missing),
		Status:               report.StatusSuccess,
	}

	metrics.RecordAssessment(assessment.RiskLevel)
	metrics.ObserveWPM(pace.WPM)
	metrics.ObserveAccuracy(acc.AccuracyPercent)
	metrics.ObserveRiskScore(assessment.RiskScore)
	s.recordOutcome(assessment.RiskLevel, pace.WPM)

	s.log().Debug(ctx, "assessment completed",
		logger.String("assessmentID", rep.AssessmentID),
		logger.Float64("wpm", pace.WPM),
		logger.Float64("accuracy", acc.AccuracyPercent),
		logger.String("riskLevel", assessment.RiskLevel),
		logger.Float64("riskScore", assessment.RiskScore),
	)

	return rep, nil
}

// AssessBatch submits every reading to the worker pool and returns the
// reports in submission order. All items succeed or the whole batch fails:
// a full queue surfaces as backpressure, an invalid item names its index.
func (s *Service) AssessBatch(ctx context.Context, reqs []report.Request) ([]report.Report, error) {
	s.mu.RLock()
	started := s.started
	maxItems := s.maxBatchItems
	q := s.jobQueue
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}
	if len(reqs) == 0 || len(reqs) > maxItems {
		metrics.RecordAssessmentRejected()
		return nil, fmt.Errorf("%w: batch must contain between 1 and %d items, got %d",
			report.ErrInvalidInput, maxItems, len(reqs))
	}

	metrics.RecordBatchRequest()
	metrics.ObserveBatchSize(len(reqs))

	// Buffered to the batch size so workers can always deliver, even when
	// this call aborts after a partial enqueue.
	results := make(chan jobqueue.Outcome, len(reqs))
	for i := range reqs {
		job := jobqueue.Job{Index: i, Request: reqs[i], Results: results}
		if !q.Enqueue(ctx, job) {
			return nil, fmt.Errorf("enqueue item %d: %w", i, jobqueue.ErrBackpressure)
		}
	}

	out := make([]report.Report, len(reqs))
	var firstErr error
	for range reqs {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("collect batch results: %w", ctx.Err())
		case outcome := <-results:
			if outcome.Err != nil && firstErr == nil {
				firstErr = fmt.Errorf("item %d: %w", outcome.Index, outcome.Err)
			}
			out[outcome.Index] = outcome.Report
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	s.log().Debug(ctx, "batch assessment completed", logger.Int("items", len(reqs)))
	return out, nil
}

// recordOutcome folds one completed assessment into the stats aggregate.
func (s *Service) recordOutcome(riskLevel string, wpm float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessed++
	s.byLevel[riskLevel]++
	s.wpmSum += wpm
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	levels := make(map[string]int64, len(s.byLevel))
	for level, n := range s.byLevel {
		levels[level] = n
	}

	averageWPM := 0.0
	if s.assessed > 0 {
		averageWPM = s.wpmSum / float64(s.assessed)
	}

	stats := map[string]interface{}{
		"started":            s.started,
		"workerCount":        s.workerCount,
		"queueSize":          s.queueSize,
		"maxBatchItems":      s.maxBatchItems,
		"assessmentsTotal":   s.assessed,
		"assessmentsByLevel": levels,
		"averageWPM":         averageWPM,
	}

	if s.started {
		queueLen := s.jobQueue.Len(context.Background())
		stats["queueLength"] = queueLen
		stats["uptimeSeconds"] = time.Since(s.startedAt).Seconds()

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
