// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fluense/fluense/internal/adapters/passages"
	"github.com/fluense/fluense/internal/domain/report"
)

// Age bounds accepted at the API boundary. The engine itself never
// consults age; it is echoed back on the report.
const (
	minAge = 5
	maxAge = 100
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Assess runs one reading assessment synchronously.
	Assess(ctx context.Context, req report.Request) (report.Report, error)

	// AssessBatch runs a batch on the worker pool, preserving order.
	AssessBatch(ctx context.Context, reqs []report.Request) ([]report.Report, error)
}

// Passage mirrors the read shape returned by passage queries.
type Passage = passages.Passage

// PassageProvider exposes the read-only passage catalog.
type PassageProvider interface {
	All() []Passage
	ByDifficulty(difficulty string) ([]Passage, error)
	ForAge(age int) ([]Passage, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	assessHandler   *AssessHandler
	batchHandler    *BatchHandler
	passagesHandler *PassagesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, passageProvider PassageProvider, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		assessHandler:   NewAssessHandler(deps),
		batchHandler:    NewBatchHandler(deps),
		passagesHandler: NewPassagesHandler(passageProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/assess/batch", MetricsMiddleware(s.batchHandler.HandlePostBatch, "assess_batch"))
	mux.HandleFunc("/assess", MetricsMiddleware(s.assessHandler.HandlePostAssess, "assess"))
	mux.HandleFunc("/passages", MetricsMiddleware(s.passagesHandler.HandleGetPassages, "passages"))
}

// assessRequest mirrors the OpenAPI schema for POST /assess.
type assessRequest struct {
	ReferenceText  string  `json:"reference_text"`
	RecognizedText string  `json:"recognized_text"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Age            int     `json:"age,omitempty"`
}

func (a assessRequest) validate() error {
	switch {
	case strings.TrimSpace(a.ReferenceText) == "":
		return errors.New("missing reference_text")
	case a.ElapsedSeconds < 0:
		return errors.New("elapsed_seconds must not be negative")
	case a.Age != 0 && (a.Age < minAge || a.Age > maxAge):
		return errors.New("age must be between 5 and 100")
	}
	return nil
}

func (a assessRequest) toRequest() report.Request {
	return report.Request{
		ReferenceText:  a.ReferenceText,
		RecognizedText: a.RecognizedText,
		ElapsedSeconds: a.ElapsedSeconds,
		Age:            a.Age,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
