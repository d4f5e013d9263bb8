// Package ports defines the interfaces that form the contract between the
// scoring core and the infrastructure layer. These interfaces enable
// dependency inversion and make the pipeline testable without live providers.
package ports

import (
	"context"
	"time"

	"github.com/talentrank/talentrank/internal/domain"
)

// LLMClient defines the interface for interacting with Large Language Model
// providers. Implementations handle provider-specific details like
// authentication, request formatting, and response parsing.
type LLMClient interface {
	// Complete sends a completion request to the LLM provider and returns
	// the generated text.
	//
	// The options map allows flexibility for different providers without
	// changing the interface. Common options include:
	//   - "temperature": float64
	//   - "max_tokens": int
	//   - "json_output": bool (request raw-JSON output where supported)
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// EstimateTokens calculates the approximate token count for a given text.
	// The estimation method may vary by provider.
	EstimateTokens(text string) (int, error)

	// GetModel returns the model identifier being used by this client.
	GetModel() string
}

// CandidateSource provides read-only access to the candidate dataset.
// Implementations may serve cached snapshots; records are never mutated
// after load.
type CandidateSource interface {
	// Candidates returns the full candidate pool. The returned slice must
	// not be mutated by callers.
	Candidates(ctx context.Context) ([]domain.Candidate, error)

	// Size returns the number of candidates currently available, loading
	// the dataset if necessary.
	Size(ctx context.Context) (int, error)
}

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus or OpenTelemetry.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
