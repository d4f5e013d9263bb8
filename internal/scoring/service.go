package scoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/talentrank/talentrank/internal/domain"
	"github.com/talentrank/talentrank/internal/ports"
)

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	BatchSize     int
	MaxConcurrent int
	WavePause     time.Duration
	MaxAttempts   int
}

// Request is one scoring invocation: a job description, optional weight
// overrides, and an optional cap on the ranked list.
type Request struct {
	JobDescription string
	Weights        *domain.ScoringWeights
	MaxResults     int
}

// Service scores a candidate pool against a job description. It owns the
// full pipeline: validation, partitioning, wave scheduling, and
// aggregation.
type Service struct {
	source    ports.CandidateSource
	scheduler *Scheduler
	metrics   ports.MetricsCollector
	logger    *zap.Logger
	model     string

	batchSize  int
	maxResults int
}

func NewService(
	source ports.CandidateSource,
	client ports.LLMClient,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
	opts Options,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	retrier := NewRetrier()
	if opts.MaxAttempts > 0 {
		retrier.MaxAttempts = opts.MaxAttempts
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	wavePause := opts.WavePause
	if wavePause == 0 {
		wavePause = DefaultWavePause
	}

	scorer := NewBatchScorer(client, retrier, logger)
	return &Service{
		source:     source,
		scheduler:  NewScheduler(scorer, opts.MaxConcurrent, wavePause, logger),
		metrics:    metrics,
		logger:     logger,
		model:      client.GetModel(),
		batchSize:  batchSize,
		maxResults: DefaultMaxResults,
	}
}

// Score runs the full pipeline for one request. Any panic in the pipeline
// is converted to an UnknownFailure so callers always see the closed error
// taxonomy.
func (s *Service) Score(ctx context.Context, req Request) (result *domain.ScoringResult, serr domain.ScoringError) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scoring pipeline panicked", zap.Any("panic", r))
			result = nil
			serr = &domain.UnknownFailure{Message: "internal scoring failure"}
		}
		s.record(start, serr)
	}()

	jd := domain.JobDescription(req.JobDescription)
	if err := jd.Validate(); err != nil {
		return nil, Classify(err)
	}

	weights := domain.DefaultWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}
	if err := weights.Validate(); err != nil {
		return nil, Classify(err)
	}

	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = s.maxResults
	}
	if maxResults < MinMaxResults || maxResults > MaxMaxResults {
		return nil, &domain.ValidationFailure{
			Field:   "max_results",
			Message: "max_results must be between 1 and 100",
		}
	}

	candidates, err := s.source.Candidates(ctx)
	if err != nil {
		return nil, Classify(err)
	}

	if len(candidates) == 0 {
		s.logger.Info("candidate pool empty, returning empty ranking")
		return &domain.ScoringResult{
			Candidates: []domain.ScoredCandidate{},
			Model:      s.model,
			Elapsed:    time.Since(start),
		}, nil
	}

	batches := Partition(candidates, s.batchSize)
	s.logger.Info("scoring candidate pool",
		zap.Int("candidates", len(candidates)),
		zap.Int("batches", len(batches)),
		zap.String("model", s.model))

	outcomes := s.scheduler.Run(ctx, jd, weights, batches)

	result, serr = Finalize(outcomes, maxResults)
	if serr != nil {
		return nil, serr
	}
	result.Model = s.model
	result.Elapsed = time.Since(start)

	s.logger.Info("scoring complete",
		zap.Int("considered", result.Considered),
		zap.Int("returned", len(result.Candidates)),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

func (s *Service) record(start time.Time, serr domain.ScoringError) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if serr != nil {
		status = string(serr.ScoringKind())
	}
	labels := map[string]string{"status": status}
	s.metrics.RecordCounter("scoring_requests_total", 1, labels)
	s.metrics.RecordLatency("scoring_latency_seconds", time.Since(start), labels)
}
