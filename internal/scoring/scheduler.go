package scoring

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talentrank/talentrank/internal/domain"
)

const (
	// DefaultBatchSize is how many candidates share one LLM call.
	DefaultBatchSize = 10

	// DefaultMaxConcurrent caps batches in flight within one wave.
	DefaultMaxConcurrent = 3

	// DefaultWavePause separates consecutive waves to stay under
	// provider rate limits.
	DefaultWavePause = 1000 * time.Millisecond
)

// Partition splits candidates into fixed-size batches in pool order. The
// final batch may be short. An empty pool yields no batches.
func Partition(candidates []domain.Candidate, batchSize int) []domain.Batch {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if len(candidates) == 0 {
		return nil
	}

	batches := make([]domain.Batch, 0, (len(candidates)+batchSize-1)/batchSize)
	for start := 0; start < len(candidates); start += batchSize {
		end := start + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batches = append(batches, domain.Batch{
			Index:      len(batches),
			Candidates: candidates[start:end],
		})
	}
	return batches
}

// Scheduler runs batches through a BatchScorer in bounded-concurrency
// waves. Each wave holds at most MaxConcurrent batches; the scheduler
// waits for every batch in a wave to settle, pauses, then launches the
// next wave. A failed batch never blocks its siblings.
type Scheduler struct {
	scorer        *BatchScorer
	maxConcurrent int
	wavePause     time.Duration
	logger        *zap.Logger
}

func NewScheduler(scorer *BatchScorer, maxConcurrent int, wavePause time.Duration, logger *zap.Logger) *Scheduler {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if wavePause < 0 {
		wavePause = DefaultWavePause
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scorer:        scorer,
		maxConcurrent: maxConcurrent,
		wavePause:     wavePause,
		logger:        logger,
	}
}

// Run scores every batch and returns one outcome per batch, ordered by
// batch index. Outcomes carry either the batch's scored candidates or the
// error that exhausted its retries.
func (s *Scheduler) Run(
	ctx context.Context,
	jd domain.JobDescription,
	weights domain.ScoringWeights,
	batches []domain.Batch,
) []domain.BatchOutcome {
	outcomes := make([]domain.BatchOutcome, len(batches))

	for waveStart := 0; waveStart < len(batches); waveStart += s.maxConcurrent {
		waveEnd := waveStart + s.maxConcurrent
		if waveEnd > len(batches) {
			waveEnd = len(batches)
		}

		if waveStart > 0 && s.wavePause > 0 {
			if err := sleepCtx(ctx, s.wavePause); err != nil {
				for i := waveStart; i < len(batches); i++ {
					outcomes[i] = domain.BatchOutcome{
						BatchIndex: batches[i].Index,
						Err:        Classify(err),
					}
				}
				return outcomes
			}
		}

		g := &errgroup.Group{}
		for _, batch := range batches[waveStart:waveEnd] {
			g.Go(func() error {
				scored, serr := s.scoreBatchSafely(ctx, jd, weights, batch)
				outcomes[batch.Index] = domain.BatchOutcome{
					BatchIndex: batch.Index,
					Scored:     scored,
					Err:        serr,
				}
				if serr != nil {
					s.logger.Warn("batch scoring failed",
						zap.Int("batch", batch.Index),
						zap.Int("candidates", len(batch.Candidates)),
						zap.String("kind", string(serr.ScoringKind())),
						zap.String("error", serr.Error()))
				}
				return nil
			})
		}
		// Goroutines never return errors; Wait only synchronizes the wave.
		_ = g.Wait()

		s.logger.Debug("wave settled",
			zap.Int("wave_start", waveStart),
			zap.Int("wave_size", waveEnd-waveStart))
	}

	return outcomes
}

// scoreBatchSafely shields the wave from a panicking batch. A panic in
// one batch becomes that batch's failure instead of taking down the whole
// request.
func (s *Scheduler) scoreBatchSafely(
	ctx context.Context,
	jd domain.JobDescription,
	weights domain.ScoringWeights,
	batch domain.Batch,
) (scored []domain.ScoredCandidate, serr domain.ScoringError) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("batch scoring panicked",
				zap.Int("batch", batch.Index),
				zap.Any("panic", r))
			scored = nil
			serr = &domain.UnknownFailure{Message: "internal batch scoring failure"}
		}
	}()
	return s.scorer.ScoreBatch(ctx, jd, weights, batch)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
