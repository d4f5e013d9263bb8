package scoring

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/talentrank/talentrank/internal/domain"
	"github.com/talentrank/talentrank/internal/ports"
)

const (
	// scoringTemperature keeps evaluations near-deterministic.
	scoringTemperature = 0.2

	// tokensPerCandidate sizes the completion budget for a batch.
	tokensPerCandidate = 160
	minCompletionTokens = 512
)

// BatchScorer scores one batch of candidates through an LLM client. The
// primary attempt requests native JSON output; if that attempt exhausts its
// retries with a parse failure, a single fallback attempt reissues the
// batch as a constrained plain-text prompt with its own full retry budget.
// All other failure kinds surface without a fallback.
type BatchScorer struct {
	client  ports.LLMClient
	parser  *ResponseParser
	retrier *Retrier
	logger  *zap.Logger
}

func NewBatchScorer(client ports.LLMClient, retrier *Retrier, logger *zap.Logger) *BatchScorer {
	if retrier == nil {
		retrier = NewRetrier()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchScorer{
		client:  client,
		parser:  NewResponseParser(),
		retrier: retrier,
		logger:  logger,
	}
}

// ScoreBatch evaluates every candidate in the batch against the job
// description and returns their scored forms. A batch fails as a unit;
// partial results within a batch are never returned.
func (bs *BatchScorer) ScoreBatch(
	ctx context.Context,
	jd domain.JobDescription,
	weights domain.ScoringWeights,
	batch domain.Batch,
) ([]domain.ScoredCandidate, domain.ScoringError) {
	entries, serr := bs.attempt(ctx, jd, weights, batch, true)
	if serr != nil {
		if serr.ScoringKind() != domain.KindParseError {
			return nil, serr
		}

		bs.logger.Warn("structured scoring failed to parse, falling back to constrained text",
			zap.Int("batch", batch.Index),
			zap.String("error", serr.Error()))

		entries, serr = bs.attempt(ctx, jd, weights, batch, false)
		if serr != nil {
			return nil, serr
		}
	}

	return bs.merge(batch, entries)
}

// attempt runs one strategy (structured when jsonOutput is true) under the
// full retry schedule and returns the parsed entries or the classified
// final error.
func (bs *BatchScorer) attempt(
	ctx context.Context,
	jd domain.JobDescription,
	weights domain.ScoringWeights,
	batch domain.Batch,
	jsonOutput bool,
) ([]scoreEntry, domain.ScoringError) {
	build := BuildConstrainedPrompt
	if jsonOutput {
		build = BuildStructuredPrompt
	}
	prompt, err := build(jd, weights, batch.Candidates)
	if err != nil {
		return nil, &domain.UnknownFailure{Message: "prompt construction failed", Err: err}
	}

	maxTokens := len(batch.Candidates) * tokensPerCandidate
	if maxTokens < minCompletionTokens {
		maxTokens = minCompletionTokens
	}
	options := map[string]any{
		"temperature": scoringTemperature,
		"max_tokens":  maxTokens,
	}
	if jsonOutput {
		options["json_output"] = true
	}

	var entries []scoreEntry
	retryErr := bs.retrier.Do(ctx, func(ctx context.Context) error {
		raw, err := bs.client.Complete(ctx, prompt, options)
		if err != nil {
			return err
		}
		parsed, perr := bs.parser.Parse(raw)
		if perr != nil {
			return perr
		}
		entries = parsed
		return nil
	})
	if retryErr != nil {
		return nil, Classify(retryErr)
	}
	return entries, nil
}

// merge binds parsed score entries back to the batch's candidates. An
// entry referencing an id outside the batch fails the whole batch: it
// means the model fabricated or crossed candidates and nothing in the
// response can be trusted.
func (bs *BatchScorer) merge(batch domain.Batch, entries []scoreEntry) ([]domain.ScoredCandidate, domain.ScoringError) {
	byID := make(map[string]domain.Candidate, len(batch.Candidates))
	for _, c := range batch.Candidates {
		byID[c.ID] = c
	}

	now := time.Now().UTC()
	scored := make([]domain.ScoredCandidate, 0, len(entries))
	for _, entry := range entries {
		candidate, ok := byID[entry.ID]
		if !ok {
			return nil, &domain.ValidationFailure{
				Field:   "candidates.id",
				Message: fmt.Sprintf("response references unknown candidate %q", entry.ID),
			}
		}
		scored = append(scored, domain.ScoredCandidate{
			Candidate:     candidate,
			Score:         entry.Score,
			Highlights:    entry.Highlights,
			Reasoning:     entry.Reasoning,
			MatchedSkills: ReconcileSkills(entry.MatchedSkills, candidate.Skills),
			ScoredAt:      now,
		})
	}
	return scored, nil
}
