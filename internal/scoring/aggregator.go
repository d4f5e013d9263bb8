package scoring

import (
	"sort"

	"github.com/talentrank/talentrank/internal/domain"
)

const (
	// DefaultMaxResults bounds the ranked list returned to callers.
	DefaultMaxResults = 30

	MinMaxResults = 1
	MaxMaxResults = 100
)

// Finalize folds per-batch outcomes into a single ranked result. Partial
// success wins: if any batch succeeded, failed batches are dropped and the
// survivors are ranked. Only when every batch failed does the first
// failure (in batch order) surface as the overall error. An empty outcome
// set is an empty success.
func Finalize(outcomes []domain.BatchOutcome, maxResults int) (*domain.ScoringResult, domain.ScoringError) {
	if maxResults < MinMaxResults || maxResults > MaxMaxResults {
		maxResults = DefaultMaxResults
	}

	var (
		scored   []domain.ScoredCandidate
		firstErr domain.ScoringError
		anyOK    bool
	)
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			anyOK = true
			scored = append(scored, outcome.Scored...)
			continue
		}
		if firstErr == nil {
			firstErr = outcome.Err
		}
	}

	if !anyOK && firstErr != nil {
		return nil, firstErr
	}

	considered := len(scored)

	// Stable sort keeps pool order among equal scores deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	if scored == nil {
		scored = []domain.ScoredCandidate{}
	}

	return &domain.ScoringResult{
		Candidates: scored,
		Considered: considered,
	}, nil
}
