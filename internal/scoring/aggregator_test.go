package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentrank/talentrank/internal/domain"
)

func scoredWith(id string, score int) domain.ScoredCandidate {
	return domain.ScoredCandidate{
		Candidate: domain.Candidate{ID: id, Name: "Candidate " + id},
		Score:     score,
	}
}

func TestFinalizeEmptyOutcomesIsEmptySuccess(t *testing.T) {
	result, serr := Finalize(nil, DefaultMaxResults)
	require.Nil(t, serr)
	require.NotNil(t, result)
	assert.Empty(t, result.Candidates)
	assert.Equal(t, 0, result.Considered)
}

func TestFinalizePrefersPartialSuccess(t *testing.T) {
	outcomes := []domain.BatchOutcome{
		{BatchIndex: 0, Scored: []domain.ScoredCandidate{scoredWith("c1", 80), scoredWith("c2", 60)}},
		{BatchIndex: 1, Err: &domain.RateLimited{}},
		{BatchIndex: 2, Scored: []domain.ScoredCandidate{scoredWith("c3", 95)}},
	}
	result, serr := Finalize(outcomes, DefaultMaxResults)
	require.Nil(t, serr)
	assert.Equal(t, 3, result.Considered)
	require.Len(t, result.Candidates, 3)
	assert.Equal(t, "c3", result.Candidates[0].ID)
	assert.Equal(t, "c1", result.Candidates[1].ID)
	assert.Equal(t, "c2", result.Candidates[2].ID)
}

func TestFinalizeAllBatchesFailedReturnsFirstError(t *testing.T) {
	first := &domain.NetworkFailure{Message: "upstream unreachable"}
	outcomes := []domain.BatchOutcome{
		{BatchIndex: 0, Err: first},
		{BatchIndex: 1, Err: &domain.RateLimited{}},
	}
	result, serr := Finalize(outcomes, DefaultMaxResults)
	assert.Nil(t, result)
	require.NotNil(t, serr)
	assert.Same(t, domain.ScoringError(first), serr)
}

func TestFinalizeStableSortBreaksTiesByPoolOrder(t *testing.T) {
	outcomes := []domain.BatchOutcome{
		{BatchIndex: 0, Scored: []domain.ScoredCandidate{
			scoredWith("c1", 70),
			scoredWith("c2", 70),
			scoredWith("c3", 70),
		}},
	}
	result, serr := Finalize(outcomes, DefaultMaxResults)
	require.Nil(t, serr)
	assert.Equal(t, "c1", result.Candidates[0].ID)
	assert.Equal(t, "c2", result.Candidates[1].ID)
	assert.Equal(t, "c3", result.Candidates[2].ID)
}

func TestFinalizeTruncatesToMaxResults(t *testing.T) {
	scored := make([]domain.ScoredCandidate, 0, 40)
	for i := 0; i < 40; i++ {
		scored = append(scored, scoredWith(fmt.Sprintf("c%d", i+1), i+1))
	}
	outcomes := []domain.BatchOutcome{{BatchIndex: 0, Scored: scored}}

	result, serr := Finalize(outcomes, 5)
	require.Nil(t, serr)
	assert.Equal(t, 40, result.Considered)
	require.Len(t, result.Candidates, 5)
	assert.Equal(t, 40, result.Candidates[0].Score)
	assert.Equal(t, 36, result.Candidates[4].Score)
}

func TestFinalizeOutOfRangeMaxResultsFallsBackToDefault(t *testing.T) {
	scored := make([]domain.ScoredCandidate, 0, 50)
	for i := 0; i < 50; i++ {
		scored = append(scored, scoredWith(fmt.Sprintf("c%d", i+1), i))
	}
	outcomes := []domain.BatchOutcome{{BatchIndex: 0, Scored: scored}}

	result, serr := Finalize(outcomes, 0)
	require.Nil(t, serr)
	assert.Len(t, result.Candidates, DefaultMaxResults)
}
