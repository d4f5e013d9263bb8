package domain

import (
	"time"
)

// Batch is one ordered, non-overlapping slice of the candidate pool.
// Batches partition the input exactly: every candidate appears in exactly
// one batch, and concatenating batches in index order reproduces the pool.
type Batch struct {
	// Index is the batch's position in partition order, starting at zero.
	Index int

	// Candidates is the batch's slice of the pool, in pool order.
	Candidates []Candidate
}

// BatchOutcome is the terminal result of scoring one batch: either a success
// carrying the batch's scored candidates, or a failure carrying one
// ScoringError. Exactly one outcome is produced per batch.
type BatchOutcome struct {
	// BatchIndex identifies the originating batch.
	BatchIndex int

	// Scored holds the batch's scored candidates in batch order.
	// It is nil when the batch failed.
	Scored []ScoredCandidate

	// Err is the batch's terminal error. It is nil when the batch succeeded.
	Err ScoringError
}

// Succeeded reports whether the batch reached a successful terminal state.
func (o BatchOutcome) Succeeded() bool { return o.Err == nil }

// ScoringResult is the aggregated outcome of a scoring request.
type ScoringResult struct {
	// Candidates is the ranked list, sorted descending by score and truncated
	// to the caller's maxResults.
	Candidates []ScoredCandidate `json:"candidates"`

	// Considered is the size of the candidate pool that was scored.
	Considered int `json:"candidatesConsidered"`

	// Model identifies the model that produced the scores.
	Model string `json:"model"`

	// Elapsed is the end-to-end processing time.
	Elapsed time.Duration `json:"-"`
}
