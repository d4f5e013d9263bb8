package scoring

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentrank/talentrank/internal/domain"
)

func poolOf(n int) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, n)
	for i := 0; i < n; i++ {
		candidates = append(candidates, domain.Candidate{
			ID:   fmt.Sprintf("c%d", i+1),
			Name: fmt.Sprintf("Candidate %d", i+1),
		})
	}
	return candidates
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name      string
		pool      int
		batchSize int
		wantSizes []int
	}{
		{"empty pool", 0, 10, nil},
		{"single short batch", 7, 10, []int{7}},
		{"exact multiple", 20, 10, []int{10, 10}},
		{"trailing remainder", 25, 10, []int{10, 10, 5}},
		{"one candidate", 1, 10, []int{1}},
		{"invalid size falls back to default", 15, 0, []int{10, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := Partition(poolOf(tt.pool), tt.batchSize)
			require.Len(t, batches, len(tt.wantSizes))
			total := 0
			for i, b := range batches {
				assert.Equal(t, i, b.Index)
				assert.Len(t, b.Candidates, tt.wantSizes[i])
				total += len(b.Candidates)
			}
			assert.Equal(t, tt.pool, total)
		})
	}
}

func TestPartitionPreservesPoolOrder(t *testing.T) {
	batches := Partition(poolOf(12), 5)
	require.Len(t, batches, 3)
	assert.Equal(t, "c1", batches[0].Candidates[0].ID)
	assert.Equal(t, "c6", batches[1].Candidates[0].ID)
	assert.Equal(t, "c11", batches[2].Candidates[0].ID)
}

// waveTrackingClient counts in-flight requests to verify the concurrency
// cap and wave synchronization.
type waveTrackingClient struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	barrier  chan struct{}
	response func(prompt string) string
}

func (w *waveTrackingClient) Complete(ctx context.Context, prompt string, _ map[string]any) (string, error) {
	w.mu.Lock()
	w.inFlight++
	if w.inFlight > w.peak {
		w.peak = w.inFlight
	}
	w.mu.Unlock()

	if w.barrier != nil {
		<-w.barrier
	}

	w.mu.Lock()
	w.inFlight--
	w.mu.Unlock()
	return w.response(prompt), nil
}

func (w *waveTrackingClient) EstimateTokens(text string) (int, error) { return len(text) / 4, nil }
func (w *waveTrackingClient) GetModel() string                        { return "stub-model" }

// respondToPrompt scores whichever candidate ids appear in the prompt.
func respondToPrompt(pool []domain.Candidate) func(string) string {
	return func(prompt string) string {
		var ids []string
		for _, c := range pool {
			if strings.Contains(prompt, `"id": "`+c.ID+`"`) {
				ids = append(ids, c.ID)
			}
		}
		return batchResponse(ids...)
	}
}

func TestSchedulerScoresAllBatchesInOrder(t *testing.T) {
	pool := poolOf(25)
	client := &waveTrackingClient{response: respondToPrompt(pool)}
	scorer := NewBatchScorer(client, testRetrier(), nil)
	scheduler := NewScheduler(scorer, 3, 0, nil)

	batches := Partition(pool, 10)
	outcomes := scheduler.Run(context.Background(), "Senior Go engineer", domain.DefaultWeights(), batches)

	require.Len(t, outcomes, 3)
	for i, outcome := range outcomes {
		assert.Equal(t, i, outcome.BatchIndex)
		require.True(t, outcome.Succeeded())
	}
	assert.Len(t, outcomes[0].Scored, 10)
	assert.Len(t, outcomes[1].Scored, 10)
	assert.Len(t, outcomes[2].Scored, 5)
	assert.LessOrEqual(t, client.peak, 3)
}

func TestSchedulerCapsWaveConcurrency(t *testing.T) {
	pool := poolOf(50)
	barrier := make(chan struct{})
	client := &waveTrackingClient{response: respondToPrompt(pool), barrier: barrier}
	scorer := NewBatchScorer(client, testRetrier(), nil)
	scheduler := NewScheduler(scorer, 2, 0, nil)

	done := make(chan []domain.BatchOutcome, 1)
	go func() {
		done <- scheduler.Run(context.Background(), "Senior Go engineer", domain.DefaultWeights(), Partition(pool, 10))
	}()

	close(barrier)
	outcomes := <-done

	require.Len(t, outcomes, 5)
	assert.LessOrEqual(t, client.peak, 2)
}

// failingScorerClient fails only prompts mentioning a marked candidate.
type failingScorerClient struct {
	waveTrackingClient
	failID string
}

func (f *failingScorerClient) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	if strings.Contains(prompt, `"id": "`+f.failID+`"`) {
		return "not json at all", nil
	}
	return f.waveTrackingClient.Complete(ctx, prompt, opts)
}

func TestSchedulerFailedBatchDoesNotBlockSiblings(t *testing.T) {
	pool := poolOf(30)
	client := &failingScorerClient{
		waveTrackingClient: waveTrackingClient{response: respondToPrompt(pool)},
		failID:             "c15",
	}
	scorer := NewBatchScorer(client, testRetrier(), nil)
	scheduler := NewScheduler(scorer, 3, 0, nil)

	outcomes := scheduler.Run(context.Background(), "Senior Go engineer", domain.DefaultWeights(), Partition(pool, 10))

	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Succeeded())
	assert.False(t, outcomes[1].Succeeded())
	assert.Equal(t, domain.KindParseError, outcomes[1].Err.ScoringKind())
	assert.True(t, outcomes[2].Succeeded())
}

func TestSchedulerCancelledContextFailsRemainingWaves(t *testing.T) {
	pool := poolOf(40)
	client := &waveTrackingClient{response: respondToPrompt(pool)}
	scorer := NewBatchScorer(client, testRetrier(), nil)
	scheduler := NewScheduler(scorer, 2, DefaultWavePause, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := scheduler.Run(ctx, "Senior Go engineer", domain.DefaultWeights(), Partition(pool, 10))

	// The first wave runs; the pause before the second wave aborts and
	// the remaining batches settle as failures.
	require.Len(t, outcomes, 4)
	assert.True(t, outcomes[0].Succeeded())
	assert.True(t, outcomes[1].Succeeded())
	assert.False(t, outcomes[2].Succeeded())
	assert.False(t, outcomes[3].Succeeded())
}
