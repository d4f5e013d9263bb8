package scoring

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentrank/talentrank/infrastructure/llm"
	"github.com/talentrank/talentrank/internal/domain"
)

// stubCall records one Complete invocation for assertions.
type stubCall struct {
	prompt  string
	options map[string]any
}

// stubLLMClient replays a scripted sequence of responses. Once the script
// is exhausted the last step repeats.
type stubLLMClient struct {
	script []stubStep
	calls  []stubCall
}

type stubStep struct {
	response string
	err      error
}

func (s *stubLLMClient) Complete(_ context.Context, prompt string, options map[string]any) (string, error) {
	s.calls = append(s.calls, stubCall{prompt: prompt, options: options})
	idx := len(s.calls) - 1
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	step := s.script[idx]
	return step.response, step.err
}

func (s *stubLLMClient) EstimateTokens(text string) (int, error) { return len(text) / 4, nil }
func (s *stubLLMClient) GetModel() string                        { return "stub-model" }

func (s *stubLLMClient) jsonOutputFlags() []bool {
	flags := make([]bool, 0, len(s.calls))
	for _, c := range s.calls {
		v, _ := c.options["json_output"].(bool)
		flags = append(flags, v)
	}
	return flags
}

func testBatch(n int) domain.Batch {
	candidates := make([]domain.Candidate, 0, n)
	for i := 0; i < n; i++ {
		candidates = append(candidates, domain.Candidate{
			ID:              fmt.Sprintf("c%d", i+1),
			Name:            fmt.Sprintf("Candidate %d", i+1),
			YearsExperience: i + 1,
			Skills:          []string{"Go", "PostgreSQL"},
		})
	}
	return domain.Batch{Index: 0, Candidates: candidates}
}

func batchResponse(ids ...string) string {
	out := `{"candidates": [`
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"id": %q, "score": %d, "reasoning": "solid match for the role", "highlights": ["relevant experience"], "matchedSkills": ["Go"]}`, id, 90-i)
	}
	return out + `]}`
}

func newTestScorer(client *stubLLMClient) *BatchScorer {
	return NewBatchScorer(client, testRetrier(), nil)
}

func TestBatchScorerStructuredSuccess(t *testing.T) {
	client := &stubLLMClient{script: []stubStep{{response: batchResponse("c1", "c2")}}}
	scorer := newTestScorer(client)

	scored, serr := scorer.ScoreBatch(context.Background(), "Senior Go engineer", domain.DefaultWeights(), testBatch(2))
	require.Nil(t, serr)
	require.Len(t, scored, 2)
	assert.Equal(t, "c1", scored[0].ID)
	assert.Equal(t, 90, scored[0].Score)
	assert.Equal(t, []string{"Go"}, scored[0].MatchedSkills)
	assert.WithinDuration(t, time.Now().UTC(), scored[0].ScoredAt, time.Minute)

	// Single structured call, no fallback.
	assert.Equal(t, []bool{true}, client.jsonOutputFlags())
}

func TestBatchScorerFallsBackOnParseFailure(t *testing.T) {
	// Every structured attempt returns prose; the constrained retry
	// succeeds on its first try.
	script := make([]stubStep, 0, DefaultMaxAttempts+1)
	for i := 0; i < DefaultMaxAttempts; i++ {
		script = append(script, stubStep{response: "I cannot produce JSON."})
	}
	script = append(script, stubStep{response: batchResponse("c1")})

	client := &stubLLMClient{script: script}
	scored, serr := newTestScorer(client).ScoreBatch(context.Background(), "Senior Go engineer", domain.DefaultWeights(), testBatch(1))
	require.Nil(t, serr)
	require.Len(t, scored, 1)

	// Structured path exhausts all attempts before the fallback fires,
	// and the fallback call must not request native JSON output.
	flags := client.jsonOutputFlags()
	require.Len(t, flags, DefaultMaxAttempts+1)
	for i := 0; i < DefaultMaxAttempts; i++ {
		assert.True(t, flags[i])
	}
	assert.False(t, flags[DefaultMaxAttempts])
}

func TestBatchScorerNoFallbackForNonParseFailures(t *testing.T) {
	rateLimitErr := &llm.ProviderError{
		Type:       llm.ErrorTypeRateLimit,
		Provider:   "stub",
		StatusCode: 429,
		Message:    "slow down",
	}
	client := &stubLLMClient{script: []stubStep{{err: rateLimitErr}}}

	scored, serr := newTestScorer(client).ScoreBatch(context.Background(), "Senior Go engineer", domain.DefaultWeights(), testBatch(1))
	assert.Nil(t, scored)
	require.NotNil(t, serr)
	assert.Equal(t, domain.KindRateLimit, serr.ScoringKind())

	// Retries happen, but never the constrained-text strategy.
	assert.Len(t, client.calls, DefaultMaxAttempts)
	for _, flag := range client.jsonOutputFlags() {
		assert.True(t, flag)
	}
}

func TestBatchScorerBothStrategiesFail(t *testing.T) {
	client := &stubLLMClient{script: []stubStep{{response: "still not JSON"}}}

	scored, serr := newTestScorer(client).ScoreBatch(context.Background(), "Senior Go engineer", domain.DefaultWeights(), testBatch(1))
	assert.Nil(t, scored)
	require.NotNil(t, serr)
	assert.Equal(t, domain.KindParseError, serr.ScoringKind())
	assert.Len(t, client.calls, 2*DefaultMaxAttempts)
}

func TestBatchScorerRejectsUnknownCandidateID(t *testing.T) {
	client := &stubLLMClient{script: []stubStep{{response: batchResponse("c1", "ghost")}}}

	scored, serr := newTestScorer(client).ScoreBatch(context.Background(), "Senior Go engineer", domain.DefaultWeights(), testBatch(2))
	assert.Nil(t, scored)
	require.NotNil(t, serr)
	assert.Equal(t, domain.KindValidation, serr.ScoringKind())
	assert.Contains(t, serr.Error(), "ghost")

	// An unknown id is a validation failure, never a parse failure, so
	// the constrained fallback must not fire.
	assert.Len(t, client.calls, 1)
}

func TestBatchScorerPromptContainsCandidates(t *testing.T) {
	client := &stubLLMClient{script: []stubStep{{response: batchResponse("c1", "c2", "c3")}}}
	_, serr := newTestScorer(client).ScoreBatch(context.Background(), "Senior Go engineer", domain.DefaultWeights(), testBatch(3))
	require.Nil(t, serr)

	prompt := client.calls[0].prompt
	assert.Contains(t, prompt, "Senior Go engineer")
	assert.Contains(t, prompt, `"c1"`)
	assert.Contains(t, prompt, `"c3"`)
	assert.Contains(t, prompt, "Skills match: 40%")
}
