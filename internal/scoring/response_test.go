package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentrank/talentrank/internal/domain"
)

const validScorePayload = `{"candidates": [{"id": "c1", "score": 87, "reasoning": "strong skill and experience match", "highlights": ["Go expertise"], "matchedSkills": ["Go"]}]}`

func TestResponseParserAcceptsPlainJSON(t *testing.T) {
	entries, perr := NewResponseParser().Parse(validScorePayload)
	require.Nil(t, perr)
	require.Len(t, entries, 1)
	assert.Equal(t, "c1", entries[0].ID)
	assert.Equal(t, 87, entries[0].Score)
}

func TestResponseParserAcceptsMarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n" + validScorePayload + "\n```"},
		{"bare fence", "```\n" + validScorePayload + "\n```"},
		{"surrounding prose", "Here are the results:\n" + validScorePayload + "\nLet me know if you need more."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, perr := NewResponseParser().Parse(tt.raw)
			require.Nil(t, perr)
			assert.Len(t, entries, 1)
		})
	}
}

func TestResponseParserRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty response", ""},
		{"no json at all", "I cannot evaluate these candidates."},
		{"malformed json", `{"candidates": [{"id": "c1", "score": }`},
		{"empty candidates array", `{"candidates": []}`},
		{"missing candidates key", `{"results": []}`},
		{"score above range", `{"candidates": [{"id": "c1", "score": 101, "reasoning": "scored above range", "highlights": ["x"]}]}`},
		{"score below range", `{"candidates": [{"id": "c1", "score": -1, "reasoning": "scored below range", "highlights": ["x"]}]}`},
		{"missing id", `{"candidates": [{"score": 50, "reasoning": "who is this one", "highlights": ["x"]}]}`},
		{"missing reasoning", `{"candidates": [{"id": "c1", "score": 50, "highlights": ["x"]}]}`},
		{"reasoning too short", `{"candidates": [{"id": "c1", "score": 50, "reasoning": "short", "highlights": ["x"]}]}`},
		{"empty highlights", `{"candidates": [{"id": "c1", "score": 50, "reasoning": "no strengths listed", "highlights": []}]}`},
		{"missing highlights", `{"candidates": [{"id": "c1", "score": 50, "reasoning": "no strengths listed"}]}`},
		{"duplicate id", `{"candidates": [{"id": "c1", "score": 50, "reasoning": "first of the pair", "highlights": ["x"]}, {"id": "c1", "score": 60, "reasoning": "second of the pair", "highlights": ["x"]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, perr := NewResponseParser().Parse(tt.raw)
			require.NotNil(t, perr)
			assert.Nil(t, entries)
			assert.Equal(t, domain.KindParseError, perr.ScoringKind())
		})
	}
}

func TestResponseParserTruncatesRawInError(t *testing.T) {
	long := make([]byte, 2048)
	for i := range long {
		long[i] = 'x'
	}
	_, perr := NewResponseParser().Parse(string(long))
	require.NotNil(t, perr)
	assert.LessOrEqual(t, len(perr.RawResponse), rawResponseErrorLimit+3)
}

func TestExtractJSONBalancesNestedBraces(t *testing.T) {
	raw := `prefix {"a": {"b": "close } inside string"}, "c": 1} suffix`
	assert.Equal(t, `{"a": {"b": "close } inside string"}, "c": 1}`, extractJSON(raw))
}
