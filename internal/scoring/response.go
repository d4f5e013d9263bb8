package scoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/talentrank/talentrank/internal/domain"
)

// scoreEntry is one candidate's evaluation as returned by the model.
// Highlights must carry at least one entry and reasoning at least a short
// sentence, or the response fails shape validation.
type scoreEntry struct {
	ID            string   `json:"id" validate:"required"`
	Score         int      `json:"score" validate:"min=0,max=100"`
	Reasoning     string   `json:"reasoning" validate:"required,min=10"`
	Highlights    []string `json:"highlights" validate:"required,min=1"`
	MatchedSkills []string `json:"matchedSkills"`
}

// scoreResponse is the full payload expected from either prompt strategy.
type scoreResponse struct {
	Candidates []scoreEntry `json:"candidates" validate:"required,min=1,dive"`
}

// ResponseParser decodes and shape-checks raw model output. Every failure
// it produces is a ParseFailure so the strategy layer can decide whether a
// fallback attempt is warranted.
type ResponseParser struct {
	validate *validator.Validate
}

func NewResponseParser() *ResponseParser {
	return &ResponseParser{validate: validator.New()}
}

// Parse extracts the JSON body from raw, decodes it, and validates the
// shape: a non-empty scores array with every score inside [0, 100].
func (p *ResponseParser) Parse(raw string) ([]scoreEntry, *domain.ParseFailure) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return nil, &domain.ParseFailure{
			Details:     fmt.Sprintf("no JSON object found in response (%d chars)", len(raw)),
			RawResponse: truncateForError(raw),
		}
	}

	var resp scoreResponse
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return nil, &domain.ParseFailure{
			Details:     fmt.Sprintf("malformed JSON: %v", err),
			RawResponse: truncateForError(raw),
		}
	}

	if err := p.validate.Struct(resp); err != nil {
		return nil, &domain.ParseFailure{
			Details:     fmt.Sprintf("response shape invalid: %v", err),
			RawResponse: truncateForError(raw),
		}
	}

	seen := make(map[string]struct{}, len(resp.Candidates))
	for _, entry := range resp.Candidates {
		if _, dup := seen[entry.ID]; dup {
			return nil, &domain.ParseFailure{
				Details:     fmt.Sprintf("candidate %q scored more than once", entry.ID),
				RawResponse: truncateForError(raw),
			}
		}
		seen[entry.ID] = struct{}{}
	}

	return resp.Candidates, nil
}

const rawResponseErrorLimit = 512

func truncateForError(raw string) string {
	if len(raw) <= rawResponseErrorLimit {
		return raw
	}
	return raw[:rawResponseErrorLimit] + "..."
}

// extractJSON pulls a JSON object out of a response that may wrap it in
// markdown fences or surrounding prose. It scans for balanced braces while
// respecting string literals and escapes.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.Contains(response, "```json") {
		start := strings.Index(response, "```json")
		if start != -1 {
			start += 7
			end := strings.Index(response[start:], "```")
			if end != -1 {
				return strings.TrimSpace(response[start : start+end])
			}
		}
	}

	if strings.Contains(response, "```") {
		start := strings.Index(response, "```")
		if start != -1 {
			start += 3
			newlineIdx := strings.Index(response[start:], "\n")
			if newlineIdx != -1 {
				start += newlineIdx + 1
			}
			end := strings.Index(response[start:], "```")
			if end != -1 {
				candidate := strings.TrimSpace(response[start : start+end])
				if strings.HasPrefix(candidate, "{") {
					return candidate
				}
			}
		}
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	braceCount := 0
	inString := false
	escapeNext := false

	for i := start; i < len(response); i++ {
		char := response[i]

		if escapeNext {
			escapeNext = false
			continue
		}

		if char == '\\' {
			escapeNext = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		switch char {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				return response[start : i+1]
			}
		}
	}

	return ""
}
