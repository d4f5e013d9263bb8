package scoring

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/talentrank/talentrank/internal/domain"
)

// constrainedBioLimit caps candidate bios on the fallback path so the
// stricter plain-text prompt stays well inside the context window.
const constrainedBioLimit = 280

// structuredPromptTemplate drives the primary scoring path. The provider
// is asked for native JSON output, so the template states the schema once
// and leans on the decoder to enforce it.
const structuredPromptTemplate = `You are an expert technical recruiter evaluating candidates for a role.

Job description:
{{.JobDescription}}

Scoring weights (each dimension contributes the given fraction of the final score):
- Skills match: {{printf "%.0f" (mulf .Weights.Skills 100)}}%
- Experience relevance: {{printf "%.0f" (mulf .Weights.Experience 100)}}%
- Education: {{printf "%.0f" (mulf .Weights.Education 100)}}%
- Portfolio and screening answers: {{printf "%.0f" (mulf .Weights.Portfolio 100)}}%
- Availability: {{printf "%.0f" (mulf .Weights.Availability 100)}}%

Candidates:
{{.Candidates}}

Score every candidate from 0 to 100 against the job description using the
weights above. Return a JSON object with a single key "candidates" whose
value is an array containing one entry per candidate:

{"candidates": [{"id": "<candidate id>", "score": <0-100 integer>, "reasoning": "<one or two sentences, at least 10 characters>", "highlights": ["<at least one standout strength>"], "matchedSkills": ["<skill from the job description the candidate has>"]}]}

Include every candidate exactly once. Do not invent candidate ids.`

// constrainedPromptTemplate drives the fallback path after a parse
// failure. It repeats the schema with harder guardrails and ships
// truncated bios.
const constrainedPromptTemplate = `You are an expert technical recruiter evaluating candidates for a role.

Job description:
{{.JobDescription}}

Scoring weights:
- Skills match: {{printf "%.0f" (mulf .Weights.Skills 100)}}%
- Experience relevance: {{printf "%.0f" (mulf .Weights.Experience 100)}}%
- Education: {{printf "%.0f" (mulf .Weights.Education 100)}}%
- Portfolio and screening answers: {{printf "%.0f" (mulf .Weights.Portfolio 100)}}%
- Availability: {{printf "%.0f" (mulf .Weights.Availability 100)}}%

Candidates:
{{.Candidates}}

Respond with ONLY a JSON object and nothing else. No prose, no markdown
fences, no explanation before or after. The object must have exactly one
key "candidates" holding an array with one entry per candidate:

{"candidates": [{"id": "<candidate id>", "score": <0-100 integer>, "reasoning": "<at least 10 characters>", "highlights": ["<at least one strength>"], "matchedSkills": []}]}

Every candidate id above must appear exactly once. Any other output format
is a failure.`

var promptFuncs = template.FuncMap{
	"mulf": func(a, b float64) float64 { return a * b },
}

var (
	structuredTmpl  = template.Must(template.New("structured").Funcs(promptFuncs).Parse(structuredPromptTemplate))
	constrainedTmpl = template.Must(template.New("constrained").Funcs(promptFuncs).Parse(constrainedPromptTemplate))
)

// promptData is the template input for both scoring prompts.
type promptData struct {
	JobDescription string
	Weights        domain.ScoringWeights
	Candidates     string
}

// candidatePayload is the serialized candidate view shipped to the model.
// Contact details are withheld; they carry no scoring signal.
type candidatePayload struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name"`
	YearsExperience  int                      `json:"years_experience"`
	Bio              string                   `json:"bio,omitempty"`
	Location         string                   `json:"location,omitempty"`
	Skills           []string                 `json:"skills,omitempty"`
	Education        []domain.EducationEntry  `json:"education,omitempty"`
	WorkHistory      []domain.WorkEntry       `json:"work_history,omitempty"`
	ScreeningAnswers []domain.ScreeningAnswer `json:"screening_answers,omitempty"`
	Availability     string                   `json:"availability,omitempty"`
}

// BuildStructuredPrompt renders the primary scoring prompt for a batch.
func BuildStructuredPrompt(jd domain.JobDescription, weights domain.ScoringWeights, candidates []domain.Candidate) (string, error) {
	return renderPrompt(structuredTmpl, jd, weights, candidates, 0)
}

// BuildConstrainedPrompt renders the fallback prompt with capped bios.
func BuildConstrainedPrompt(jd domain.JobDescription, weights domain.ScoringWeights, candidates []domain.Candidate) (string, error) {
	return renderPrompt(constrainedTmpl, jd, weights, candidates, constrainedBioLimit)
}

func renderPrompt(tmpl *template.Template, jd domain.JobDescription, weights domain.ScoringWeights, candidates []domain.Candidate, bioLimit int) (string, error) {
	payloads := make([]candidatePayload, 0, len(candidates))
	for _, c := range candidates {
		bio := c.Bio
		if bioLimit > 0 && len(bio) > bioLimit {
			bio = bio[:bioLimit]
		}
		payloads = append(payloads, candidatePayload{
			ID:               c.ID,
			Name:             c.Name,
			YearsExperience:  c.YearsExperience,
			Bio:              bio,
			Location:         c.Location,
			Skills:           c.Skills,
			Education:        c.Education,
			WorkHistory:      c.WorkHistory,
			ScreeningAnswers: c.ScreeningAnswers,
			Availability:     c.Availability,
		})
	}

	serialized, err := json.MarshalIndent(payloads, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize candidates: %w", err)
	}

	var sb strings.Builder
	data := promptData{
		JobDescription: string(jd),
		Weights:        weights,
		Candidates:     string(serialized),
	}
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}
