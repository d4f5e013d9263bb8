// Package domain defines the core types of the candidate scoring engine:
// immutable candidate records, validated job descriptions and scoring weights,
// scored results, and the closed set of scoring errors.
//
// Types in this package carry no behavior beyond construction and validation.
// All enrichment (scoring, ranking) happens in the scoring package and produces
// new values rather than mutating existing ones.
package domain

import (
	"fmt"
	"time"
)

// Availability categories a candidate can declare.
const (
	AvailabilityImmediate = "immediate"
	AvailabilityTwoWeeks  = "2-weeks"
	AvailabilityOneMonth  = "1-month"
	AvailabilityFlexible  = "flexible"
)

// EducationEntry describes one completed or in-progress degree.
type EducationEntry struct {
	// Degree is the credential name, e.g. "BSc Computer Science".
	Degree string `json:"degree" validate:"required"`

	// Institution is the school that granted or is granting the degree.
	Institution string `json:"institution"`

	// Year is the (expected) graduation year.
	Year int `json:"year,omitempty"`
}

// WorkEntry describes one prior role in a candidate's work history.
type WorkEntry struct {
	// Title is the role title, e.g. "Senior Backend Engineer".
	Title string `json:"title" validate:"required"`

	// Company is the employer name.
	Company string `json:"company"`

	// DurationMonths is how long the candidate held the role.
	DurationMonths int `json:"durationMonths,omitempty"`

	// Description summarizes responsibilities and achievements.
	Description string `json:"description,omitempty"`
}

// ScreeningAnswer pairs a screening question with the candidate's answer.
type ScreeningAnswer struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"`
}

// Candidate is an immutable record loaded from the candidate dataset.
// It is never mutated after load; scoring enriches it into a ScoredCandidate.
type Candidate struct {
	// ID uniquely identifies the candidate within the dataset.
	ID string `json:"id" validate:"required"`

	// Name is the candidate's display name.
	Name string `json:"name" validate:"required"`

	// Email is the primary contact address.
	Email string `json:"email"`

	// Phone is an optional secondary contact.
	Phone string `json:"phone,omitempty"`

	// YearsExperience is the total professional experience in whole years.
	YearsExperience int `json:"yearsExperience" validate:"min=0"`

	// Bio is the candidate's free-text self description.
	Bio string `json:"bio"`

	// Location is a free-form location string, e.g. "Berlin, DE (remote)".
	Location string `json:"location"`

	// Skills lists declared skill names. Optional.
	Skills []string `json:"skills,omitempty"`

	// Education lists degree entries. Optional.
	Education []EducationEntry `json:"education,omitempty"`

	// WorkHistory lists prior roles. Optional.
	WorkHistory []WorkEntry `json:"workHistory,omitempty"`

	// ScreeningAnswers holds screening Q&A pairs collected at application time.
	ScreeningAnswers []ScreeningAnswer `json:"screeningAnswers,omitempty"`

	// Availability is one of the Availability* constants, or empty if unknown.
	Availability string `json:"availability,omitempty"`
}

// ScoredCandidate is a Candidate enriched with the outcome of an LLM scoring
// pass. It is created only by merging a validated model response item with its
// originating candidate, matched by ID.
type ScoredCandidate struct {
	Candidate

	// Score is the overall match score in [0, 100].
	Score int `json:"score"`

	// Highlights are short strengths the model called out. Always non-empty.
	Highlights []string `json:"highlights"`

	// Reasoning explains the score in at least a sentence.
	Reasoning string `json:"reasoning"`

	// MatchedSkills are skill names the model matched against the job,
	// reconciled against the candidate's declared skills.
	MatchedSkills []string `json:"matchedSkills"`

	// ScoredAt records when the scoring response was merged.
	ScoredAt time.Time `json:"scoredAt"`
}

// JobDescription is a free-text job description validated for length bounds
// before any scoring attempt.
type JobDescription string

// Job description length bounds, enforced by Validate.
const (
	MinJobDescriptionLen = 10
	MaxJobDescriptionLen = 200
)

// Validate checks the job description length bounds.
// It returns a *ValidationFailure so callers surface it with a 400-class code.
func (j JobDescription) Validate() error {
	n := len(j)
	if n < MinJobDescriptionLen || n > MaxJobDescriptionLen {
		return &ValidationFailure{
			Field:   "jobDescription",
			Message: fmt.Sprintf("length must be %d-%d characters, got %d", MinJobDescriptionLen, MaxJobDescriptionLen, n),
		}
	}
	return nil
}
