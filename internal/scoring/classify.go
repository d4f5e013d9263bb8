// Package scoring implements the candidate scoring orchestration core:
// prompt construction, response shape validation, retry/backoff, the
// structured-to-constrained strategy fallback, wave-based batch scheduling,
// and result aggregation.
package scoring

import (
	"errors"

	"github.com/talentrank/talentrank/infrastructure/llm"
	"github.com/talentrank/talentrank/internal/domain"
)

// Classify folds an arbitrary pipeline error into the closed six-kind
// scoring taxonomy. Provider errors are mapped by their classified type;
// errors already carrying a ScoringError pass through unchanged; everything
// else becomes an UnknownFailure.
func Classify(err error) domain.ScoringError {
	if err == nil {
		return nil
	}

	if serr, ok := domain.AsScoringError(err); ok {
		return serr
	}

	var perr *llm.ProviderError
	if errors.As(err, &perr) {
		switch perr.Type {
		case llm.ErrorTypeRateLimit:
			return &domain.RateLimited{RetryAfter: perr.RetryAfter, Err: err}
		case llm.ErrorTypeQuota:
			return &domain.QuotaExceeded{Err: err}
		case llm.ErrorTypeNetwork, llm.ErrorTypeTimeout, llm.ErrorTypeServerError:
			return &domain.NetworkFailure{Message: perr.Message, Code: perr.StatusCode, Err: err}
		case llm.ErrorTypeAuthentication, llm.ErrorTypeBadRequest, llm.ErrorTypeContentPolicy, llm.ErrorTypeNotFound:
			return &domain.ValidationFailure{Field: "request", Message: perr.Message}
		}
	}

	return &domain.UnknownFailure{Message: err.Error(), Err: err}
}
