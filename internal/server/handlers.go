package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/talentrank/talentrank/internal/domain"
	"github.com/talentrank/talentrank/internal/scoring"
)

// maxScoreRequestBytes bounds the scoring request body.
const maxScoreRequestBytes = 1 << 20

// scoreRequest is the JSON body accepted by POST /api/score.
type scoreRequest struct {
	JobDescription string                 `json:"jobDescription"`
	Weights        *domain.ScoringWeights `json:"weights,omitempty"`
	MaxResults     int                    `json:"maxResults,omitempty"`
}

// scoreResponse is the success body of POST /api/score.
type scoreResponse struct {
	Candidates []domain.ScoredCandidate `json:"candidates"`
	Considered int                      `json:"considered"`
	Model      string                   `json:"model"`
	ElapsedMs  int64                    `json:"elapsedMs"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScoreRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, &domain.ValidationFailure{
			Field:   "body",
			Message: "request body must be valid JSON: " + err.Error(),
		})
		return
	}

	result, serr := s.scorer.Score(r.Context(), scoring.Request{
		JobDescription: req.JobDescription,
		Weights:        req.Weights,
		MaxResults:     req.MaxResults,
	})
	if serr != nil {
		s.writeError(w, r, serr)
		return
	}

	s.writeJSON(w, http.StatusOK, scoreResponse{
		Candidates: result.Candidates,
		Considered: result.Considered,
		Model:      result.Model,
		ElapsedMs:  result.Elapsed.Milliseconds(),
	})
}

// healthzProbeTimeout bounds the minimal generation call the health check
// issues against the configured provider.
const healthzProbeTimeout = 10 * time.Second

// healthzResponse reports liveness plus basic readiness facts.
type healthzResponse struct {
	Status     string `json:"status"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Candidates int    `json:"candidates"`
	LLM        string `json:"llm"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := healthzResponse{
		Status:   "ok",
		Provider: s.provider,
		Model:    s.llm.GetModel(),
		LLM:      "ok",
	}

	size, err := s.source.Size(r.Context())
	if err != nil {
		resp.Status = "degraded"
		s.writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Candidates = size

	ctx, cancel := context.WithTimeout(r.Context(), healthzProbeTimeout)
	defer cancel()
	if _, err := s.llm.Complete(ctx, "Reply with the single word OK.", map[string]any{"max_tokens": 8}); err != nil {
		s.logger.Warn("health probe generation failed", zap.Error(err))
		resp.Status = "degraded"
		resp.LLM = "unreachable"
		s.writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, serr domain.ScoringError) {
	kind := serr.ScoringKind()
	status := statusForKind(kind)

	if rl, ok := serr.(*domain.RateLimited); ok && rl.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(rl.RetryAfter/time.Second)))
	}

	s.logger.Warn("request failed",
		zap.String("request_id", requestIDFrom(r.Context())),
		zap.String("kind", string(kind)),
		zap.Int("status", status),
		zap.String("error", serr.Error()))

	s.writeJSON(w, status, errorResponse{Error: errorBody{
		Kind:    string(kind),
		Message: serr.Error(),
	}})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response failed", zap.Error(err))
	}
}
