package server

import (
	"net/http"

	"github.com/talentrank/talentrank/internal/domain"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusForKind maps the closed error taxonomy onto HTTP status codes.
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindRateLimit:
		return http.StatusTooManyRequests
	case domain.KindParseError:
		return http.StatusBadGateway
	case domain.KindNetworkError:
		return http.StatusServiceUnavailable
	case domain.KindQuotaExceeded:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
