package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-deck-bot/internal/service"
)

var (
	errInvalidBody  = errors.New("invalid request body")
	errMissingUser  = errors.New("missing " + UserHeader + " header")
	errUnauthorized = errors.New("wrong or missing password")
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyAnswered),
		errors.Is(err, service.ErrStaleQuestion),
		errors.Is(err, service.ErrNoQuestions):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidOption),
		errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, errInvalidBody),
		errors.Is(err, errMissingUser):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, status, errors.New("internal server error"))
		return
	}
	writeError(w, status, err)
}
