package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/revisia/revisia-backend/internal/grading"
	"github.com/revisia/revisia-backend/internal/leitner"
	"github.com/revisia/revisia-backend/internal/questionbank"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the scheduler's error taxonomy onto HTTP statuses. Only
// 503 responses are worth retrying.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, leitner.ErrInvalidLevel),
		errors.Is(err, leitner.ErrInvalidCount),
		errors.Is(err, grading.ErrInvalidAnswerFormat):
		status = http.StatusBadRequest
	case errors.Is(err, leitner.ErrSessionNotFound),
		errors.Is(err, leitner.ErrUnknownQuestion),
		errors.Is(err, questionbank.ErrClassroomNotFound),
		errors.Is(err, questionbank.ErrQuestionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, leitner.ErrSessionClosed),
		errors.Is(err, leitner.ErrSessionNotFinished):
		status = http.StatusConflict
	case errors.Is(err, leitner.ErrInsufficientQuestions):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, leitner.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
