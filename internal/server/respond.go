package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/raphaelgruber/docshelf/internal/service"
)

// decodeJSON reads a JSON request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

var errBadRequest = errors.New("bad request")

func errorBody(detail string) map[string]string {
	return map[string]string{"detail": detail}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service sentinels onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrEmptyQuestion):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrDuplicateJobID):
		status = http.StatusConflict
	case errors.Is(err, service.ErrFolderNotFound),
		errors.Is(err, service.ErrJobNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrProtectedName):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody(err.Error()))
}
