package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its status and user message. Validation details
// are passed through; for server errors the raw message becomes the detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := cerrors.HTTPStatus(err)
	resp := errorResponse{Error: cerrors.UserMessage(err), Details: cerrors.Details(err)}
	if len(resp.Details) == 0 && status >= http.StatusInternalServerError && resp.Error != err.Error() {
		resp.Details = []string{err.Error()}
	}

	evt := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		evt = s.logger.Error()
	}
	evt.Err(err).
		Str("request_id", RequestID(r.Context())).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")

	writeJSON(w, status, resp)
}

// decode reads a JSON body into v. The body is capped at MaxBodyBytes and
// must arrive within BodyTimeout; a slow body fails with ErrRequestTimeout.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	if s.cfg.BodyTimeout > 0 {
		// Recorders and some wrappers cannot set deadlines; the server-wide
		// read timeout still applies to them.
		_ = http.NewResponseController(w).SetReadDeadline(time.Now().Add(s.cfg.BodyTimeout))
		defer func() { _ = http.NewResponseController(w).SetReadDeadline(time.Time{}) }()
	}
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}

	err := json.NewDecoder(r.Body).Decode(v)
	var maxErr *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		return fmt.Errorf("reading request body: %w", errors.Join(cerrors.ErrRequestTimeout, err))
	case errors.As(err, &maxErr):
		return cerrors.NewValidationError(cerrors.ErrInvalidRequestBody,
			[]string{fmt.Sprintf("body exceeds %d bytes", maxErr.Limit)})
	case errors.Is(err, io.EOF):
		return cerrors.NewValidationError(cerrors.ErrInvalidRequestBody, []string{"request body is empty"})
	default:
		return cerrors.NewValidationError(cerrors.ErrInvalidRequestBody, []string{err.Error()})
	}
}
