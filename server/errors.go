package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
	"github.com/jrsteele09/go-travel-booking/recovery"
)

// ErrorBody is the JSON shape of every failed API call.
type ErrorBody struct {
	Code     string                  `json:"code"`
	Message  string                  `json:"message"`
	Recovery recovery.RecoveryAction `json:"recovery"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
	// Partial carries whatever completed before the failure.
	Partial interface{} `json:"partial,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// writeError classifies err and writes it with the status of its recovery
// action. The raw error is logged but never sent.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorWithPartial(w, r, err, nil)
}

func (s *Server) writeErrorWithPartial(w http.ResponseWriter, r *http.Request, err error, partial interface{}) {
	c := s.classifier.Classify(err)
	status := statusFor(c)

	event := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.Err(err).
		Str("path", r.URL.Path).
		Str("code", c.ErrorCode).
		Str("recovery", string(c.RecoveryAction.Type)).
		Int("status", status).
		Msg("request failed")

	writeJSON(w, status, errorEnvelope{
		Error: ErrorBody{
			Code:     c.ErrorCode,
			Message:  c.UserMessage,
			Recovery: c.RecoveryAction,
		},
		Partial: partial,
	})
}

// statusFor maps a classification to an HTTP status.
func statusFor(c recovery.Classification) int {
	switch c.RecoveryAction.Type {
	case recovery.ActionRestart:
		return http.StatusConflict
	case recovery.ActionNotify:
		if recovery.IsUnavailableCode(c.ErrorCode) {
			return http.StatusNotFound
		}
		if c.ErrorCode == recovery.CodeUnknown {
			return http.StatusInternalServerError
		}
		return http.StatusUnprocessableEntity
	case recovery.ActionPreserve:
		if recovery.IsPaymentCode(c.ErrorCode) {
			return http.StatusPaymentRequired
		}
		return http.StatusBadRequest
	case recovery.ActionRetry:
		return http.StatusServiceUnavailable
	case recovery.ActionFallback:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeJSON reads the request body into v. A malformed body is a
// validation failure.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}
