package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Client-facing error messages. Detail for 5xx stays in the logs.
const (
	msgNotFound       = "Not found"
	msgInternal       = "Internal server error"
	msgBodyTooLarge   = "Request body too large"
	msgUnreadableBody = "Invalid JSON"
)

// errorResponse is the body of every JSON error.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes payload as UTF-8 JSON with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		s.logger.Warn("write JSON failed", zap.Error(err))
	}
}

// writeError sends {"error": msg}.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// internalError logs err with request context and sends a generic 500.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error(op+" failed",
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	s.writeError(w, http.StatusInternalServerError, msgInternal)
}
