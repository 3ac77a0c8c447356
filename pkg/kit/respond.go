package kit

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteJSON encodes v before touching w, so an unencodable value turns into a
// logged 500 instead of a success status with an empty body.
// Failures go to the global zap logger.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("encode response failed", zap.Error(err), zap.Int("status", status))
		status = http.StatusInternalServerError
		b, _ = json.Marshal(ErrorResponse{Error: "server error"})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(append(b, '\n')); err != nil {
		zap.L().Debug("write response failed", zap.Error(err))
	}
}

// WriteError writes {error, details, request_id}. The request id comes from chi's RequestID middleware.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string, details any) {
	WriteJSON(w, status, ErrorResponse{
		Error:     msg,
		Details:   details,
		RequestID: chimw.GetReqID(r.Context()),
	})
}
