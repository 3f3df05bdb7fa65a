package response

import (
	"encoding/json"
	"net/http"

	"github.com/diagnosis/taipei-trip/internal/domain"
	"github.com/diagnosis/taipei-trip/pkg/logger"
)

// ErrorResponse is the one error shape every endpoint returns.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// Data wraps v in the {"data": ...} envelope. A nil pointer renders as
// {"data": null}, which several endpoints use as a valid empty state.
func Data(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, map[string]interface{}{"data": v})
}

func OK(w http.ResponseWriter) {
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func Fail(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, ErrorResponse{Error: true, Message: message})
}

// Err maps a domain error to its transport status. Internal and upstream
// causes are logged in full here; the client only sees the safe message.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal || kind == domain.KindUpstream {
		logger.ErrorContext(r.Context(), "request failed", "kind", kind.String(), "error", err)
	}
	Fail(w, statusOf(kind), domain.MessageOf(err))
}

func statusOf(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation, domain.KindNotFound, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindUnauthenticated, domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
