// Package response writes the JSON envelope shared by every endpoint:
// {"status": "success"|"failed", "message": ..., "data"|"error": ...}.
package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/yusufkecer/nyenyak-backend/internal/apperr"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func Success(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

func Fail(w http.ResponseWriter, status int, message, code string) {
	JSON(w, status, Envelope{Status: StatusFailed, Message: message, Error: code})
}

// Error maps err onto its HTTP status. Downstream causes are logged and
// never sent to the client.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	e := apperr.As(err)
	status := e.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.Error(e.Message, zap.String("code", e.Code), zap.Error(e.Err))
	}
	Fail(w, status, e.Message, e.Code)
}
