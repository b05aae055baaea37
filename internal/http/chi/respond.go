package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/marcelsud/whatsapp-relay/internal/apperr"
)

/* envelope is the body of every API response
 * success is always present. data, error and message only when set.
 */
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func respond(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, data any) {
	respond(w, http.StatusOK, envelope{Success: true, Data: data})
}

func done(w http.ResponseWriter, message string) {
	respond(w, http.StatusOK, envelope{Success: true, Message: message})
}

func fail(w http.ResponseWriter, status int, msg string) {
	respond(w, status, envelope{Success: false, Error: msg})
}

// failWith maps the error taxonomy to a status code
func failWith(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(w, http.StatusBadRequest, ve.Reason)
	case errors.Is(err, apperr.ErrNotConnected):
		fail(w, http.StatusBadRequest, err.Error())
	default:
		fail(w, http.StatusInternalServerError, err.Error())
	}
}

// isoTime renders t like the dashboard expects: UTC with milliseconds
func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func isoTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := isoTime(*t)
	return &s
}
