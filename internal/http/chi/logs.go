package chi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/marcelsud/whatsapp-relay/eventlog"
)

/* Log rows keep the column names of the tables they come from, which is
 * what the dashboard renders.
 */

type messageLogResponse struct {
	ID          string  `json:"id"`
	Timestamp   string  `json:"timestamp"`
	Type        string  `json:"type"`
	PhoneNumber string  `json:"phone_number"`
	Content     string  `json:"content"`
	Status      string  `json:"status"`
	MediaType   *string `json:"media_type"`
	MediaPath   *string `json:"media_path"`
}

type webhookLogResponse struct {
	ID        string          `json:"id"`
	Timestamp string          `json:"timestamp"`
	Method    string          `json:"method"`
	Endpoint  string          `json:"endpoint"`
	Status    int             `json:"status"`
	Source    string          `json:"source"`
	Payload   json.RawMessage `json:"payload"`
	Response  json.RawMessage `json:"response"`
}

type statsResponse struct {
	MessagesSent     int64   `json:"messagesSent"`
	MessagesReceived int64   `json:"messagesReceived"`
	MediaFilesSent   int64   `json:"mediaFilesSent"`
	WebhookEvents    int64   `json:"webhookEvents"`
	Uptime           float64 `json:"uptime"`
	LastActivity     *string `json:"lastActivity"`
}

// page reads limit and offset, anything unparsable falls back to the defaults
func page(r *http.Request) eventlog.Page {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return eventlog.Page{Limit: limit, Offset: offset}.Normalize()
}

// getMessageLogs handles GET /api/messages/logs
func getMessageLogs(logs eventlog.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := logs.ListMessageLogs(r.Context(), page(r))
		if err != nil {
			failWith(w, err)
			return
		}
		result := make([]messageLogResponse, 0, len(all))
		for _, m := range all {
			result = append(result, messageLogResponse{
				ID:          m.ID,
				Timestamp:   isoTime(m.Timestamp),
				Type:        m.Direction.String(),
				PhoneNumber: m.PhoneNumber,
				Content:     m.Content,
				Status:      m.Status.String(),
				MediaType:   m.MediaType,
				MediaPath:   m.MediaPath,
			})
		}
		ok(w, result)
	})
}

// deleteMessageLogs handles DELETE /api/messages/logs
func deleteMessageLogs(logs eventlog.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := logs.ClearMessageLogs(r.Context()); err != nil {
			failWith(w, err)
			return
		}
		done(w, "Message logs cleared")
	})
}

// getWebhookLogs handles GET /api/webhook/logs
func getWebhookLogs(logs eventlog.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := logs.ListWebhookAttempts(r.Context(), page(r))
		if err != nil {
			failWith(w, err)
			return
		}
		result := make([]webhookLogResponse, 0, len(all))
		for _, a := range all {
			result = append(result, webhookLogResponse{
				ID:        a.ID,
				Timestamp: isoTime(a.Timestamp),
				Method:    a.Method,
				Endpoint:  a.Endpoint,
				Status:    a.Status,
				Source:    a.Source,
				Payload:   rawOrNull(a.Payload),
				Response:  rawOrNull(a.Response),
			})
		}
		ok(w, result)
	})
}

// deleteWebhookLogs handles DELETE /api/webhook/logs
func deleteWebhookLogs(logs eventlog.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := logs.ClearWebhookAttempts(r.Context()); err != nil {
			failWith(w, err)
			return
		}
		done(w, "Webhook logs cleared")
	})
}

// getStats handles GET /api/dashboard/stats
func getStats(logs eventlog.UseCase, started time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counts, err := logs.Stats(r.Context())
		if err != nil {
			failWith(w, err)
			return
		}
		ok(w, statsResponse{
			MessagesSent:     counts.MessagesSent,
			MessagesReceived: counts.MessagesReceived,
			MediaFilesSent:   counts.MediaFiles,
			WebhookEvents:    counts.WebhookEvents,
			Uptime:           time.Since(started).Seconds(),
			LastActivity:     isoTimePtr(counts.LastActivity),
		})
	})
}

func rawOrNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
