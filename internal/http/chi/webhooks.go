package chi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/marcelsud/whatsapp-relay/event"
	"github.com/marcelsud/whatsapp-relay/webhook"
)

// maxEventBody caps the body accepted on the inbound event endpoint
const maxEventBody = 1 << 20

type webhookInfoResponse struct {
	Endpoint string `json:"endpoint"`
	Status   string `json:"status"`
}

type configureRequest struct {
	WebhookURL string `json:"webhookUrl"`
}

type testResponse struct {
	Endpoint string `json:"endpoint"`
	Status   int    `json:"status"`
	Success  bool   `json:"success"`
}

/* externalRequest is the body of POST /webhook/whatsapp
 * event names the event; data is forwarded untouched. A body without an
 * event field is forwarded whole under DefaultExternalEvent.
 */
type externalRequest struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// DefaultExternalEvent names inbound events that do not carry a name
const DefaultExternalEvent = "whatsapp.webhook"

type externalResponse struct {
	EventID string `json:"eventId"`
}

// getWebhookInfo handles GET /api/webhook/info
func getWebhookInfo(registry webhook.Registry, defaultURL string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dest, found, err := registry.Active(r.Context())
		if err != nil {
			failWith(w, err)
			return
		}
		info := webhookInfoResponse{Endpoint: defaultURL, Status: "inactive"}
		if found {
			info.Endpoint = dest.URL
		}
		if info.Endpoint != "" {
			info.Status = "active"
		}
		ok(w, info)
	})
}

// postConfigure handles POST /api/webhook/configure
func postConfigure(registry webhook.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req configureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := registry.Configure(r.Context(), req.WebhookURL); err != nil {
			failWith(w, err)
			return
		}
		done(w, "Webhook configured successfully")
	})
}

// postTest handles POST /api/webhook/test. The delivery runs before the
// response is written so the caller sees its outcome.
func postTest(dispatcher webhook.Deliverer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempt, sent := dispatcher.Attempt(event.NewWebhookTest())
		if !sent {
			done(w, "No webhook destination configured")
			return
		}
		respond(w, http.StatusOK, envelope{
			Success: true,
			Message: "Test webhook sent",
			Data: testResponse{
				Endpoint: attempt.Endpoint,
				Status:   attempt.Status,
				Success:  attempt.Succeeded(),
			},
		})
	})
}

// postExternalEvent handles POST /webhook/whatsapp
func postExternalEvent(dispatcher webhook.Deliverer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
		if err != nil {
			fail(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		defer r.Body.Close()

		var req externalRequest
		if err := json.Unmarshal(body, &req); err != nil {
			fail(w, http.StatusBadRequest, "request body must be a JSON object")
			return
		}
		name, data := req.Event, []byte(req.Data)
		if name == "" {
			name, data = DefaultExternalEvent, body
		}

		ev, err := event.NewExternal(name, data)
		if err != nil {
			fail(w, http.StatusBadRequest, err.Error())
			return
		}
		dispatcher.Go(ev)

		respond(w, http.StatusAccepted, envelope{Success: true, Data: externalResponse{EventID: ev.ID}})
	})
}
