package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/whatsapp-relay/event"
	"github.com/marcelsud/whatsapp-relay/eventlog"
	"github.com/marcelsud/whatsapp-relay/internal/apperr"
	"github.com/marcelsud/whatsapp-relay/webhook/signature"
	"github.com/rs/zerolog"
)

const (
	// DeliveryTimeout bounds a single POST, including reading the response
	DeliveryTimeout = 10 * time.Second

	UserAgent = "WhatsApp-Webhook/1.0"

	SourceSession  = "whatsapp-server"
	SourceExternal = "external"

	// maxResponseBytes caps how much of a response body is kept in the log
	maxResponseBytes = 64 << 10
)

// AttemptLogger persists delivery attempts
type AttemptLogger interface {
	AppendWebhookAttempt(ctx context.Context, attempt eventlog.WebhookAttempt) (string, error)
}

// Recorder observes delivery outcomes
type Recorder interface {
	RecordDelivery(ctx context.Context, status int, elapsed time.Duration)
}

// Deliverer is what the bridge and the admin API need from a dispatcher
type Deliverer interface {
	Deliver(ev event.Event)
	Attempt(ev event.Event) (eventlog.WebhookAttempt, bool)
	Go(ev event.Event)
}

/* Dispatcher performs one best-effort POST per event
 * There are no retries. Every attempt, successful or not, is written to the
 * attempt log. Deliver never reports an error to its caller.
 */
type Dispatcher struct {
	Registry   Registry
	Attempts   AttemptLogger
	DefaultURL string
	Secret     signature.Secret
	Recorder   Recorder
	Logger     zerolog.Logger
	Client     *http.Client

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher. defaultURL may be empty.
func NewDispatcher(registry Registry, attempts AttemptLogger, defaultURL string, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		Registry:   registry,
		Attempts:   attempts,
		DefaultURL: defaultURL,
		Logger:     logger,
		Client:     &http.Client{Timeout: DeliveryTimeout},
	}
}

// Deliver sends ev to the active destination and records the attempt
func (d *Dispatcher) Deliver(ev event.Event) {
	d.Attempt(ev)
}

// Go runs Deliver in a tracked goroutine
func (d *Dispatcher) Go(ev event.Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.Deliver(ev)
	}()
}

// Wait blocks until every delivery started with Go has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Attempt is Deliver returning the recorded attempt. The boolean is false
// when no destination is configured, in which case nothing was sent.
func (d *Dispatcher) Attempt(ev event.Event) (eventlog.WebhookAttempt, bool) {
	ctx := context.Background()

	endpoint, ok := d.resolve(ctx)
	if !ok {
		return eventlog.WebhookAttempt{}, false
	}

	attempt := eventlog.WebhookAttempt{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Method:    http.MethodPost,
		Endpoint:  endpoint,
		Source:    SourceFor(ev),
	}

	body, err := ev.Payload()
	if err != nil {
		attempt.Status = eventlog.TransportFailureStatus
		attempt.Payload = json.RawMessage("null")
		attempt.Response = errorBody(err)
		d.Logger.Error().Err(err).Str("event_id", ev.ID).Msg("serializing webhook payload")
	} else {
		attempt.Payload = body
		start := time.Now()
		attempt.Status, attempt.Response, err = d.post(ctx, endpoint, ev.ID, body)
		if d.Recorder != nil {
			d.Recorder.RecordDelivery(ctx, attempt.Status, time.Since(start))
		}
		if err != nil {
			d.Logger.Warn().Err(err).Str("event_id", ev.ID).Str("kind", ev.Kind.String()).Msg("webhook delivery failed")
		} else {
			d.Logger.Info().Str("event_id", ev.ID).Int("status", attempt.Status).Msg("webhook delivered")
		}
	}

	id, err := d.Attempts.AppendWebhookAttempt(ctx, attempt)
	if err != nil {
		d.Logger.Error().Err(err).Str("endpoint", endpoint).Msg("recording webhook attempt")
	} else {
		attempt.ID = id
	}
	return attempt, true
}

// SourceFor returns the attempt source tag for ev
func SourceFor(ev event.Event) string {
	if ev.Kind == event.ExternalEvent {
		return SourceExternal
	}
	return SourceSession
}

func (d *Dispatcher) resolve(ctx context.Context) (string, bool) {
	if d.Registry != nil {
		dest, ok, err := d.Registry.Active(ctx)
		if err != nil {
			d.Logger.Error().Err(err).Msg("reading webhook destination, using default")
		}
		if ok && dest.URL != "" {
			return dest.URL, true
		}
	}
	return d.DefaultURL, d.DefaultURL != ""
}

// post performs the request. A non-nil error means either no response was
// received (status is the transport failure sentinel) or a non-2xx status.
func (d *Dispatcher) post(ctx context.Context, endpoint, eventID string, body []byte) (int, json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, DeliveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return eventlog.TransportFailureStatus, errorBody(err), &apperr.DeliveryError{URL: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if !d.Secret.IsZero() {
		if err := signature.SetHeaders(req.Header, d.Secret, "msg_"+eventID, time.Now(), body); err != nil {
			return eventlog.TransportFailureStatus, errorBody(err), &apperr.DeliveryError{URL: endpoint, Err: err}
		}
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return eventlog.TransportFailureStatus, errorBody(err), &apperr.DeliveryError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, errorBody(fmt.Errorf("reading response: %w", err)), &apperr.DeliveryError{URL: endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, responseBody(raw), &apperr.DeliveryError{URL: endpoint, StatusCode: resp.StatusCode}
	}
	return resp.StatusCode, responseBody(raw), nil
}

// responseBody keeps JSON responses as-is and stores anything else as a
// JSON string
func responseBody(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	s, _ := json.Marshal(string(raw))
	return s
}

func errorBody(err error) json.RawMessage {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return b
}
