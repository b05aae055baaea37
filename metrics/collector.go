package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/whatsapp-relay/eventlog"
	"github.com/marcelsud/whatsapp-relay/session"
)

// StatsSource provides audit log totals
type StatsSource interface {
	Stats(ctx context.Context) (eventlog.Counts, error)
}

// SessionSource provides the connection state
type SessionSource interface {
	Status() session.Snapshot
}

// RelayCollector reads metrics from the audit log and the session state
type RelayCollector struct {
	stats   StatsSource
	session SessionSource
}

func NewRelayCollector(stats StatsSource, sess SessionSource) *RelayCollector {
	return &RelayCollector{
		stats:   stats,
		session: sess,
	}
}

func (c *RelayCollector) Collect(ctx context.Context) (Metrics, error) {
	counts, err := c.stats.Stats(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting log stats: %w", err)
	}
	return Metrics{
		MessagesSent:     counts.MessagesSent,
		MessagesReceived: counts.MessagesReceived,
		MediaFiles:       counts.MediaFiles,
		WebhookEvents:    counts.WebhookEvents,
		Session:          c.session.Status().Status.String(),
		Timestamp:        time.Now(),
	}, nil
}
