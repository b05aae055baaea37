package webhook

import (
	"github.com/marcelsud/whatsapp-relay/eventlog"
	"github.com/stretchr/testify/mock"
)

// MatchAttempt creates a custom matcher for webhook attempt arguments in mocks
func MatchAttempt(matcher func(eventlog.WebhookAttempt) bool) interface{} {
	return mock.MatchedBy(matcher)
}
