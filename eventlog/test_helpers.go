package eventlog

import "github.com/stretchr/testify/mock"

// MatchMessageLog creates a custom matcher for message log arguments in mocks
func MatchMessageLog(matcher func(MessageLog) bool) interface{} {
	return mock.MatchedBy(matcher)
}

// MatchWebhookAttempt creates a custom matcher for attempt arguments in mocks
func MatchWebhookAttempt(matcher func(WebhookAttempt) bool) interface{} {
	return mock.MatchedBy(matcher)
}
