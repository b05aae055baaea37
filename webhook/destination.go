// Package webhook holds the single outbound destination and delivers
// domain events to it.
package webhook

import (
	"errors"
	"net/url"
	"strings"

	"github.com/marcelsud/whatsapp-relay/internal/apperr"
)

// ErrNotFound is returned by repositories when no destination is stored
var ErrNotFound = errors.New("webhook destination not found")

/* Destination is the URL events are POSTed to
 * At most one destination is active at any time
 */
type Destination struct {
	URL    string
	Active bool
}

// Validate trims rawURL and checks it is an absolute http(s) URL
func Validate(rawURL string) (string, error) {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return "", apperr.Validation("webhookUrl", "Webhook URL is required")
	}
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", apperr.Validation("webhookUrl", "must be an absolute http or https URL")
	}
	return u, nil
}
