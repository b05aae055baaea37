// Package media names and stores message attachments.
package media

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Store persists attachment bytes and returns where they ended up. The
// location is what gets recorded as the media path of a log entry.
type Store interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Major returns the type part of a MIME type ("image" for "image/jpeg")
func Major(mimeType string) string {
	major, _, _ := strings.Cut(essence(mimeType), "/")
	return major
}

// Subtype returns the subtype part of a MIME type without parameters
// ("ogg" for "audio/ogg; codecs=opus")
func Subtype(mimeType string) string {
	_, sub, ok := strings.Cut(essence(mimeType), "/")
	sub = unsafeChars.ReplaceAllString(sub, "_")
	if !ok || sub == "" {
		return "bin"
	}
	return sub
}

func essence(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// Namer hands out names for received attachments
type Namer struct {
	counter atomic.Uint64
}

// Received returns "received-<unix ms>-<counter>.<subtype>"
func (n *Namer) Received(now time.Time, mimeType string) string {
	return fmt.Sprintf("received-%d-%d.%s", now.UnixMilli(), n.counter.Add(1), Subtype(mimeType))
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 8
)

// Upload returns "<unix ms>-<random>-<original base name>" for files sent
// through the admin API
func Upload(now time.Time, original string) (string, error) {
	id, err := nanoid.Generate(idAlphabet, idLength)
	if err != nil {
		return "", fmt.Errorf("generating upload id: %w", err)
	}
	base := unsafeChars.ReplaceAllString(filepath.Base(original), "_")
	if base == "" || base == "." || base == "_" {
		base = "file"
	}
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), id, base), nil
}
