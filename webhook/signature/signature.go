// Package signature signs and verifies webhook bodies with the Standard
// Webhooks symmetric scheme (HMAC-SHA256 over "id.timestamp.body").
package signature

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	SecretPrefix = "whsec_"
	Version      = "v1"

	HeaderID        = "webhook-id"
	HeaderTimestamp = "webhook-timestamp"
	HeaderSignature = "webhook-signature"

	// MinSecretBytes and MaxSecretBytes bound the decoded key (192 to 512 bits)
	MinSecretBytes = 24
	MaxSecretBytes = 64

	// DefaultTolerance is the accepted clock skew when verifying
	DefaultTolerance = 5 * time.Minute
)

var (
	ErrMissingHeaders   = errors.New("missing webhook signature headers")
	ErrInvalidSignature = errors.New("no matching webhook signature")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
)

// Secret is a decoded signing key
type Secret struct {
	key     []byte
	encoded string
}

// GenerateSecret returns a random secret of size bytes
func GenerateSecret(size int) (Secret, error) {
	if size < MinSecretBytes || size > MaxSecretBytes {
		return Secret{}, fmt.Errorf("secret size must be between %d and %d bytes", MinSecretBytes, MaxSecretBytes)
	}
	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return Secret{}, fmt.Errorf("generating random bytes: %w", err)
	}
	return Secret{key: key, encoded: SecretPrefix + base64.StdEncoding.EncodeToString(key)}, nil
}

// ParseSecret decodes a "whsec_<base64>" secret
func ParseSecret(encoded string) (Secret, error) {
	b64, ok := strings.CutPrefix(encoded, SecretPrefix)
	if !ok {
		return Secret{}, fmt.Errorf("secret must start with %s prefix", SecretPrefix)
	}
	key, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return Secret{}, fmt.Errorf("decoding base64 secret: %w", err)
	}
	if len(key) < MinSecretBytes || len(key) > MaxSecretBytes {
		return Secret{}, fmt.Errorf("secret size must be between %d and %d bytes", MinSecretBytes, MaxSecretBytes)
	}
	return Secret{key: key, encoded: encoded}, nil
}

func (s Secret) String() string {
	return s.encoded
}

// IsZero reports whether the secret was never set
func (s Secret) IsZero() bool {
	return len(s.key) == 0
}

// Sign returns the "v1,<base64>" signature for one message
func Sign(secret Secret, msgID string, ts time.Time, body []byte) (string, error) {
	if strings.Contains(msgID, ".") {
		return "", fmt.Errorf("message id must not contain '.'")
	}
	return Version + "," + base64.StdEncoding.EncodeToString(mac(secret, msgID, ts.Unix(), body)), nil
}

// SetHeaders signs body and sets the three signature headers on h
func SetHeaders(h http.Header, secret Secret, msgID string, ts time.Time, body []byte) error {
	sig, err := Sign(secret, msgID, ts, body)
	if err != nil {
		return err
	}
	h.Set(HeaderID, msgID)
	h.Set(HeaderTimestamp, strconv.FormatInt(ts.Unix(), 10))
	h.Set(HeaderSignature, sig)
	return nil
}

// VerifyHeaders is the receiver side of SetHeaders, for webhook consumers
// checking relay deliveries. The signature header may carry several space
// separated values.
func VerifyHeaders(h http.Header, secret Secret, body []byte, now time.Time, tolerance time.Duration) error {
	msgID := h.Get(HeaderID)
	rawTS := h.Get(HeaderTimestamp)
	rawSig := h.Get(HeaderSignature)
	if msgID == "" || rawTS == "" || rawSig == "" {
		return ErrMissingHeaders
	}

	unix, err := strconv.ParseInt(rawTS, 10, 64)
	if err != nil {
		return fmt.Errorf("parsing webhook timestamp: %w", err)
	}
	if d := now.Sub(time.Unix(unix, 0)); d > tolerance || d < -tolerance {
		return ErrStaleTimestamp
	}

	expected := mac(secret, msgID, unix, body)
	for _, candidate := range strings.Fields(rawSig) {
		version, encoded, ok := strings.Cut(candidate, ",")
		if !ok || version != Version {
			continue
		}
		got, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, got) {
			return nil
		}
	}
	return ErrInvalidSignature
}

func mac(secret Secret, msgID string, unix int64, body []byte) []byte {
	h := hmac.New(sha256.New, secret.key)
	fmt.Fprintf(h, "%s.%d.", msgID, unix)
	h.Write(body)
	return h.Sum(nil)
}
