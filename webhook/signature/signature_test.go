package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSecret(t *testing.T) Secret {
	t.Helper()
	s, err := GenerateSecret(32)
	require.NoError(t, err)
	return s
}

func TestGenerateSecret(t *testing.T) {
	t.Run("round trips through ParseSecret", func(t *testing.T) {
		s := mustSecret(t)
		assert.True(t, strings.HasPrefix(s.String(), SecretPrefix))

		parsed, err := ParseSecret(s.String())
		require.NoError(t, err)
		assert.Equal(t, s.key, parsed.key)
	})

	t.Run("size bounds", func(t *testing.T) {
		_, err := GenerateSecret(MinSecretBytes - 1)
		assert.Error(t, err)
		_, err = GenerateSecret(MaxSecretBytes + 1)
		assert.Error(t, err)
	})

	t.Run("random", func(t *testing.T) {
		assert.NotEqual(t, mustSecret(t).String(), mustSecret(t).String())
	})
}

func TestParseSecret(t *testing.T) {
	_, err := ParseSecret("dGVzdA==")
	assert.ErrorContains(t, err, "must start with")

	_, err = ParseSecret(SecretPrefix + "!!!")
	assert.ErrorContains(t, err, "decoding base64")

	_, err = ParseSecret(SecretPrefix + base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorContains(t, err, "secret size")

	assert.True(t, Secret{}.IsZero())
}

func TestSign(t *testing.T) {
	s := mustSecret(t)
	ts := time.Unix(1700000000, 0)
	body := []byte(`{"type":"webhook_test"}`)

	sig, err := Sign(s, "msg_1", ts, body)
	require.NoError(t, err)

	h := hmac.New(sha256.New, s.key)
	h.Write([]byte("msg_1.1700000000." + string(body)))
	assert.Equal(t, "v1,"+base64.StdEncoding.EncodeToString(h.Sum(nil)), sig)

	_, err = Sign(s, "bad.id", ts, body)
	assert.Error(t, err)
}

func TestVerifyHeaders(t *testing.T) {
	s := mustSecret(t)
	now := time.Unix(1700000000, 0)
	body := []byte(`{"event":"order.paid"}`)

	signed := func(t *testing.T) http.Header {
		h := http.Header{}
		require.NoError(t, SetHeaders(h, s, "msg_1", now, body))
		return h
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, VerifyHeaders(signed(t), s, body, now, DefaultTolerance))
	})

	t.Run("one of several signatures matches", func(t *testing.T) {
		h := signed(t)
		h.Set(HeaderSignature, "v1,AAAA "+h.Get(HeaderSignature))
		assert.NoError(t, VerifyHeaders(h, s, body, now, DefaultTolerance))
	})

	t.Run("tampered body", func(t *testing.T) {
		err := VerifyHeaders(signed(t), s, []byte(`{}`), now, DefaultTolerance)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("other secret", func(t *testing.T) {
		err := VerifyHeaders(signed(t), mustSecret(t), body, now, DefaultTolerance)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("stale", func(t *testing.T) {
		err := VerifyHeaders(signed(t), s, body, now.Add(time.Hour), DefaultTolerance)
		assert.ErrorIs(t, err, ErrStaleTimestamp)
	})

	t.Run("missing headers", func(t *testing.T) {
		err := VerifyHeaders(http.Header{}, s, body, now, DefaultTolerance)
		assert.ErrorIs(t, err, ErrMissingHeaders)
	})
}
