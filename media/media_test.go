package media_test

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/marcelsud/whatsapp-relay/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMimeParts(t *testing.T) {
	tests := []struct {
		mime, major, sub string
	}{
		{"image/jpeg", "image", "jpeg"},
		{"audio/ogg; codecs=opus", "audio", "ogg"},
		{"Video/MP4", "video", "mp4"},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application", "vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"garbage", "garbage", "bin"},
		{"image/a/b", "image", "a_b"},
		{"image/../../etc", "image", ".._.._etc"},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.major, media.Major(tt.mime))
			assert.Equal(t, tt.sub, media.Subtype(tt.mime))
		})
	}
}

func TestNamerReceived(t *testing.T) {
	var n media.Namer
	now := time.UnixMilli(1700000000123)

	assert.Equal(t, "received-1700000000123-1.jpeg", n.Received(now, "image/jpeg"))
	assert.Equal(t, "received-1700000000123-2.ogg", n.Received(now, "audio/ogg; codecs=opus"))
	assert.Equal(t, "received-1700000000123-3.a_b", n.Received(now, "image/a/b"))

	t.Run("unique under concurrency", func(t *testing.T) {
		var (
			mu   sync.Mutex
			seen = map[string]bool{}
			wg   sync.WaitGroup
		)
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				name := n.Received(now, "image/png")
				mu.Lock()
				defer mu.Unlock()
				assert.False(t, seen[name], name)
				seen[name] = true
			}()
		}
		wg.Wait()
	})
}

func TestUpload(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	name, err := media.Upload(now, "../../etc/my photo.png")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^1700000000123-[a-z0-9]{8}-my_photo\.png$`), name)

	other, err := media.Upload(now, "my photo.png")
	require.NoError(t, err)
	assert.NotEqual(t, name, other)

	empty, err := media.Upload(now, "")
	require.NoError(t, err)
	assert.Regexp(t, `-file$`, empty)
}
