package whatsmeow_test

import (
	"testing"

	wa "github.com/marcelsud/whatsapp-relay/session/whatsmeow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/proto"
)

func TestJID(t *testing.T) {
	tests := []struct {
		chatID string
		want   types.JID
	}{
		{"5511999999999@c.us", types.NewJID("5511999999999", types.DefaultUserServer)},
		{"5511999999999", types.NewJID("5511999999999", types.DefaultUserServer)},
		{"120363025@g.us", types.NewJID("120363025", types.GroupServer)},
		{"5511999999999@s.whatsapp.net", types.NewJID("5511999999999", types.DefaultUserServer)},
	}
	for _, tt := range tests {
		t.Run(tt.chatID, func(t *testing.T) {
			got, err := wa.JID(tt.chatID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChatID(t *testing.T) {
	assert.Equal(t, "5511999999999@c.us", wa.ChatID(types.NewJID("5511999999999", types.DefaultUserServer)))
	assert.Equal(t, "120363025@g.us", wa.ChatID(types.NewJID("120363025", types.GroupServer)))
}

func TestText(t *testing.T) {
	assert.Equal(t, "hi", wa.Text(&waE2E.Message{Conversation: proto.String("hi")}))
	assert.Equal(t, "link", wa.Text(&waE2E.Message{ExtendedTextMessage: &waE2E.ExtendedTextMessage{Text: proto.String("link")}}))
	assert.Equal(t, "look", wa.Text(&waE2E.Message{ImageMessage: &waE2E.ImageMessage{Caption: proto.String("look")}}))
	assert.Equal(t, "", wa.Text(&waE2E.Message{}))
}

func TestMediaKind(t *testing.T) {
	assert.Equal(t, whatsmeow.MediaImage, wa.MediaKind("image/png"))
	assert.Equal(t, whatsmeow.MediaVideo, wa.MediaKind("video/mp4"))
	assert.Equal(t, whatsmeow.MediaAudio, wa.MediaKind("audio/ogg; codecs=opus"))
	assert.Equal(t, whatsmeow.MediaDocument, wa.MediaKind("application/pdf"))
}
