package session

import (
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

/* Status is the connection state of the messaging client
 * disconnected -> connecting (qr) -> connected (ready) -> disconnected
 */
type Status int

const (
	Disconnected Status = iota + 1
	Connecting
	Connected
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of the connection state
type Snapshot struct {
	Status        Status
	SessionID     string
	LastConnected *time.Time
	QRCode        string
}

/* State is the single owner of connection state
 * Transition methods are the only way to mutate it. Each returns false when
 * the event is not valid in the current state and nothing changed.
 */
type State struct {
	mu            sync.RWMutex
	status        Status
	sessionID     string
	lastConnected *time.Time
	qrCode        string

	// OnChange is called after every applied transition, outside the lock
	OnChange func(Snapshot)
}

func NewState() *State {
	return &State{status: Disconnected}
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *State) snapshot() Snapshot {
	snap := Snapshot{
		Status:    s.status,
		SessionID: s.sessionID,
		QRCode:    s.qrCode,
	}
	if s.lastConnected != nil {
		t := *s.lastConnected
		snap.LastConnected = &t
	}
	return snap
}

// QR stores the rendered code and moves to connecting. A refreshed code
// while already connecting replaces the previous one.
func (s *State) QR(code string) (bool, error) {
	dataURL, err := RenderQR(code)
	if err != nil {
		return false, err
	}
	return s.apply(func() bool {
		if s.status == Connected {
			return false
		}
		s.status = Connecting
		s.qrCode = dataURL
		return true
	}), nil
}

// Ready moves to connected with a new session id. It is accepted from
// disconnected too, for clients that restore a stored session without
// showing a QR code.
func (s *State) Ready(now time.Time) bool {
	return s.apply(func() bool {
		if s.status == Connected {
			return false
		}
		s.status = Connected
		s.sessionID = uuid.New().String()
		t := now.UTC()
		s.lastConnected = &t
		s.qrCode = ""
		return true
	})
}

// Disconnected clears the session and the QR code
func (s *State) Disconnected() bool {
	return s.apply(func() bool {
		if s.status == Disconnected {
			return false
		}
		s.status = Disconnected
		s.sessionID = ""
		s.qrCode = ""
		return true
	})
}

func (s *State) apply(transition func() bool) bool {
	s.mu.Lock()
	changed := transition()
	snap := s.snapshot()
	s.mu.Unlock()

	if changed && s.OnChange != nil {
		s.OnChange(snap)
	}
	return changed
}

// RenderQR encodes code as a PNG data URL
func RenderQR(code string) (string, error) {
	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("rendering qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
