package eventlog

import "fmt"

// Direction tells whether a message left or reached the linked account
type Direction int

const (
	Sent Direction = iota + 1
	Received
)

// String returns the string representation of the direction
func (d Direction) String() string {
	switch d {
	case Sent:
		return "sent"
	case Received:
		return "received"
	default:
		return "unknown"
	}
}

// NewDirection creates a Direction from a string
func NewDirection(str string) Direction {
	switch str {
	case "sent":
		return Sent
	case "received":
		return Received
	default:
		return 0
	}
}

// Validate checks if the direction is valid
func (d Direction) Validate() error {
	if d < Sent || d > Received {
		return fmt.Errorf("invalid direction: %d", d)
	}
	return nil
}
