package eventlog

import "fmt"

/* DeliveryStatus is the advisory delivery state of a logged message
 * Sent messages are logged as Delivered once the client accepted them and
 * received messages are always Delivered. Pending and Failed exist for
 * adapters able to report acknowledgements.
 */
type DeliveryStatus int

const (
	Delivered DeliveryStatus = iota + 1
	Pending
	Failed
)

// String returns the string representation of the status
func (s DeliveryStatus) String() string {
	switch s {
	case Delivered:
		return "delivered"
	case Pending:
		return "pending"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// NewDeliveryStatus creates a DeliveryStatus from a string
func NewDeliveryStatus(str string) DeliveryStatus {
	switch str {
	case "delivered":
		return Delivered
	case "pending":
		return Pending
	case "failed":
		return Failed
	default:
		return 0
	}
}

// Validate checks if the status is valid
func (s DeliveryStatus) Validate() error {
	if s < Delivered || s > Failed {
		return fmt.Errorf("invalid delivery status: %d", s)
	}
	return nil
}
