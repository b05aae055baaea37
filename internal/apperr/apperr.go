package apperr

import (
	"errors"
	"fmt"
)

/* Error taxonomy shared by the relay components
 * Admin operations surface Validation and Persistence errors to the caller.
 * Delivery and MediaFetch errors are terminal where they happen and are only
 * visible through logs and the webhook attempt table.
 */

// ErrNotConnected is returned by outbound operations while the client is not connected
var ErrNotConnected = errors.New("WhatsApp client not connected")

// ValidationError reports bad or missing input to an admin operation
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation creates a ValidationError for the given field
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PersistenceError reports a failed storage operation
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err as a PersistenceError, nil stays nil
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// DeliveryError describes a failed webhook POST
// StatusCode is 0 when the request never produced a response
type DeliveryError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("delivering to %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("delivering to %s: %v", e.URL, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// MediaFetchError reports inbound media that could not be downloaded or stored
type MediaFetchError struct {
	MessageID string
	Err       error
}

func (e *MediaFetchError) Error() string {
	return fmt.Sprintf("fetching media for message %s: %v", e.MessageID, e.Err)
}

func (e *MediaFetchError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPersistence reports whether err carries a PersistenceError
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
