package webhook

import "context"

// DestinationReader reads the stored destination
type DestinationReader interface {
	/* SelectActive returns ErrNotFound when nothing is configured
	 */
	SelectActive(ctx context.Context) (Destination, error)
}

// DestinationWriter replaces the stored destination
type DestinationWriter interface {
	/* Replace removes every stored destination and stores url as the only
	 * active one, atomically with respect to SelectActive
	 */
	Replace(ctx context.Context, url string) error
}

type DestinationRepository interface {
	DestinationReader
	DestinationWriter
	Close(ctx context.Context) error
}
