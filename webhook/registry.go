package webhook

import (
	"context"
	"errors"
	"sync"

	"github.com/marcelsud/whatsapp-relay/internal/apperr"
)

// Registry exposes the configured destination
type Registry interface {
	Active(ctx context.Context) (Destination, bool, error)
	Configure(ctx context.Context, url string) error
}

// RegistryService serializes writers so that concurrent configure calls
// apply one after the other and the last one wins
type RegistryService struct {
	Repo DestinationRepository
	mu   sync.Mutex
}

func NewRegistry(repo DestinationRepository) *RegistryService {
	return &RegistryService{
		Repo: repo,
	}
}

// Active returns the stored destination, reporting false when none is set
func (r *RegistryService) Active(ctx context.Context) (Destination, bool, error) {
	d, err := r.Repo.SelectActive(ctx)
	if errors.Is(err, ErrNotFound) {
		return Destination{}, false, nil
	}
	if err != nil {
		return Destination{}, false, apperr.Persistence("selecting webhook destination", err)
	}
	return d, d.Active, nil
}

// Configure validates url and replaces the stored destination with it
func (r *RegistryService) Configure(ctx context.Context, url string) error {
	u, err := Validate(url)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.Repo.Replace(ctx, u); err != nil {
		return apperr.Persistence("replacing webhook destination", err)
	}
	return nil
}
