package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Registry holds all registered search providers
type Registry struct {
	providers []Provider
	timeout   time.Duration
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: []Provider{},
	}
}

// SetTimeout bounds a whole Search call; zero means no bound beyond ctx
func (r *Registry) SetTimeout(d time.Duration) {
	r.timeout = d
}

// Register adds a provider to the registry. Providers are queried in
// registration order, so news providers should be registered first.
func (r *Registry) Register(provider Provider) {
	r.providers = append(r.providers, provider)
}

// Count returns the number of registered providers
func (r *Registry) Count() int {
	return len(r.providers)
}

// Name implements Provider
func (r *Registry) Name() string {
	return "registry"
}

// Search queries every provider in order and concatenates their items.
// The first provider error aborts the search.
func (r *Registry) Search(ctx context.Context, sess Session, req Request) ([]RawItem, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var items []RawItem
	for _, p := range r.providers {
		got, err := p.Search(ctx, sess, req)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", p.Name(), err)
		}
		log.Infof("[Registry] %s returned %d items", p.Name(), len(got))
		items = append(items, got...)
	}
	return items, nil
}

// LocalSessions issues client-side session ids for backends without a
// session handshake
type LocalSessions struct{}

// OpenSession implements SessionOpener
func (LocalSessions) OpenSession(ctx context.Context) (Session, error) {
	return Session{ID: uuid.NewString()}, nil
}
