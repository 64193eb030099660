// Package ranking folds scores from pluggable ranking providers into one
// aggregation per completion candidate.
package ranking

import (
	"context"
	"sync"

	"github.com/teranos/rankd/proposal"
)

// MaxScore caps the score a single provider may contribute to one candidate.
const MaxScore = 100

// Result is one provider's opinion about one candidate.
type Result struct {
	Score     int               `json:"score"`
	Decorator string            `json:"decorator,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// Provider scores a whole candidate batch at once.
//
// Rank must return a slice index-aligned with candidates; a nil entry means
// "no opinion". Providers must not mutate the candidates.
type Provider interface {
	Name() string
	Rank(ctx context.Context, candidates []proposal.Candidate, pctx proposal.Context) ([]*Result, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc struct {
	ProviderName string
	Fn           func(ctx context.Context, candidates []proposal.Candidate, pctx proposal.Context) ([]*Result, error)
}

func (p ProviderFunc) Name() string { return p.ProviderName }

func (p ProviderFunc) Rank(ctx context.Context, candidates []proposal.Candidate, pctx proposal.Context) ([]*Result, error) {
	return p.Fn(ctx, candidates, pctx)
}

// Registry holds providers in registration order. It is safe for concurrent
// use; completion requests take a snapshot and never hold the lock while ranking.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
}

// NewRegistry creates a registry seeded with providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register appends a provider. Nil providers are ignored.
func (r *Registry) Register(p Provider) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

// Unregister removes every provider with the given name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.providers[:0:0]
	for _, p := range r.providers {
		if p.Name() != name {
			kept = append(kept, p)
		}
	}
	r.providers = kept
}

// Providers returns a snapshot in registration order.
func (r *Registry) Providers() []Provider {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Provider(nil), r.providers...)
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}
