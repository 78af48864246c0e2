package rules

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Loader fetches the raw rule rows from wherever they live (sqlite table,
// synced from the backend API).
type Loader interface {
	LoadKeywordRules(ctx context.Context) ([]Rule, error)
}

// Repository caches a Ruleset loaded once at startup. The set is immutable
// after load; Reload swaps in a freshly built set atomically. Components
// hold the *Repository and call Current() per message.
type Repository struct {
	loader Loader

	mu  sync.RWMutex
	set *Ruleset
}

func NewRepository(loader Loader) *Repository {
	return &Repository{loader: loader}
}

// Load builds the initial ruleset. Failing to load any rules at all is a
// hard error: the filter cannot run without its tables.
func (r *Repository) Load(ctx context.Context) error {
	all, err := r.loader.LoadKeywordRules(ctx)
	if err != nil {
		return fmt.Errorf("load keyword rules: %w", err)
	}
	set := NewRuleset(all)
	log.Printf("[rules] loaded %d sender rules, %d content rules", len(set.Sender), len(set.Content))

	r.mu.Lock()
	r.set = set
	r.mu.Unlock()
	return nil
}

// Reload re-reads the rule table. On failure the previous set stays active.
func (r *Repository) Reload(ctx context.Context) error {
	return r.Load(ctx)
}

// Current returns the active ruleset. Empty (never nil) before Load, so a
// misordered caller degrades to "no rules" instead of a nil deref.
func (r *Repository) Current() *Ruleset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.set == nil {
		return NewRuleset(nil)
	}
	return r.set
}
