package collection

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"feedsync/models"
	apperrors "feedsync/utils/errors"
)

// Registry holds the process-wide set of collections, one per configured
// account.
type Registry struct {
	logger *slog.Logger

	mu          sync.RWMutex
	collections map[string]Collection
}

// NewRegistry builds one collection per account. A single invalid account
// fails the whole build; configuration errors should not be survivable.
func NewRegistry(accounts []*models.Account, deps Deps, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	registry := &Registry{
		logger:      logger,
		collections: make(map[string]Collection, len(accounts)),
	}
	for _, account := range accounts {
		if _, dup := registry.collections[account.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate account %q", apperrors.ErrConfig, account.Name)
		}
		c, err := New(account, deps)
		if err != nil {
			return nil, err
		}
		registry.collections[account.Name] = c
	}
	return registry, nil
}

// InitAll loads every collection's persisted state concurrently.
func (r *Registry) InitAll(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, c := range r.All() {
		c := c
		group.Go(func() error {
			if err := c.Init(ctx); err != nil {
				return fmt.Errorf("init account %s: %w", c.Name(), err)
			}
			return nil
		})
	}
	return group.Wait()
}

// Get returns the named account's collection.
func (r *Registry) Get(name string) (Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, name)
	}
	return c, nil
}

// All returns every collection, ordered by account name for stable
// iteration.
func (r *Registry) All() []Collection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Collection, 0, len(r.collections))
	for _, c := range r.collections {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	return all
}

// CleanAccount destroys the named account: its durable storage is purged
// and the collection is dropped from the registry.
func (r *Registry) CleanAccount(ctx context.Context, name string) error {
	c, err := r.Get(name)
	if err != nil {
		return err
	}
	if err := c.Clean(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.collections, name)
	r.mu.Unlock()
	r.logger.Info("account destroyed", "account", name)
	return nil
}
