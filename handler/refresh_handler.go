// Package handler orchestrates refresh runs across accounts.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"feedsync/collection"
	apperrors "feedsync/utils/errors"
)

// RefreshState is the handler's current activity. Exactly one refresh run
// is in flight at a time, whatever its scope.
type RefreshState string

const (
	StateIdle              RefreshState = "idle"
	StateRefreshingAll     RefreshState = "refreshing-all"
	StateRefreshingAccount RefreshState = "refreshing-account"
	StateRefreshingFeed    RefreshState = "refreshing-feed"
)

// RefreshHandler serializes refresh runs over the registry. A run that
// arrives while another is in flight is rejected with ErrBusy rather
// than queued.
type RefreshHandler struct {
	registry *collection.Registry
	logger   *slog.Logger

	mu    sync.Mutex
	state RefreshState
}

// NewRefreshHandler creates an idle handler over the registry.
func NewRefreshHandler(registry *collection.Registry, logger *slog.Logger) *RefreshHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefreshHandler{
		registry: registry,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns the handler's current activity.
func (h *RefreshHandler) State() RefreshState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *RefreshHandler) begin(state RefreshState) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateIdle {
		return fmt.Errorf("%w: refresh already running (%s)", apperrors.ErrBusy, h.state)
	}
	h.state = state
	return nil
}

func (h *RefreshHandler) end() {
	h.mu.Lock()
	h.state = StateIdle
	h.mu.Unlock()
}

// RefreshAll refreshes every account concurrently. Each account fetches,
// then commits; one account failing does not abort the others.
func (h *RefreshHandler) RefreshAll(ctx context.Context) error {
	if err := h.begin(StateRefreshingAll); err != nil {
		return err
	}
	defer h.end()

	runID := uuid.NewString()
	logger := h.logger.With("run_id", runID)
	logger.Info("refresh started", "scope", "all")

	group, ctx := errgroup.WithContext(ctx)
	for _, c := range h.registry.All() {
		c := c
		group.Go(func() error {
			if err := h.refreshCollection(ctx, c); err != nil {
				logger.Error("account refresh failed", "account", c.Name(), "error", err)
			}
			return nil
		})
	}
	err := group.Wait()
	logger.Info("refresh finished", "scope", "all")
	return err
}

// RefreshAccount refreshes one account: fetch everything, then commit.
func (h *RefreshHandler) RefreshAccount(ctx context.Context, account string) error {
	if err := h.begin(StateRefreshingAccount); err != nil {
		return err
	}
	defer h.end()

	c, err := h.registry.Get(account)
	if err != nil {
		return err
	}
	logger := h.logger.With("run_id", uuid.NewString(), "account", account)
	logger.Info("refresh started", "scope", "account")
	err = h.refreshCollection(ctx, c)
	logger.Info("refresh finished", "scope", "account")
	return err
}

// RefreshFeed refreshes a single feed of one account.
func (h *RefreshHandler) RefreshFeed(ctx context.Context, account, feed string) error {
	if err := h.begin(StateRefreshingFeed); err != nil {
		return err
	}
	defer h.end()

	c, err := h.registry.Get(account)
	if err != nil {
		return err
	}
	logger := h.logger.With("run_id", uuid.NewString(), "account", account, "feed", feed)
	logger.Info("refresh started", "scope", "feed")
	if err := c.FetchOne(ctx, feed); err != nil {
		return err
	}
	err = c.Commit(ctx)
	logger.Info("refresh finished", "scope", "feed")
	return err
}

func (h *RefreshHandler) refreshCollection(ctx context.Context, c collection.Collection) error {
	if err := c.FetchAll(ctx); err != nil {
		return err
	}
	return c.Commit(ctx)
}
