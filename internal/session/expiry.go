package session

import (
	"context"
	"sync"
)

// ExpiryCoordinator is the publish point for session expiration. The HTTP
// layer triggers it on a 401; the application shell registers a single
// sign-out handler at startup. Constructed once per process and injected,
// never a package-level variable.
type ExpiryCoordinator struct {
	mu      sync.Mutex
	tokens  *TokenStore
	handler func(context.Context)
}

// NewExpiryCoordinator creates a coordinator with no handler registered.
func NewExpiryCoordinator(tokens *TokenStore) *ExpiryCoordinator {
	return &ExpiryCoordinator{tokens: tokens}
}

// SetHandler registers the sign-out callback. Single-writer contract: the
// application shell sets it exactly once at startup; last write wins. The
// handler must itself no-op when the user is already signed out, since
// concurrent 401s may trigger it more than once.
func (c *ExpiryCoordinator) SetHandler(handler func(context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// Trigger clears the token store, then invokes the registered handler if
// any. Safe to call repeatedly: clearing an absent token is a no-op and
// calls are serialized.
func (c *ExpiryCoordinator) Trigger(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.tokens.Clear(ctx)
	if c.handler != nil {
		c.handler(ctx)
	}
}
