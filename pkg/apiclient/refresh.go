package apiclient

import (
	"context"
	"errors"
	"sync"

	"github.com/liftlog/liftlog/pkg/metrics"
	"github.com/liftlog/liftlog/pkg/session"
)

// ErrSessionExpired reports that the session could not be refreshed and the
// user has been signed out.
var ErrSessionExpired = errors.New("apiclient: session expired")

type refreshResult struct {
	token string
	err   error
}

// RefreshCoordinator collapses concurrent refresh attempts into a single
// provider call. The first caller becomes the leader and performs the
// refresh; callers arriving while it is in flight wait and receive the
// leader's result in arrival order.
type RefreshCoordinator struct {
	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshResult
}

func NewRefreshCoordinator() *RefreshCoordinator {
	return &RefreshCoordinator{}
}

// Refresh returns a fresh access token. Exactly one provider call happens
// per burst of concurrent callers.
func (c *RefreshCoordinator) Refresh(ctx context.Context, store session.Store) (string, error) {
	c.mu.Lock()
	if c.refreshing {
		ch := make(chan refreshResult, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()
		select {
		case res := <-ch:
			return res.token, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	res := c.doRefresh(ctx, store)

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.mu.Unlock()

	// channels are buffered, so draining never blocks on a caller that
	// already gave up
	for _, ch := range waiters {
		ch <- res
	}
	return res.token, res.err
}

func (c *RefreshCoordinator) doRefresh(ctx context.Context, store session.Store) refreshResult {
	sess, err := store.RefreshSession(ctx)
	switch {
	case err != nil:
		metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		return refreshResult{err: err}
	case sess == nil || sess.AccessToken == "":
		metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		return refreshResult{err: ErrSessionExpired}
	default:
		metrics.TokenRefreshes.WithLabelValues("success").Inc()
		return refreshResult{token: sess.AccessToken}
	}
}
