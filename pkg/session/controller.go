package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotProvisioned reports controller access outside a provisioned scope.
// It marks a programming error, distinct from "not authenticated".
var ErrNotProvisioned = errors.New("session: controller must be used within a provisioned context")

// Result is the outcome of a user-initiated auth operation. Failures are
// always converted into this shape; controller methods never panic on Store
// errors.
type Result struct {
	Success bool
	Err     string
}

// Controller orchestrates session effects around the pure reducer: it
// bootstraps the session on construction, mirrors external session-change
// notifications into state, and exposes login/signup/logout. Dispatches are
// serialized, so the observed state always corresponds to the last landed
// transition (last write wins when a notification races a login).
type Controller struct {
	store Store

	mu     sync.Mutex
	state  State
	expiry time.Time // derived token-expiry watch

	unsubscribe func()
	closeOnce   sync.Once
	closed      bool
}

// NewController builds a controller, performs the bootstrap fetch and
// subscribes to session changes. The returned controller's state has
// completed loading (successfully or not) before NewController returns.
// Close must be called to release the subscription.
func NewController(ctx context.Context, store Store) *Controller {
	c := &Controller{store: store, state: InitialState()}

	// Subscription teardown is guaranteed by Close; dispatches arriving after
	// Close are dropped rather than mutating a dead controller.
	c.unsubscribe = store.OnSessionChange(func(s *Session) {
		c.dispatch(SetUser{User: sessionUser(s), Session: s})
	})

	sess, err := store.GetSession(ctx)
	if err != nil {
		c.dispatch(SetError{Message: err.Error()})
	} else {
		c.dispatch(SetUser{User: sessionUser(sess), Session: sess})
	}
	return c
}

func sessionUser(s *Session) *User {
	if s == nil {
		return nil
	}
	return s.User
}

func (c *Controller) dispatch(a Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state = Reduce(c.state, a)
	if c.state.Session != nil {
		c.expiry = c.state.Session.ExpiresAt
	} else {
		c.expiry = time.Time{}
	}
}

// State returns a snapshot of the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TokenExpiry is the derived expiry watch: the current session's expiry
// timestamp, recomputed whenever the session changes. ok is false when no
// session is present.
func (c *Controller) TokenExpiry() (expiry time.Time, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiry, !c.expiry.IsZero()
}

// Login signs in with password credentials. Store failures are converted to
// a failed Result plus an error transition; they are never propagated.
func (c *Controller) Login(ctx context.Context, email, password string) Result {
	c.dispatch(SetLoading{Loading: true})

	sess, err := c.store.SignInWithPassword(ctx, email, password)
	if err != nil {
		c.dispatch(SetError{Message: err.Error()})
		return Result{Success: false, Err: err.Error()}
	}
	c.dispatch(SetUser{User: sessionUser(sess), Session: sess})
	return Result{Success: true}
}

// SignUp registers a new identity. A provider that withholds the session
// until email confirmation yields a user with no session; that is a valid
// non-error state.
func (c *Controller) SignUp(ctx context.Context, email, password string) Result {
	c.dispatch(SetLoading{Loading: true})

	res, err := c.store.SignUp(ctx, email, password)
	if err != nil {
		c.dispatch(SetError{Message: err.Error()})
		return Result{Success: false, Err: err.Error()}
	}
	c.dispatch(SetUser{User: res.User, Session: res.Session})
	return Result{Success: true}
}

// Logout signs out and resets to the anonymous state. Logging out while
// already logged out succeeds silently.
func (c *Controller) Logout(ctx context.Context) Result {
	if err := c.store.SignOut(ctx); err != nil {
		c.dispatch(SetError{Message: err.Error()})
		return Result{Success: false, Err: err.Error()}
	}
	c.dispatch(Logout{})
	return Result{Success: true}
}

// Close releases the session-change subscription. It is safe to call more
// than once; the subscription is released exactly once. In-flight operations
// may still complete but their dispatches are dropped.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
	})
}

type ctxKey struct{}

// WithController provisions the controller into a context for consumers.
func WithController(ctx context.Context, c *Controller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext retrieves a provisioned controller. Use outside a provisioned
// scope returns ErrNotProvisioned so context misuse is detectable as a
// distinct error class.
func FromContext(ctx context.Context) (*Controller, error) {
	c, ok := ctx.Value(ctxKey{}).(*Controller)
	if !ok || c == nil {
		return nil, ErrNotProvisioned
	}
	return c, nil
}
