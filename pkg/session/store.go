// Package session owns the client-side authentication session state: the
// Session Store contract, a pure reducer over session state, and a controller
// that reconciles session bootstrap, external change notifications and
// user-initiated login/signup/logout into one consistent view.
package session

import (
	"context"
	"time"
)

// User is the authenticated identity as reported by the Session Store.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session is the credential record tied 1:1 to a User.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// SignUpResult is what the Session Store returns from SignUp. Session may be
// nil when the provider requires email confirmation before issuing one.
type SignUpResult struct {
	User    *User
	Session *Session
}

// Store is the external identity/session backend. Implementations must be
// safe for concurrent use.
type Store interface {
	// GetSession returns the current session, or nil when signed out.
	GetSession(ctx context.Context) (*Session, error)
	// SignInWithPassword exchanges credentials for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// SignUp registers a new identity. The result may carry no session when
	// confirmation is pending.
	SignUp(ctx context.Context, email, password string) (*SignUpResult, error)
	// SignOut ends the current session. Signing out with no session is a no-op.
	SignOut(ctx context.Context) error
	// RefreshSession exchanges the refresh token for a new session.
	RefreshSession(ctx context.Context) (*Session, error)
	// OnSessionChange registers a listener invoked on every session change
	// (sign-in, rotation, sign-out; nil means signed out). The returned
	// function removes the listener.
	OnSessionChange(fn func(*Session)) (unsubscribe func())
}
