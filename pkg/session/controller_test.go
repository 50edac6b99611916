package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a scriptable in-memory Store for controller tests.
type fakeStore struct {
	mu        sync.Mutex
	current   *Session
	listeners []func(*Session)

	signInErr  error
	signUpRes  *SignUpResult
	signUpErr  error
	signOutErr error

	unsubscribed int
}

func (f *fakeStore) GetSession(ctx context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakeStore) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	sess := testSession(&User{ID: "123", Email: email})
	f.mu.Lock()
	f.current = sess
	f.mu.Unlock()
	return sess, nil
}

func (f *fakeStore) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	if f.signUpRes != nil {
		return f.signUpRes, nil
	}
	sess := testSession(&User{ID: "new", Email: email})
	return &SignUpResult{User: sess.User, Session: sess}, nil
}

func (f *fakeStore) SignOut(ctx context.Context) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) RefreshSession(ctx context.Context) (*Session, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) OnSessionChange(fn func(*Session)) func() {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.unsubscribed++
		f.mu.Unlock()
	}
}

func (f *fakeStore) notify(s *Session) {
	f.mu.Lock()
	fns := append([]func(*Session){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

func TestControllerBootstrapAnonymous(t *testing.T) {
	c := NewController(context.Background(), &fakeStore{})
	defer c.Close()

	st := c.State()
	assert.False(t, st.Loading, "bootstrap must complete before NewController returns")
	assert.Nil(t, st.User)
	assert.Nil(t, st.Session)
}

func TestControllerBootstrapExistingSession(t *testing.T) {
	user := &User{ID: "123", Email: "back@again.com"}
	store := &fakeStore{current: testSession(user)}
	c := NewController(context.Background(), store)
	defer c.Close()

	st := c.State()
	require.NotNil(t, st.User)
	assert.Equal(t, "123", st.User.ID)
	assert.False(t, st.Loading)
}

func TestControllerLoginSuccess(t *testing.T) {
	c := NewController(context.Background(), &fakeStore{})
	defer c.Close()

	res := c.Login(context.Background(), "a@b.c", "pw")
	assert.True(t, res.Success)

	st := c.State()
	require.NotNil(t, st.User)
	assert.Equal(t, "a@b.c", st.User.Email)
	assert.Empty(t, st.Err)
}

func TestControllerLoginFailureThenSuccess(t *testing.T) {
	store := &fakeStore{signInErr: errors.New("invalid login credentials")}
	c := NewController(context.Background(), store)
	defer c.Close()

	res := c.Login(context.Background(), "a@b.c", "wrong")
	assert.False(t, res.Success)
	assert.Equal(t, "invalid login credentials", res.Err)
	assert.Equal(t, "invalid login credentials", c.State().Err)
	assert.Nil(t, c.State().User)

	store.signInErr = nil
	res = c.Login(context.Background(), "a@b.c", "right")
	assert.True(t, res.Success)

	st := c.State()
	assert.Empty(t, st.Err)
	require.NotNil(t, st.User)
	assert.Equal(t, "123", st.User.ID)
}

func TestControllerSignUpPendingConfirmation(t *testing.T) {
	store := &fakeStore{signUpRes: &SignUpResult{User: &User{ID: "pending", Email: "p@q.r"}}}
	c := NewController(context.Background(), store)
	defer c.Close()

	res := c.SignUp(context.Background(), "p@q.r", "pw")
	assert.True(t, res.Success, "pending confirmation is not an error")

	st := c.State()
	require.NotNil(t, st.User)
	assert.Equal(t, "pending", st.User.ID)
	assert.Nil(t, st.Session)
	assert.Empty(t, st.Err)
}

func TestControllerLogoutIdempotent(t *testing.T) {
	c := NewController(context.Background(), &fakeStore{})
	defer c.Close()

	res := c.Logout(context.Background())
	assert.True(t, res.Success)
	res = c.Logout(context.Background())
	assert.True(t, res.Success)
	assert.Nil(t, c.State().User)
}

func TestControllerLogoutFailureSurfaces(t *testing.T) {
	store := &fakeStore{current: testSession(&User{ID: "u"}), signOutErr: errors.New("provider unreachable")}
	c := NewController(context.Background(), store)
	defer c.Close()

	res := c.Logout(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, "provider unreachable", c.State().Err)
	// the session stays until sign-out actually lands
	assert.NotNil(t, c.State().User)
}

func TestControllerFollowsExternalChanges(t *testing.T) {
	store := &fakeStore{}
	c := NewController(context.Background(), store)
	defer c.Close()

	user := &User{ID: "ext"}
	store.notify(testSession(user))
	require.NotNil(t, c.State().User)
	assert.Equal(t, "ext", c.State().User.ID)

	store.notify(nil)
	assert.Nil(t, c.State().User)
	assert.Nil(t, c.State().Session)
}

func TestControllerCloseUnsubscribesOnce(t *testing.T) {
	store := &fakeStore{}
	c := NewController(context.Background(), store)

	c.Close()
	c.Close()
	assert.Equal(t, 1, store.unsubscribed)

	// notifications after close must not mutate state
	before := c.State()
	store.notify(testSession(&User{ID: "late"}))
	assert.Equal(t, before, c.State())
}

func TestControllerTokenExpiry(t *testing.T) {
	c := NewController(context.Background(), &fakeStore{})
	defer c.Close()

	_, ok := c.TokenExpiry()
	assert.False(t, ok)

	c.Login(context.Background(), "a@b.c", "pw")
	expiry, ok := c.TokenExpiry()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)

	c.Logout(context.Background())
	_, ok = c.TokenExpiry()
	assert.False(t, ok)
}

func TestFromContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNotProvisioned)

	c := NewController(context.Background(), &fakeStore{})
	defer c.Close()

	ctx := WithController(context.Background(), c)
	got, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, c, got)
}
