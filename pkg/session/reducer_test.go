package session

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(user *User) *Session {
	return &Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         user,
	}
}

func TestInitialStateIsLoading(t *testing.T) {
	st := InitialState()
	assert.True(t, st.Loading)
	assert.Nil(t, st.User)
	assert.Nil(t, st.Session)
	assert.Empty(t, st.Err)
}

func TestReduceSetUser(t *testing.T) {
	user := &User{ID: "123", Email: "a@b.c"}
	st := Reduce(InitialState(), SetUser{User: user, Session: testSession(user)})

	require.NotNil(t, st.User)
	assert.Equal(t, "123", st.User.ID)
	assert.NotNil(t, st.Session)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
}

func TestReduceSetUserClearsPreviousError(t *testing.T) {
	st := Reduce(InitialState(), SetError{Message: "invalid login credentials"})
	require.Equal(t, "invalid login credentials", st.Err)
	assert.False(t, st.Loading)

	user := &User{ID: "123"}
	st = Reduce(st, SetUser{User: user, Session: testSession(user)})
	assert.Empty(t, st.Err)
	assert.Equal(t, "123", st.User.ID)
}

func TestReduceSetLoadingKeepsUser(t *testing.T) {
	user := &User{ID: "u1"}
	st := Reduce(InitialState(), SetUser{User: user, Session: testSession(user)})
	st = Reduce(st, SetLoading{Loading: true})

	assert.True(t, st.Loading)
	assert.Equal(t, user, st.User)
}

func TestReduceLogout(t *testing.T) {
	user := &User{ID: "u1"}
	st := Reduce(InitialState(), SetUser{User: user, Session: testSession(user)})
	st = Reduce(st, Logout{})

	assert.Nil(t, st.User)
	assert.Nil(t, st.Session)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
}

type bogusAction struct{}

func (bogusAction) isAction() {}

func TestReduceUnknownActionLeavesStateUnchanged(t *testing.T) {
	user := &User{ID: "u1"}
	before := Reduce(InitialState(), SetUser{User: user, Session: testSession(user)})

	after := Reduce(before, bogusAction{})
	assert.Equal(t, before, after)
}

// Any sequence of actions must leave the state internally consistent: a
// session is only present alongside its user, a logout always lands in the
// anonymous state, and a successful sign-in clears stale errors.
func TestReduceRandomSequencesStayConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	user := &User{ID: "123", Email: "rand@example.com"}

	for i := 0; i < 200; i++ {
		st := InitialState()
		var last Action
		for j := 0; j < 20; j++ {
			switch rng.Intn(4) {
			case 0:
				last = SetUser{User: user, Session: testSession(user)}
			case 1:
				last = SetLoading{Loading: rng.Intn(2) == 0}
			case 2:
				last = SetError{Message: "boom"}
			default:
				last = Logout{}
			}
			st = Reduce(st, last)
		}

		if st.Session != nil {
			require.NotNil(t, st.User, "session without user after %T", last)
		}
		if _, ok := last.(Logout); ok {
			assert.Nil(t, st.User)
			assert.Nil(t, st.Session)
		}
		if _, ok := last.(SetUser); ok {
			assert.Empty(t, st.Err)
		}
	}
}

func TestReduceFailThenSucceed(t *testing.T) {
	st := InitialState()
	st = Reduce(st, SetLoading{Loading: true})
	st = Reduce(st, SetError{Message: "invalid login credentials"})
	assert.Equal(t, "invalid login credentials", st.Err)
	assert.False(t, st.Loading)

	user := &User{ID: "123"}
	st = Reduce(st, SetLoading{Loading: true})
	st = Reduce(st, SetUser{User: user, Session: testSession(user)})
	assert.Empty(t, st.Err)
	assert.False(t, st.Loading)
	assert.Equal(t, "123", st.User.ID)
}
