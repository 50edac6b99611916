package session

// State is the reducer-owned view of "who is logged in".
type State struct {
	User    *User
	Session *Session
	// Loading is true only during the initial bootstrap fetch or an
	// in-flight login/signup.
	Loading bool
	// Err holds the last operation's failure message; cleared on every
	// successful transition.
	Err string
}

// InitialState is the pre-bootstrap state: nobody known yet, loading.
func InitialState() State {
	return State{Loading: true}
}

// Action is a state transition input for Reduce.
type Action interface {
	isAction()
}

// SetUser installs the given user and session, ends loading, clears errors.
type SetUser struct {
	User    *User
	Session *Session
}

// SetLoading toggles only the loading flag.
type SetLoading struct {
	Loading bool
}

// SetError records a failure message and ends loading.
type SetError struct {
	Message string
}

// Logout resets to the anonymous state.
type Logout struct{}

func (SetUser) isAction()    {}
func (SetLoading) isAction() {}
func (SetError) isAction()   {}
func (Logout) isAction()     {}

// Reduce is the pure session state transition function. It performs no I/O
// and returns the input state unchanged for unrecognized actions.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case SetUser:
		state.User = a.User
		state.Session = a.Session
		state.Loading = false
		state.Err = ""
		return state
	case SetLoading:
		state.Loading = a.Loading
		return state
	case SetError:
		state.Err = a.Message
		state.Loading = false
		return state
	case Logout:
		return State{}
	default:
		return state
	}
}
