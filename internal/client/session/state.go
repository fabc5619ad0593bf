package session

import "github.com/dmitrijs2005/biztoolkit/internal/client/api"

// Status is the authentication status of the session.
type Status string

const (
	// StatusLoading is the status before Load has finished.
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
	// StatusError means the persisted session could not be read at all.
	StatusError Status = "error"
)

// State is an immutable snapshot of the session. User is never mutated
// after it has been published; transitions replace it.
type State struct {
	Status  Status
	Token   string
	User    *api.User
	Error   string
	Loading bool
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// InitialState is the state of a container that has not loaded yet.
func InitialState() State {
	return State{Status: StatusLoading, Loading: true}
}

// Action is a session transition.
type Action interface {
	sessionAction()
}

type (
	// requestStarted marks a network-backed operation as in flight and
	// clears any previous error.
	requestStarted struct{}

	// signedIn covers login, registration and a successful load.
	signedIn struct {
		Token string
		User  api.User
	}

	// signInFailed covers failed login, registration and load.
	signInFailed struct {
		Message string
	}

	// noSession is a load without a persisted token.
	noSession struct{}

	// storageFailed is a load whose persisted token could not be read.
	storageFailed struct {
		Message string
	}

	loggedOut struct{}

	// userPatched shallow-merges server-returned members into the user.
	userPatched struct {
		Fields api.UserFields
	}

	errorCleared struct{}

	// unauthorized is the global 401 rule: the session is dropped but the
	// error and loading flag belong to whichever operation is in flight.
	unauthorized struct{}
)

func (requestStarted) sessionAction() {}
func (signedIn) sessionAction()       {}
func (signInFailed) sessionAction()   {}
func (noSession) sessionAction()      {}
func (storageFailed) sessionAction()  {}
func (loggedOut) sessionAction()      {}
func (userPatched) sessionAction()    {}
func (errorCleared) sessionAction()   {}
func (unauthorized) sessionAction()   {}

// Reduce is the session reducer. Every branch returns a complete snapshot
// in which Token is set exactly when Status is authenticated.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case requestStarted:
		s.Loading = true
		s.Error = ""
		return s

	case signedIn:
		u := a.User
		return State{Status: StatusAuthenticated, Token: a.Token, User: &u}

	case signInFailed:
		return State{Status: StatusUnauthenticated, Error: a.Message}

	case noSession, loggedOut:
		return State{Status: StatusUnauthenticated}

	case storageFailed:
		return State{Status: StatusError, Error: a.Message}

	case userPatched:
		if s.Status != StatusAuthenticated || s.User == nil {
			return s
		}
		merged, err := s.User.Merge(a.Fields)
		if err != nil {
			return s
		}
		s.User = &merged
		return s

	case errorCleared:
		s.Error = ""
		return s

	case unauthorized:
		return State{Status: StatusUnauthenticated, Error: s.Error, Loading: s.Loading}

	default:
		return s
	}
}
