package apiclient

import (
	"net/http"

	"github.com/liftlog/liftlog/pkg/logger"
	"github.com/liftlog/liftlog/pkg/session"
)

// Transport decorates outgoing requests with the current bearer token and
// retries exactly once after a coordinated refresh when the server answers
// 401. A 401 on the retried request is returned as-is.
type Transport struct {
	// Base performs the actual round trips; http.DefaultTransport when nil.
	Base http.RoundTripper

	Store       session.Store
	Coordinator *RefreshCoordinator

	// OnSessionExpired runs after a failed refresh has forced a sign-out,
	// for callers that want to route back to their login entry point. May be
	// invoked once per request that was in flight when the session died.
	OnSessionExpired func()
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := ""
	if sess, err := t.Store.GetSession(req.Context()); err == nil && sess != nil {
		token = sess.AccessToken
	}

	resp, err := t.base().RoundTrip(t.withBearer(req, token, false))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	fresh, refreshErr := t.Coordinator.Refresh(req.Context(), t.Store)
	if refreshErr != nil {
		logger.Warnf("token refresh failed, signing out: %v", refreshErr)
		if signOutErr := t.Store.SignOut(req.Context()); signOutErr != nil {
			logger.Errorf("forced sign-out failed: %v", signOutErr)
		}
		if t.OnSessionExpired != nil {
			t.OnSessionExpired()
		}
		// surface the original 401, not the refresh error
		return resp, nil
	}

	retry := t.withBearer(req, fresh, true)
	if retry == nil {
		// the body cannot be replayed
		return resp, nil
	}
	resp.Body.Close()
	return t.base().RoundTrip(retry)
}

// withBearer clones req with the given token attached. For a retry the body
// is rewound via GetBody; a nil return means the request is not replayable.
func (t *Transport) withBearer(req *http.Request, token string, retry bool) *http.Request {
	if retry && req.Body != nil && req.GetBody == nil {
		return nil
	}
	clone := req.Clone(req.Context())
	if retry && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil
		}
		clone.Body = body
	}
	if token != "" {
		clone.Header.Set("Authorization", "Bearer "+token)
	} else {
		clone.Header.Del("Authorization")
	}
	return clone
}
