package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// GoTrueStore implements Store against the identity provider's REST surface
// (Supabase GoTrue under <baseURL>/auth/v1). It keeps the current session in
// memory and notifies listeners on every change.
type GoTrueStore struct {
	baseURL string
	anonKey string
	http    *http.Client

	mu        sync.Mutex
	current   *Session
	listeners map[int]func(*Session)
	nextID    int
}

// AuthError is a non-2xx reply from the identity provider.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func NewGoTrueStore(baseURL, anonKey string) *GoTrueStore {
	return &GoTrueStore{
		baseURL:   strings.TrimRight(baseURL, "/"),
		anonKey:   anonKey,
		http:      &http.Client{Timeout: 20 * time.Second},
		listeners: make(map[int]func(*Session)),
	}
}

// NewGoTrueStoreWithHTTPClient is used by tests to point the store at a fake
// provider.
func NewGoTrueStoreWithHTTPClient(baseURL, anonKey string, hc *http.Client) *GoTrueStore {
	s := NewGoTrueStore(baseURL, anonKey)
	if hc != nil {
		s.http = hc
	}
	return s
}

// tokenResponse is the provider's session payload. ExpiresAt is unix seconds
// when present; otherwise ExpiresIn is relative.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user"`

	// sign-up replies without a session carry the bare user at top level
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (t *tokenResponse) session() *Session {
	if t.AccessToken == "" {
		return nil
	}
	expires := time.Unix(t.ExpiresAt, 0)
	if t.ExpiresAt == 0 {
		expires = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return &Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    expires,
		User:         t.User,
	}
}

func (s *GoTrueStore) post(ctx context.Context, path string, body interface{}, bearer string, out interface{}) error {
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/v1"+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
			Msg         string `json:"msg"`
			Message     string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		msg := body.Description
		for _, alt := range []string{body.Msg, body.Message, body.Error} {
			if msg == "" {
				msg = alt
			}
		}
		if msg == "" {
			msg = resp.Status
		}
		return &AuthError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// setSession swaps the current session and fans the change out to listeners.
func (s *GoTrueStore) setSession(sess *Session) {
	s.mu.Lock()
	s.current = sess
	fns := make([]func(*Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(sess)
	}
}

func (s *GoTrueStore) GetSession(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, nil
}

func (s *GoTrueStore) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var tr tokenResponse
	err := s.post(ctx, "/token?grant_type=password", map[string]string{"email": email, "password": password}, "", &tr)
	if err != nil {
		return nil, err
	}
	sess := tr.session()
	if sess == nil {
		return nil, &AuthError{Status: http.StatusOK, Message: "no session returned"}
	}
	s.setSession(sess)
	return sess, nil
}

func (s *GoTrueStore) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	var tr tokenResponse
	err := s.post(ctx, "/signup", map[string]string{"email": email, "password": password}, "", &tr)
	if err != nil {
		return nil, err
	}
	if sess := tr.session(); sess != nil {
		s.setSession(sess)
		return &SignUpResult{User: sess.User, Session: sess}, nil
	}
	// confirmation pending: the provider returned the bare user, no session
	user := tr.User
	if user == nil && tr.ID != "" {
		user = &User{ID: tr.ID, Email: tr.Email, Role: tr.Role}
	}
	return &SignUpResult{User: user}, nil
}

func (s *GoTrueStore) SignOut(ctx context.Context) error {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil {
		// nothing to sign out
		return nil
	}
	err := s.post(ctx, "/logout", nil, current.AccessToken, nil)
	var authErr *AuthError
	if err != nil && !errors.As(err, &authErr) {
		return err
	}
	// the provider rejecting an already-dead token still ends the session
	s.setSession(nil)
	return nil
}

func (s *GoTrueStore) RefreshSession(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil || current.RefreshToken == "" {
		return nil, &AuthError{Status: http.StatusUnauthorized, Message: "no refresh token"}
	}
	var tr tokenResponse
	err := s.post(ctx, "/token?grant_type=refresh_token", map[string]string{"refresh_token": current.RefreshToken}, "", &tr)
	if err != nil {
		return nil, err
	}
	sess := tr.session()
	if sess == nil {
		return nil, &AuthError{Status: http.StatusUnauthorized, Message: "no session returned"}
	}
	s.setSession(sess)
	return sess, nil
}

func (s *GoTrueStore) OnSessionChange(fn func(*Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
