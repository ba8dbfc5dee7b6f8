package web

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"platecheck/internal/domain/session"
)

const sessionCookieName = "platecheck_session"

// SessionStore holds one session.State per browser session, keyed by a uuid
// cookie. Process-local and never persisted, matching the session lifecycle:
// created on first contact, destroyed when the process ends.
type SessionStore struct {
	mu     sync.Mutex
	states map[string]*session.State
}

func NewSessionStore() *SessionStore {
	return &SessionStore{states: make(map[string]*session.State)}
}

func (s *SessionStore) get(id string) (*session.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[id]
	return state, ok
}

func (s *SessionStore) create() (string, *session.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	state := session.New()
	s.states[id] = state
	return id, state
}

type sessionCtxKey struct{}

func stateFromContext(ctx context.Context) *session.State {
	state, _ := ctx.Value(sessionCtxKey{}).(*session.State)
	return state
}

// withSession resolves the session cookie, creating a fresh session (and
// cookie) when absent or unknown, and stores the state on the request context.
func (s *SessionStore) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var state *session.State

		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			state, _ = s.get(cookie.Value)
		}
		if state == nil {
			id, created := s.create()
			state = created
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, state)))
	})
}
