package server

import (
	"fmt"
	"net/http"

	"github.com/desertthunder/cleverdemo/internal/models"
	"github.com/desertthunder/cleverdemo/internal/shared"
	"github.com/gorilla/sessions"
)

// SessionStore loads and persists the explicit [models.Session] of a request.
type SessionStore interface {
	// Load returns the request's session. On error the returned session is anonymous.
	Load(r *http.Request) (models.Session, error)

	// Save writes s to the response. An anonymous session expires the cookie.
	Save(w http.ResponseWriter, r *http.Request, s models.Session) error
}

// CookieSessionStore keeps the session in a signed cookie.
type CookieSessionStore struct {
	store *sessions.CookieStore
	name  string
}

// NewCookieSessionStore creates a [CookieSessionStore] signed with cfg.Secret.
func NewCookieSessionStore(cfg shared.SessionConfig) (*CookieSessionStore, error) {
	if len(cfg.Secret) < shared.MinSessionSecret {
		return nil, fmt.Errorf("%w: session secret must be at least %d bytes", shared.ErrInvalidConfig, shared.MinSessionSecret)
	}
	if cfg.MaxAge <= 0 {
		return nil, fmt.Errorf("%w: session max_age must be positive", shared.ErrInvalidConfig)
	}

	name := cfg.Name
	if name == "" {
		name = "clever_session"
	}

	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(cfg.MaxAge)

	return &CookieSessionStore{store: store, name: name}, nil
}

func (s *CookieSessionStore) Load(r *http.Request) (models.Session, error) {
	session, err := s.store.Get(r, s.name)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to decode session: %w", err)
	}

	id, _ := session.Values[models.SessionKey].(string)
	return models.Session{StudentID: id}, nil
}

func (s *CookieSessionStore) Save(w http.ResponseWriter, r *http.Request, sess models.Session) error {
	// A cookie that fails to decode still yields a fresh session to overwrite.
	session, _ := s.store.Get(r, s.name)

	if sess.Authenticated() {
		session.Values[models.SessionKey] = sess.StudentID
	} else {
		delete(session.Values, models.SessionKey)
		session.Options.MaxAge = -1
	}

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
