package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/cleverdemo/internal/models"
	"github.com/desertthunder/cleverdemo/internal/shared"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testSessionConfig() shared.SessionConfig {
	return shared.SessionConfig{Secret: testSecret, Name: "clever_session", MaxAge: 102592000}
}

func newTestStore(t *testing.T) *CookieSessionStore {
	t.Helper()

	store, err := NewCookieSessionStore(testSessionConfig())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

// requestWith builds the request a browser would send after receiving rec.
func requestWith(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return req
}

func savedSession(t *testing.T, store *CookieSessionStore, id string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	if err := store.Save(rec, httptest.NewRequest(http.MethodGet, "/", nil), models.Session{StudentID: id}); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}
	return rec
}

func TestCookieSessionStore(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("Short Secret", func(t *testing.T) {
			cfg := testSessionConfig()
			cfg.Secret = "short"

			if _, err := NewCookieSessionStore(cfg); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("Non-positive MaxAge", func(t *testing.T) {
			cfg := testSessionConfig()
			cfg.MaxAge = 0

			if _, err := NewCookieSessionStore(cfg); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("Default Name", func(t *testing.T) {
			cfg := testSessionConfig()
			cfg.Name = ""

			store, err := NewCookieSessionStore(cfg)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if store.name != "clever_session" {
				t.Errorf("expected default name, got %s", store.name)
			}
		})
	})

	t.Run("Round Trip", func(t *testing.T) {
		store := newTestStore(t)
		rec := savedSession(t, store, "stu42")

		sess, err := store.Load(requestWith(rec))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sess.StudentID != "stu42" {
			t.Errorf("expected stu42, got %q", sess.StudentID)
		}
	})

	t.Run("Cookie Attributes", func(t *testing.T) {
		store := newTestStore(t)
		cookies := savedSession(t, store, "stu42").Result().Cookies()

		if len(cookies) != 1 {
			t.Fatalf("expected one cookie, got %d", len(cookies))
		}
		c := cookies[0]
		if c.Name != "clever_session" {
			t.Errorf("expected clever_session, got %s", c.Name)
		}
		if c.MaxAge != 102592000 {
			t.Errorf("expected max age 102592000, got %d", c.MaxAge)
		}
		if !c.HttpOnly {
			t.Error("expected HttpOnly")
		}
		if c.SameSite != http.SameSiteLaxMode {
			t.Errorf("expected SameSite=Lax, got %v", c.SameSite)
		}
		if c.Secure {
			t.Error("expected Secure to follow config")
		}
		if c.Path != "/" {
			t.Errorf("expected path /, got %s", c.Path)
		}
	})

	t.Run("Secure Cookie", func(t *testing.T) {
		cfg := testSessionConfig()
		cfg.Secure = true
		store, _ := NewCookieSessionStore(cfg)

		cookies := savedSession(t, store, "stu42").Result().Cookies()
		if len(cookies) != 1 || !cookies[0].Secure {
			t.Error("expected Secure cookie")
		}
	})

	t.Run("Anonymous Save Expires Cookie", func(t *testing.T) {
		store := newTestStore(t)

		rec := httptest.NewRecorder()
		if err := store.Save(rec, requestWith(savedSession(t, store, "stu42")), models.Session{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
			t.Fatalf("expected an expired cookie, got %+v", cookies)
		}
	})

	t.Run("No Cookie Is Anonymous", func(t *testing.T) {
		store := newTestStore(t)

		sess, err := store.Load(httptest.NewRequest(http.MethodGet, "/", nil))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sess.Authenticated() {
			t.Error("expected anonymous session")
		}
	})

	t.Run("Tampered Cookie Is Anonymous", func(t *testing.T) {
		store := newTestStore(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "clever_session", Value: "forged"})

		sess, err := store.Load(req)
		if err == nil {
			t.Error("expected decode error")
		}
		if sess.Authenticated() {
			t.Error("expected anonymous session")
		}
	})

	t.Run("Other Secret Is Anonymous", func(t *testing.T) {
		cfg := testSessionConfig()
		cfg.Secret = "ffffffffffffffffffffffffffffffff"
		other, _ := NewCookieSessionStore(cfg)

		sess, _ := newTestStore(t).Load(requestWith(savedSession(t, other, "stu42")))
		if sess.Authenticated() {
			t.Error("expected cookie signed with another secret to be rejected")
		}
	})
}
