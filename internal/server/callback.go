package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/cleverdemo/internal/services"
	"github.com/desertthunder/cleverdemo/internal/shared"
	"github.com/desertthunder/cleverdemo/internal/web"
)

// CodeExchanger resolves an authorization code to a student id. [services.OAuthService] implements it.
type CodeExchanger interface {
	Exchange(ctx context.Context, code string) (string, error)
}

// LoginResult contains the result of a terminal login.
type LoginResult struct {
	StudentID string
	err       error
}

func (l LoginResult) Error() error {
	return l.err
}

// CallbackHandler receives the OAuth redirect for `auth login` on a temporary local server.
// Implements the [Handler] interface for registration with a [Router].
//
// It processes a single callback and reports it through [CallbackHandler.Result].
type CallbackHandler struct {
	exchanger   CodeExchanger
	path        string
	renderer    *web.Renderer
	resultChan  chan LoginResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a handler serving path, usually the path of the configured redirect URI.
func NewCallbackHandler(exchanger CodeExchanger, path string, renderer *web.Renderer) *CallbackHandler {
	if path == "" {
		path = "/oauth"
	}
	return &CallbackHandler{
		exchanger:  exchanger,
		path:       path,
		renderer:   renderer,
		resultChan: make(chan LoginResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP exchanges the callback's code and reports the student id.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	query := r.URL.Query()
	code := query.Get("code")
	if code == "" {
		err := fmt.Errorf("%w: %s", shared.ErrAuthFailed, joinNonEmpty(query.Get("error"), query.Get("error_description")))
		h.Send(LoginResult{err: err})
		h.render(w, http.StatusBadRequest, web.ViewError, web.ErrorPage{Message: "Authorization failed", Diagnostic: err.Error()})
		return
	}

	id, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil {
		h.Send(LoginResult{err: err})

		diagnostic := err.Error()
		var ae *services.AuthError
		if errors.As(err, &ae) {
			diagnostic = ae.Diagnostic()
		}
		h.render(w, http.StatusUnauthorized, web.ViewError, web.ErrorPage{Message: "Token exchange failed", Diagnostic: diagnostic})
		return
	}

	h.Send(LoginResult{StudentID: id})
	h.render(w, http.StatusOK, web.ViewDone, web.DonePage{StudentID: id})
}

// Send sends the login result through the channel (only once).
func (h *CallbackHandler) Send(result LoginResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving login completion.
//
// Channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan LoginResult {
	return h.resultChan
}

func (h *CallbackHandler) render(w http.ResponseWriter, status int, view string, page any) {
	var buf bytes.Buffer
	if h.renderer == nil || h.renderer.Render(&buf, view, page) != nil {
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
