package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cleverdemo/internal/models"
	"github.com/desertthunder/cleverdemo/internal/services"
	"github.com/desertthunder/cleverdemo/internal/shared"
	"github.com/desertthunder/cleverdemo/internal/web"
)

// Response is the outcome of a [Route]: the session to keep and either a redirect or a page.
type Response struct {
	Session  models.Session
	Persist  bool // write Session back to the cookie
	Redirect string
	Status   int
	View     string
	Page     any
}

// Route handles one request given the caller's session and query.
//
// Routes never touch the cookie themselves; the returned [Response] says what to persist.
type Route func(ctx context.Context, sess models.Session, query url.Values) Response

// AppOpts configures [NewApp].
type AppOpts struct {
	Auth       services.Authenticator
	Students   services.StudentFetcher
	DistrictID string
	Sessions   SessionStore
	Renderer   *web.Renderer
	Logger     *log.Logger
}

// App is the schedule web app.
//
// It holds only read-only collaborators built at startup; all request state lives in the session cookie.
type App struct {
	auth       services.Authenticator
	students   services.StudentFetcher
	districtID string
	sessions   SessionStore
	renderer   *web.Renderer
	logger     *log.Logger
}

// NewApp creates an [App]. The renderer defaults to [web.NewRenderer].
func NewApp(opts AppOpts) (*App, error) {
	if opts.Auth == nil || opts.Students == nil || opts.Sessions == nil {
		return nil, fmt.Errorf("%w: app requires an authenticator, a student fetcher and a session store", shared.ErrInvalidConfig)
	}

	renderer := opts.Renderer
	if renderer == nil {
		var err error
		if renderer, err = web.NewRenderer(); err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &App{
		auth:       opts.Auth,
		students:   opts.Students,
		districtID: opts.DistrictID,
		sessions:   opts.Sessions,
		renderer:   renderer,
		logger:     logger,
	}, nil
}

// Register adds the app's routes to r.
func (a *App) Register(r Router) {
	r.Handle(http.MethodGet, "/{$}", a.Handle(a.Index))
	r.Handle(http.MethodGet, "/oauth", a.Handle(a.OAuth))
	r.Handle(http.MethodGet, "/logout", a.Handle(a.Logout))
	r.Handle(http.MethodGet, "/healthz", http.HandlerFunc(a.Health))
}

// Index renders the login prompt for anonymous visitors and the schedule otherwise.
func (a *App) Index(ctx context.Context, sess models.Session, _ url.Values) Response {
	if !sess.Authenticated() {
		return Response{
			Session: sess,
			View:    web.ViewLogin,
			Page:    web.LoginPage{AuthURL: a.auth.AuthorizationURL(a.districtID)},
		}
	}

	info := a.students.Info(ctx, sess.StudentID)
	if !info.Ok() {
		a.logger.Warn("profile fetch failed", "student", sess.StudentID, "error", info.Err)
	}

	page := web.SchedulePage{Student: info.Or(models.InvalidStudentInfo())}

	sections, err := a.students.Sections(ctx, sess.StudentID).Unwrap()
	if err != nil {
		a.logger.Warn("sections fetch failed", "student", sess.StudentID, "error", err)
		page.SectionsErr = err.Error()
	} else {
		page.Sections = sections
	}

	return Response{Session: sess, View: web.ViewSchedule, Page: page}
}

// OAuth completes the authorization-code flow.
//
// Success stores the student id and redirects to /. Failure renders the diagnostic and leaves the session as it was.
func (a *App) OAuth(ctx context.Context, sess models.Session, query url.Values) Response {
	if reason := query.Get("error"); reason != "" {
		return failure(sess, http.StatusBadRequest, "Clever did not authorize the login.",
			joinNonEmpty(reason, query.Get("error_description")))
	}

	code := query.Get("code")
	if code == "" {
		return failure(sess, http.StatusBadRequest, "The login callback did not include an authorization code.", "")
	}

	id, err := a.auth.Exchange(ctx, code)
	if err != nil {
		a.logger.Error("oauth exchange failed", "error", err)

		diagnostic := err.Error()
		var ae *services.AuthError
		if errors.As(err, &ae) {
			diagnostic = ae.Diagnostic()
		}
		return failure(sess, http.StatusUnauthorized, "Logging in with Clever failed.", diagnostic)
	}

	a.logger.Info("student logged in", "student", id)
	return Response{Session: models.Session{StudentID: id}, Persist: true, Redirect: "/"}
}

// Logout clears the session and redirects to /. Logging out twice is harmless.
func (a *App) Logout(_ context.Context, _ models.Session, _ url.Values) Response {
	return Response{Session: models.Session{}, Persist: true, Redirect: "/"}
}

// Health reports liveness without touching Clever.
func (a *App) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		a.logger.Error("failed to write health response", "error", err)
	}
}

// Handle adapts route to an [http.Handler], loading the session before and applying the [Response] after.
func (a *App) Handle(route Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := a.sessions.Load(r)
		if err != nil {
			a.logger.Debug("ignoring unreadable session", "error", err, "request_id", RequestIDFrom(r.Context()))
		}

		a.write(w, r, route(r.Context(), sess, r.URL.Query()))
	})
}

func (a *App) write(w http.ResponseWriter, r *http.Request, resp Response) {
	if resp.Persist {
		if err := a.sessions.Save(w, r, resp.Session); err != nil {
			a.logger.Error("session save failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	if resp.Redirect != "" {
		http.Redirect(w, r, resp.Redirect, http.StatusFound)
		return
	}

	var buf bytes.Buffer
	if err := a.renderer.Render(&buf, resp.View, resp.Page); err != nil {
		a.logger.Error("render failed", "view", resp.View, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Debug("failed to write response", "error", err)
	}
}

func failure(sess models.Session, status int, message, diagnostic string) Response {
	return Response{
		Session: sess,
		Status:  status,
		View:    web.ViewError,
		Page:    web.ErrorPage{Message: message, Diagnostic: diagnostic},
	}
}

func joinNonEmpty(a, b string) string {
	if b == "" {
		return a
	}
	return a + ": " + b
}
