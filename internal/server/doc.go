// Package server provides HTTP routing, middleware, sessions and the schedule web app.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering. Middleware wraps the
// per-path dispatcher, so 405 responses are logged like any other.
//
// # Middleware
//
//   - [RequestID] : reuses or generates X-Request-ID and stores it in the request context
//   - [Logging] : one log line per request with method, path, status, duration and request id
//   - [Recover] : converts panics into 500 responses
//
// # Sessions
//
// [SessionStore] moves an explicit [models.Session] in and out of the request. [CookieSessionStore] keeps it in a
// gorilla/sessions signed cookie under the "clever_id" key. The cookie is HTTP-only and SameSite=Lax; saving an
// anonymous session expires it.
//
// # Web App
//
// [App] is a two-state machine, Anonymous and Authenticated, over three routes:
//
//	GET /        login link (Anonymous) or profile + schedule (Authenticated)
//	GET /oauth   exchange ?code= for a student id, store it, redirect to /
//	GET /logout  clear the session, redirect to /
//	GET /healthz liveness probe
//
// Each route is a [Route]: a function of the session and query returning a [Response]. [App.Handle] is the only
// place that reads or writes the cookie, so routes can be tested with plain values.
//
// # Terminal Login
//
// [CallbackHandler] serves the OAuth redirect on a temporary local server for `auth login`. It processes one callback,
// exchanges the code, and sends the student id through a channel.
package server
