package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/cleverdemo/internal/shared"
)

func TestBasicRouter(t *testing.T) {
	ok := func(body string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		})
	}

	t.Run("Dispatches By Method", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/item", ok("get"))
		r.Handle("post", "/item", ok("post"))

		for method, want := range map[string]string{http.MethodGet: "get", http.MethodPost: "post"} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(method, "/item", nil))

			if rec.Body.String() != want {
				t.Errorf("%s: expected %q, got %q", method, want, rec.Body.String())
			}
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/item", ok("get"))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/item", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") != "GET, HEAD" {
			t.Errorf("expected Allow 'GET, HEAD', got %q", rec.Header().Get("Allow"))
		}
	})

	t.Run("HEAD Uses GET", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/item", ok("get"))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/item", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("Exact Root", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/{$}", ok("root"))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Body.String() != "root" {
			t.Errorf("expected root, got %q", rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.HandleFunc(http.MethodGet, "/item", func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/item", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Middleware Runs Once Per Request", func(t *testing.T) {
		calls := 0
		r := NewBasicRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				calls++
				next.ServeHTTP(w, req)
			})
		})
		r.Handle(http.MethodGet, "/item", ok("get"))
		r.Handle(http.MethodPost, "/item", ok("post"))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/item", nil))
		if calls != 1 {
			t.Errorf("expected middleware once, got %d", calls)
		}
	})

	t.Run("Handler Registration", func(t *testing.T) {
		h := NewCallbackHandler(&stubExchanger{id: "stu42"}, "/cb", nil)
		r := NewBasicRouter()
		r.Handler(h)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cb?code=abc", nil))

		if res := <-h.Result(); res.StudentID != "stu42" {
			t.Errorf("expected stu42, got %+v", res)
		}
	})
}

func TestRun(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("Stops On Cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- Run(ctx, "127.0.0.1:0", http.NotFoundHandler(), logger, time.Second)
		}()

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected clean shutdown, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
	})

	t.Run("Invalid Address", func(t *testing.T) {
		err := Run(context.Background(), "127.0.0.1:-1", http.NotFoundHandler(), logger, time.Second)
		if err == nil {
			t.Error("expected listen error")
		}
	})
}
