package services

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/cleverdemo/internal/models"
	"github.com/desertthunder/cleverdemo/internal/shared"
	tu "github.com/desertthunder/cleverdemo/internal/testing"
)

func newTestStudents(t *testing.T) (*StudentService, *tu.FakeClever) {
	t.Helper()

	fake := tu.NewFakeClever(t)
	return NewStudentService(NewAPIService(fake.URL(), nil), "DEMO_KEY"), fake
}

func TestStudentService(t *testing.T) {
	t.Run("Info", func(t *testing.T) {
		t.Run("Uses API Key", func(t *testing.T) {
			srv, fake := newTestStudents(t)

			res := srv.Info(context.Background(), "stu42")
			if !res.Ok() {
				t.Fatalf("expected success, got %v", res.Err)
			}

			req, ok := fake.Last("/v1.1/students/stu42")
			if !ok {
				t.Fatal("expected a student request")
			}
			want := "Basic " + base64.StdEncoding.EncodeToString([]byte("DEMO_KEY:"))
			if req.Authorization != want {
				t.Errorf("expected %q, got %q", want, req.Authorization)
			}
		})

		t.Run("Decodes Profile", func(t *testing.T) {
			srv, _ := newTestStudents(t)

			info := srv.Info(context.Background(), "stu42").Or(models.InvalidStudentInfo())
			if !info.Valid {
				t.Fatal("expected valid profile")
			}
			if info.ID != "stu42" || info.Name() != "Ada Lovelace" || info.Grade != "7" {
				t.Errorf("unexpected profile %+v", info)
			}
			if info.Map()["valid"] != true {
				t.Errorf("expected valid=true in map, got %v", info.Map())
			}
		})

		t.Run("Failure Falls Back To Invalid", func(t *testing.T) {
			srv, fake := newTestStudents(t)
			fake.Respond(tu.RouteStudent, http.StatusNotFound, `{"message":"not found"}`)

			res := srv.Info(context.Background(), "stu42")
			if res.Ok() {
				t.Fatal("expected failure")
			}
			if !errors.Is(res.Err, shared.ErrProfileFetch) {
				t.Errorf("expected ErrProfileFetch, got %v", res.Err)
			}

			var apiErr *APIError
			if !errors.As(res.Err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
				t.Errorf("expected APIError with 404, got %v", res.Err)
			}

			m := res.Or(models.InvalidStudentInfo()).Map()
			if len(m) != 1 || m["valid"] != false {
				t.Errorf("expected exactly {valid:false}, got %v", m)
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			srv, fake := newTestStudents(t)
			fake.Respond(tu.RouteStudent, http.StatusOK, `{"data":"nope"}`)

			res := srv.Info(context.Background(), "stu42")
			if !errors.Is(res.Err, shared.ErrProfileFetch) || !errors.Is(res.Err, shared.ErrDecode) {
				t.Errorf("expected profile decode failure, got %v", res.Err)
			}
		})

		t.Run("Empty ID", func(t *testing.T) {
			srv, fake := newTestStudents(t)

			res := srv.Info(context.Background(), "")
			if !errors.Is(res.Err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", res.Err)
			}
			if len(fake.Requests()) != 0 {
				t.Error("expected no outbound calls")
			}
		})

		t.Run("Escapes ID", func(t *testing.T) {
			srv, fake := newTestStudents(t)

			srv.Info(context.Background(), "a/b")
			if fake.Count("/v1.1/students/a/b") != 1 {
				t.Errorf("expected escaped path to decode to /v1.1/students/a/b, got %+v", fake.Requests())
			}
			if fake.Count("/v1.1/students/a/b/sections") != 0 {
				t.Error("unexpected sections call")
			}
		})
	})

	t.Run("Sections", func(t *testing.T) {
		t.Run("Sorted By Period", func(t *testing.T) {
			srv, fake := newTestStudents(t)

			sections, err := srv.Sections(context.Background(), "stu42").Unwrap()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(sections) != 2 {
				t.Fatalf("expected 2 sections, got %d", len(sections))
			}
			if sections[0].Period != "1" || sections[0].Name() != "Art" {
				t.Errorf("expected Art first, got %+v", sections[0].Map())
			}
			if sections[1].Period != "3" || sections[1].Name() != "Math" {
				t.Errorf("expected Math second, got %+v", sections[1].Map())
			}
			if fake.Count("/v1.1/students/stu42/sections") != 1 {
				t.Error("expected one sections call")
			}
		})

		t.Run("Non-2xx", func(t *testing.T) {
			srv, fake := newTestStudents(t)
			fake.Respond(tu.RouteSections, http.StatusUnauthorized, "bad key")

			res := srv.Sections(context.Background(), "stu42")
			if !errors.Is(res.Err, shared.ErrSectionsFetch) || !errors.Is(res.Err, shared.ErrAPIRequest) {
				t.Errorf("expected sections fetch failure, got %v", res.Err)
			}
			if errors.Is(res.Err, shared.ErrProfileFetch) {
				t.Error("sections failure must not be a profile failure")
			}
		})

		t.Run("Section Without Period", func(t *testing.T) {
			srv, fake := newTestStudents(t)
			fake.Respond(tu.RouteSections, http.StatusOK, `{"data":[{"data":{"name":"Art"}}]}`)

			res := srv.Sections(context.Background(), "stu42")

			var de *models.DecodeError
			if !errors.As(res.Err, &de) {
				t.Fatalf("expected DecodeError, got %v", res.Err)
			}
			if !errors.Is(res.Err, shared.ErrSectionsFetch) {
				t.Error("expected ErrSectionsFetch")
			}
		})

		t.Run("Empty Schedule", func(t *testing.T) {
			srv, fake := newTestStudents(t)
			fake.Respond(tu.RouteSections, http.StatusOK, `{"data":[]}`)

			sections, err := srv.Sections(context.Background(), "stu42").Unwrap()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(sections) != 0 {
				t.Errorf("expected no sections, got %d", len(sections))
			}
		})
	})
}
