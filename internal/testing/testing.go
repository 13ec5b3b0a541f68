// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/cleverdemo/internal/models"
	"github.com/desertthunder/cleverdemo/internal/shared"
)

// Default payloads served by [FakeClever].
const (
	TokenBody     = `{"access_token":"tok1","token_type":"bearer"}`
	MeBody        = `{"type":"student","data":{"id":"stu42","type":"student"}}`
	StudentBody   = `{"data":{"id":"stu42","name":{"first":"Ada","last":"Lovelace"},"grade":"7","school":"sch1"}}`
	SectionsBody  = `{"data":[{"data":{"period":"3","name":"Math"}},{"data":{"period":"1","name":"Art"}}]}`
	DistrictsBody = `{"data":[{"data":{"id":"4fd43cc56d11340000000005","name":"Demo District"}}]}`
)

// Reply is a canned status and body.
type Reply struct {
	Status int
	Body   string
}

// RecordedRequest captures what [FakeClever] received.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	Form          url.Values
}

// Routes served by [FakeClever].
const (
	RouteToken     = "token"
	RouteMe        = "me"
	RouteStudent   = "student"
	RouteSections  = "sections"
	RouteDistricts = "districts"
)

// FakeClever serves both Clever hosts (OAuth and data API) from one [httptest.Server].
//
// Replies can be changed per test with [FakeClever.Respond].
type FakeClever struct {
	Server *httptest.Server

	mu       sync.Mutex
	replies  map[string]Reply
	requests []RecordedRequest
}

// NewFakeClever starts a [FakeClever] with successful default replies and closes it when t ends.
func NewFakeClever(t *testing.T) *FakeClever {
	t.Helper()

	f := &FakeClever{
		replies: map[string]Reply{
			RouteToken:     {http.StatusOK, TokenBody},
			RouteMe:        {http.StatusOK, MeBody},
			RouteStudent:   {http.StatusOK, StudentBody},
			RouteSections:  {http.StatusOK, SectionsBody},
			RouteDistricts: {http.StatusOK, DistrictsBody},
		},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// Respond replaces the reply for route.
func (f *FakeClever) Respond(route string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[route] = Reply{Status: status, Body: body}
}

// URL returns the base URL for both hosts.
func (f *FakeClever) URL() string {
	return f.Server.URL
}

// Config returns a Clever configuration pointing at the fake.
func (f *FakeClever) Config() shared.CleverConfig {
	return shared.CleverConfig{
		APIKey:         "DEMO_KEY",
		ClientID:       "client_id",
		ClientSecret:   "client_secret",
		RedirectURI:    "https://obscure-bastion-5205.herokuapp.com/oauth",
		Scopes:         []string{"read:user_id", "read:students"},
		OAuthURL:       f.Server.URL,
		APIURL:         f.Server.URL,
		TimeoutSeconds: 5,
	}
}

// Requests returns a copy of every request received so far.
func (f *FakeClever) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Count returns how many requests hit path.
func (f *FakeClever) Count(path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent request to path.
func (f *FakeClever) Last(path string) (RecordedRequest, bool) {
	reqs := f.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return RecordedRequest{}, false
}

func (f *FakeClever) serve(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	var route string
	switch {
	case r.URL.Path == "/oauth/tokens" && r.Method == http.MethodPost:
		route = RouteToken
	case r.URL.Path == "/me":
		route = RouteMe
	case r.URL.Path == "/v1.1/districts":
		route = RouteDistricts
	case strings.HasPrefix(r.URL.Path, "/v1.1/students/") && strings.HasSuffix(r.URL.Path, "/sections"):
		route = RouteSections
	case strings.HasPrefix(r.URL.Path, "/v1.1/students/"):
		route = RouteStudent
	}

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Form:          r.PostForm,
	})
	reply, ok := f.replies[route]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	io.WriteString(w, reply.Body)
}

// MockAuthenticator is a test double for [services.Authenticator].
type MockAuthenticator struct {
	URL       string
	StudentID string
	Err       error
	Codes     []string
}

func (m *MockAuthenticator) AuthorizationURL(districtID string) string {
	return m.URL + "?district_id=" + districtID
}

func (m *MockAuthenticator) Exchange(_ context.Context, code string) (string, error) {
	m.Codes = append(m.Codes, code)
	if m.Err != nil {
		return "", m.Err
	}
	return m.StudentID, nil
}

// MockStudentFetcher is a test double for [services.StudentFetcher].
type MockStudentFetcher struct {
	InfoResult     models.Result[models.StudentInfo]
	SectionsResult models.Result[[]models.Section]
	Calls          []string
}

func (m *MockStudentFetcher) Info(_ context.Context, id string) models.Result[models.StudentInfo] {
	m.Calls = append(m.Calls, "info:"+id)
	return m.InfoResult
}

func (m *MockStudentFetcher) Sections(_ context.Context, id string) models.Result[[]models.Section] {
	m.Calls = append(m.Calls, "sections:"+id)
	return m.SectionsResult
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
