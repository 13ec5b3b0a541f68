// HTTP client wrapper shared by every Clever call
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/cleverdemo/internal/shared"
)

// Credentials authorizes an outbound request.
type Credentials interface {
	Apply(req *http.Request)
}

// APIKey is a district API key, sent as Basic auth with the key as username and an empty password.
type APIKey string

func (k APIKey) Apply(req *http.Request) {
	req.SetBasicAuth(string(k), "")
}

// BearerToken is an OAuth access token.
type BearerToken string

func (t BearerToken) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+string(t))
}

// NewHTTPClient returns an [http.Client] with the given timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// APIService issues authenticated GET requests against a single base URL.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service for baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = "https://api.clever.com"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Success reports a 2xx status.
func (r *APIResponse) Success() bool {
	return shared.IsSuccess(r.StatusCode)
}

// Get performs a GET request to path with creds and returns the raw response.
//
// Non-2xx responses are not errors here; callers decide what a failure means.
func (a *APIService) Get(ctx context.Context, path string, creds Credentials) (*APIResponse, error) {
	fullURL := a.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if creds != nil {
		creds.Apply(req)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}
