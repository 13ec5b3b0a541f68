// Clever "Instant Login" implementation of [Authenticator]
//
// Endpoints documented at https://dev.clever.com/docs/oauth-implementation
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/cleverdemo/internal/models"
	"github.com/desertthunder/cleverdemo/internal/shared"
	"golang.org/x/oauth2"
)

const (
	cleverAuthorizePath = "/oauth/authorize"
	cleverTokenPath     = "/oauth/tokens"
	cleverMePath        = "/me"
)

type meResponse struct {
	Data *struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"data"`
}

// OAuthService turns authorization codes into student identifiers.
//
// The token call uses the OAuth client credentials as Basic auth; the identity call uses the resulting bearer token.
type OAuthService struct {
	config     *oauth2.Config
	api        *APIService
	httpClient *http.Client
}

// NewOAuthService creates an [OAuthService] from the Clever section of the configuration.
//
// client is used for both the token and identity calls and defaults to [http.DefaultClient].
func NewOAuthService(cfg shared.CleverConfig, client *http.Client) (*OAuthService, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}
	if cfg.RedirectURI == "" {
		return nil, fmt.Errorf("%w: missing redirect_uri", shared.ErrInvalidConfig)
	}
	if client == nil {
		client = http.DefaultClient
	}

	oauthURL := strings.TrimRight(cfg.OAuthURL, "/")
	if oauthURL == "" {
		oauthURL = "https://clever.com"
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   oauthURL + cleverAuthorizePath,
			TokenURL:  oauthURL + cleverTokenPath,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &OAuthService{
		config:     config,
		api:        NewAPIService(cfg.APIURL, client),
		httpClient: client,
	}, nil
}

// GetOAuthConfig returns the underlying [oauth2.Config].
func (s *OAuthService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// AuthorizationURL returns the login URL for districtID.
//
// All parameters are query-encoded, including the redirect URI. An empty districtID omits the parameter.
func (s *OAuthService) AuthorizationURL(districtID string) string {
	var opts []oauth2.AuthCodeOption
	if districtID != "" {
		opts = append(opts, oauth2.SetAuthURLParam("district_id", districtID))
	}
	return s.config.AuthCodeURL("", opts...)
}

// Exchange trades an authorization code for an access token and resolves it to the student's Clever id.
//
// Every failure is an [*AuthError].
func (s *OAuthService) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", &AuthError{Stage: StageToken, Err: fmt.Errorf("%w: authorization code", shared.ErrMissingArgument)}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return "", tokenError(err)
	}

	return s.Identify(ctx, token.AccessToken)
}

// Identify resolves an access token to the id of the user it was issued for.
func (s *OAuthService) Identify(ctx context.Context, accessToken string) (string, error) {
	resp, err := s.api.Get(ctx, cleverMePath, BearerToken(accessToken))
	if err != nil {
		return "", &AuthError{Stage: StageIdentity, Err: err}
	}

	if !resp.Success() {
		return "", &AuthError{Stage: StageIdentity, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var me meResponse
	if err := json.Unmarshal(resp.Body, &me); err != nil {
		return "", &AuthError{
			Stage: StageIdentity, StatusCode: resp.StatusCode, Body: string(resp.Body),
			Err: &models.DecodeError{Payload: "me", Err: err},
		}
	}
	if me.Data == nil || me.Data.ID == "" {
		return "", &AuthError{
			Stage: StageIdentity, StatusCode: resp.StatusCode, Body: string(resp.Body),
			Err: &models.DecodeError{Payload: "me", Field: "data.id", Err: errors.New("missing")},
		}
	}

	return me.Data.ID, nil
}

// tokenError maps an [oauth2.Config.Exchange] failure to an [*AuthError].
//
// Non-2xx responses surface as [oauth2.RetrieveError] with the raw body; transport failures as [url.Error];
// anything else is a 2xx body the library could not read a token from.
func tokenError(err error) *AuthError {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		ae := &AuthError{Stage: StageToken, Body: string(re.Body), Err: err}
		if re.Response != nil {
			ae.StatusCode = re.Response.StatusCode
		}
		return ae
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		return &AuthError{Stage: StageToken, Err: fmt.Errorf("request failed: %w", err)}
	}

	return &AuthError{Stage: StageToken, Err: &models.DecodeError{Payload: "token", Field: "access_token", Err: err}}
}
