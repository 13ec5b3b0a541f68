package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/cleverdemo/internal/models"
	"github.com/desertthunder/cleverdemo/internal/shared"
)

// Authenticator builds login URLs and completes the authorization-code flow.
type Authenticator interface {
	// AuthorizationURL returns the URL the user follows to log in through districtID.
	AuthorizationURL(districtID string) string

	// Exchange converts an authorization code into the student's Clever id.
	Exchange(ctx context.Context, code string) (string, error)
}

// StudentFetcher reads a student's profile and schedule.
type StudentFetcher interface {
	Info(ctx context.Context, id string) models.Result[models.StudentInfo]
	Sections(ctx context.Context, id string) models.Result[[]models.Section]
}

// DistrictResolver picks the district used for login.
type DistrictResolver interface {
	DistrictID(ctx context.Context) (string, error)
}

// Clever bundles the Clever services built from one configuration.
type Clever struct {
	OAuth     *OAuthService
	Students  *StudentService
	Districts *DistrictService
}

// NewClever builds every Clever service from cfg, sharing client.
func NewClever(cfg shared.CleverConfig, client *http.Client) (*Clever, error) {
	if client == nil {
		client = NewHTTPClient(cfg.Timeout())
	}

	oauth, err := NewOAuthService(cfg, client)
	if err != nil {
		return nil, err
	}

	api := NewAPIService(cfg.APIURL, client)
	return &Clever{
		OAuth:     oauth,
		Students:  NewStudentService(api, cfg.APIKey),
		Districts: NewDistrictService(api, cfg.APIKey),
	}, nil
}

// Resolver returns the configured district when set, and the API lookup otherwise.
func (c *Clever) Resolver(districtID string) DistrictResolver {
	if districtID != "" {
		return StaticDistrict(districtID)
	}
	return c.Districts
}
