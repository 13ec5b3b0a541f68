package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/cleverdemo/internal/models"
	"github.com/desertthunder/cleverdemo/internal/shared"
)

// StudentService reads student data with the district API key.
type StudentService struct {
	api *APIService
	key APIKey
}

// NewStudentService creates a [StudentService] for api authenticated with apiKey.
func NewStudentService(api *APIService, apiKey string) *StudentService {
	return &StudentService{api: api, key: APIKey(apiKey)}
}

// Info fetches a student profile.
//
// Failures carry [shared.ErrProfileFetch]; callers render [models.InvalidStudentInfo] in their place.
func (s *StudentService) Info(ctx context.Context, id string) models.Result[models.StudentInfo] {
	body, err := s.fetch(ctx, studentPath(id), id, shared.ErrProfileFetch)
	if err != nil {
		return models.Failure[models.StudentInfo](err)
	}

	info, err := models.DecodeStudentInfo(body)
	if err != nil {
		return models.Failure[models.StudentInfo](fmt.Errorf("%w: %w", shared.ErrProfileFetch, err))
	}
	return models.Success(info)
}

// Sections fetches a student's sections ordered by period.
//
// Failures carry [shared.ErrSectionsFetch].
func (s *StudentService) Sections(ctx context.Context, id string) models.Result[[]models.Section] {
	body, err := s.fetch(ctx, studentPath(id)+"/sections", id, shared.ErrSectionsFetch)
	if err != nil {
		return models.Failure[[]models.Section](err)
	}

	sections, err := models.DecodeSections(body)
	if err != nil {
		return models.Failure[[]models.Section](fmt.Errorf("%w: %w", shared.ErrSectionsFetch, err))
	}
	return models.Success(sections)
}

func (s *StudentService) fetch(ctx context.Context, path, id string, kind error) ([]byte, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %w: student id", kind, shared.ErrMissingArgument)
	}

	resp, err := s.api.Get(ctx, path, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kind, err)
	}
	if !resp.Success() {
		return nil, &APIError{Kind: kind, Path: path, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	return resp.Body, nil
}

func studentPath(id string) string {
	return "/v1.1/students/" + url.PathEscape(id)
}
