package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/cleverdemo/internal/models"
	"github.com/desertthunder/cleverdemo/internal/shared"
)

// District is an organizational tenant visible to the API key.
type District struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type districtsResponse struct {
	Data []struct {
		Data District `json:"data"`
	} `json:"data"`
}

// StaticDistrict is a fixed district id. It never touches the network.
type StaticDistrict string

func (d StaticDistrict) DistrictID(context.Context) (string, error) {
	return string(d), nil
}

// DistrictService lists districts with the district API key.
type DistrictService struct {
	api *APIService
	key APIKey
}

// NewDistrictService creates a [DistrictService].
func NewDistrictService(api *APIService, apiKey string) *DistrictService {
	return &DistrictService{api: api, key: APIKey(apiKey)}
}

// List returns every district visible to the API key.
func (s *DistrictService) List(ctx context.Context) ([]District, error) {
	const path = "/v1.1/districts"

	resp, err := s.api.Get(ctx, path, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	if !resp.Success() {
		return nil, &APIError{Kind: shared.ErrDistrictNotFound, Path: path, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var env districtsResponse
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, &models.DecodeError{Payload: "districts", Err: err}
	}

	districts := make([]District, 0, len(env.Data))
	for _, item := range env.Data {
		districts = append(districts, item.Data)
	}
	return districts, nil
}

// DistrictID returns the id of the first listed district.
func (s *DistrictService) DistrictID(ctx context.Context) (string, error) {
	districts, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	if len(districts) == 0 || districts[0].ID == "" {
		return "", shared.ErrDistrictNotFound
	}
	return districts[0].ID, nil
}
