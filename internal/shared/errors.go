package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrProfileFetch     = fmt.Errorf("student profile fetch failed")
	ErrSectionsFetch    = fmt.Errorf("student sections fetch failed")
	ErrDistrictNotFound = fmt.Errorf("no district available")
	ErrDecode           = fmt.Errorf("malformed response")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
