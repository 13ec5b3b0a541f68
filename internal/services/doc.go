// Package services talks to the two Clever hosts on behalf of the web app and the CLI.
//
// # Credentials
//
// Two credential schemes are in play and never mixed:
//   - [APIKey] : district API key, Basic auth with an empty password, used for /v1.1 data reads
//   - [BearerToken] : OAuth access token, used once for GET /me
//
// The OAuth client id and secret are handled by [oauth2.Config] with [oauth2.AuthStyleInHeader].
//
// # OAuth Exchange
//
// [OAuthService] implements [Authenticator]. Exchange posts the code to /oauth/tokens, then resolves the
// access token to a student id with GET /me. Tokens are not kept: the student id is all the app stores.
//
// # Student Data
//
// [StudentService] implements [StudentFetcher]. Both reads return a [models.Result] so callers handle
// success and failure the same way:
//   - Info: failure is recovered by the caller into [models.InvalidStudentInfo]
//   - Sections: failure message is rendered in place of the schedule
//
// # Districts
//
// [StaticDistrict] is the preferred [DistrictResolver]. [DistrictService] lists districts and is only
// consulted once at startup when no district id is configured.
//
// # Error Handling
//
//   - [*AuthError] : token or identity call failed, matches [shared.ErrAuthFailed]
//   - [*APIError] : non-2xx data call, matches its kind ([shared.ErrProfileFetch], [shared.ErrSectionsFetch])
//   - [*models.DecodeError] : response body missing a documented field
package services
