// Package models defines the values that flow between the Clever client, the session store and the web handlers.
//
// Types:
//   - [Session] : the authenticated student identifier carried by the session cookie
//   - [StudentInfo] : a student profile as returned by Clever, with a validity flag
//   - [Section] : one scheduled class period, ordered by its integer period
//   - [Result] : the success/error value every outbound call returns
//   - [DecodeError] : a missing or malformed field in a response payload
//
// Clever payloads are decoded into typed fields where the application reads them,
// and kept verbatim otherwise so templates and exports can reach any field Clever adds.
package models
