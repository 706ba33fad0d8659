// Package api is the HTTP transport to the cakeplanner backend.
//
// # Overview
//
// Client is the transport-agnostic contract used by the session manager and
// the CLI; HTTPClient implements it over JSON/HTTP. Every request carries a
// fresh X-Request-ID and, when the TokenSource has one, an
// "Authorization: Bearer <token>" header.
//
// # Error Handling
//
// Response statuses are mapped to sentinel errors that callers match with
// errors.Is: ErrUnauthorized (401), ErrForbidden (403), ErrNotFound (404).
// Other non-2xx statuses surface as *StatusError; connection failures wrap
// ErrUnavailable. Nothing is retried.
package api
