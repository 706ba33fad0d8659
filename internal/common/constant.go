// Package common contains constants shared across the
// cakeplanner client packages.
package common

// Header names and values used on outbound requests.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	RequestIDHeader     = "X-Request-ID"
	EventStreamMIME     = "text/event-stream"
)
