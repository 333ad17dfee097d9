package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidUserID   = errors.New("user_id must not be empty")
	ErrInvalidEndpoint = errors.New("endpoint must be an https URL")
	ErrInvalidKeys     = errors.New("subscription keys p256dh and auth must not be empty")
)
