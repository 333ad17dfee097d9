package domain

import (
	"net/url"
	"time"
)

// PushSubscription is one registered web-push destination for one admin user.
// A user may hold several (one per browser/device). Endpoint plus the two key
// materials (p256dh, auth) are exactly what the push transport needs.
type PushSubscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionKeys mirrors the keys object of the browser PushSubscription JSON.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// RegisterSubscriptionRequest is the inbound payload when a browser
// subscribes. Shape follows PushSubscription.toJSON() plus the owning user.
type RegisterSubscriptionRequest struct {
	UserID   string           `json:"user_id"`
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

func (r *RegisterSubscriptionRequest) Validate() error {
	if r.UserID == "" {
		return ErrInvalidUserID
	}
	u, err := url.Parse(r.Endpoint)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return ErrInvalidEndpoint
	}
	if r.Keys.P256dh == "" || r.Keys.Auth == "" {
		return ErrInvalidKeys
	}
	return nil
}
