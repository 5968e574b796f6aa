// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into an audit log.
package queue

import "time"

// AuthEventsQueue is the durable queue auth events are published to.
const AuthEventsQueue = "auth.events"

// Event types.
const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
)

// AuthEvent is published after a successful registration or login.  It
// never carries passwords, hashes or tokens.
type AuthEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
