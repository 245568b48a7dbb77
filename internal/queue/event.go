// Package queue defines message payloads exchanged over the message broker.
package queue

// AccountRegisteredEvent is published when a new account is created.
// It carries enough information for downstream consumers to log or send
// a welcome notification without querying the primary database.
type AccountRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registered_at"`
}
