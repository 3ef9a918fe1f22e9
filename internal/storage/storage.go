// Package storage persists the dashboard's auth token between runs.
//
// Exactly one string is stored, under a fixed key. An absent value means the
// user is not signed in.
package storage

import "context"

// DefaultKey is the fixed name the token is stored under.
const DefaultKey = "token"

// TokenStore is durable storage for a single token string.
type TokenStore interface {
	// Load returns the stored token, or "" with a nil error when none is stored.
	Load(ctx context.Context) (string, error)
	// Save replaces the stored token.
	Save(ctx context.Context, token string) error
	// Remove deletes the stored token. Removing an absent token is not an error.
	Remove(ctx context.Context) error
}
