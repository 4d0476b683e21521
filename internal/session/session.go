// Package session issues and revokes authenticated sessions. A session is
// ephemeral state: the client holds a signed token, the server holds a
// matching record in the state store. Credential checking happens elsewhere;
// callers sign in only after a password has already been verified.
package session

import (
	"context"
	"time"

	"github.com/harmonia-music/account-service/internal/domain/entity"
)

// Session is the authenticated context carried across a signed-in
// connection: who the caller is, what role they hold, and whether the
// session should outlive the client.
type Session struct {
	SID      string
	Email    string
	Role     entity.Role
	Remember bool
}

// Store holds server-side session state keyed by session id.
type Store interface {
	// Put writes the session record with the given lifetime.
	Put(ctx context.Context, s *Session, ttl time.Duration) error
	// Get returns the session for sid, or nil when none exists.
	Get(ctx context.Context, sid string) (*Session, error)
	// Delete removes the session. Deleting an absent sid is a no-op.
	Delete(ctx context.Context, sid string) error
}
