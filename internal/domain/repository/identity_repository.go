package repository

import (
	"context"
	"errors"

	"github.com/harmonia-music/account-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no identity exists for the given email.
	ErrNotFound = errors.New("identity not found")
	// ErrDuplicateEmail is returned when a create collides with an existing
	// record of either role. The store enforces this at commit time, so two
	// racing registrations cannot both succeed.
	ErrDuplicateEmail = errors.New("email already registered")
)

// IdentityRepository is the persistence contract for identities. Email is
// the sole key and lookups span both roles. All mutations are atomic: a
// concurrent reader never observes a partially applied write.
type IdentityRepository interface {
	// GetByEmail returns the identity stored under email, exact match.
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)

	// EmailAvailable reports whether no record of either role holds email.
	EmailAvailable(ctx context.Context, email string) (bool, error)

	// CreateMember persists a new member record. Fails with
	// ErrDuplicateEmail if the email is taken by any existing record.
	CreateMember(ctx context.Context, m *entity.Identity) error

	// UpdateHash replaces the stored password hash for email.
	UpdateHash(ctx context.Context, email, newHash string) error

	// UpdateMemberProfile updates a member's display name and, when
	// photoURL is non-nil, the photo reference.
	UpdateMemberProfile(ctx context.Context, email, name string, photoURL *string) error
}
