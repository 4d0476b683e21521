// Package memory provides map-backed implementations of the persistence
// contracts, used by tests and local development without Postgres.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/harmonia-music/account-service/internal/domain/entity"
	"github.com/harmonia-music/account-service/internal/domain/repository"
)

// IdentityRepository keeps identities in a mutex-guarded map keyed by email.
// Uniqueness is enforced inside the write lock, so concurrent creates for
// the same email resolve to exactly one winner, matching the commit-time
// guarantee of the Postgres implementation.
type IdentityRepository struct {
	mu         sync.RWMutex
	identities map[string]*entity.Identity
}

func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{identities: make(map[string]*entity.Identity)}
}

// Seed inserts a record directly, bypassing the member-only create path.
// Used to plant admin accounts in tests and local setups.
func (r *IdentityRepository) Seed(i *entity.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *i
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = cp.CreatedAt
	r.identities[cp.Email] = &cp
}

func (r *IdentityRepository) GetByEmail(_ context.Context, email string) (*entity.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.identities[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *IdentityRepository) EmailAvailable(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.identities[email]
	return !ok, nil
}

func (r *IdentityRepository) CreateMember(_ context.Context, m *entity.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.identities[m.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	now := time.Now()
	m.Role = entity.RoleMember
	m.CreatedAt = now
	m.UpdatedAt = now
	cp := *m
	r.identities[m.Email] = &cp
	return nil
}

func (r *IdentityRepository) UpdateHash(_ context.Context, email, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.identities[email]
	if !ok {
		return repository.ErrNotFound
	}
	i.PasswordHash = newHash
	i.UpdatedAt = time.Now()
	return nil
}

func (r *IdentityRepository) UpdateMemberProfile(_ context.Context, email, name string, photoURL *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.identities[email]
	if !ok || i.Role != entity.RoleMember {
		return repository.ErrNotFound
	}
	i.Name = name
	if photoURL != nil {
		i.PhotoURL = *photoURL
	}
	i.UpdatedAt = time.Now()
	return nil
}

var _ repository.IdentityRepository = (*IdentityRepository)(nil)
