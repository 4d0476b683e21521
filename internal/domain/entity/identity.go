package entity

import "time"

// Role classifies an identity. It is assigned once at creation and never
// changes for the lifetime of the record.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Identity is the aggregate root for the account domain. Email is the
// primary key across both roles; PasswordHash holds a bcrypt token and is
// never exposed in responses or logs.
//
// PhotoURL is only meaningful for members. It is empty solely between
// record construction and the first photo save during registration.
type Identity struct {
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	PhotoURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsMember reports whether the identity is a member account.
func (i *Identity) IsMember() bool { return i.Role == RoleMember }

// IsAdmin reports whether the identity is an admin account.
func (i *Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// NewMember builds an unsaved member identity. The caller supplies an
// already hashed password; plaintext never reaches the entity layer.
func NewMember(email, passwordHash, name, photoURL string) *Identity {
	return &Identity{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         RoleMember,
		PhotoURL:     photoURL,
	}
}

// NewAdmin builds an unsaved admin identity. Admin accounts are only
// created by the seed tool; no registration flow produces them.
func NewAdmin(email, passwordHash, name string) *Identity {
	return &Identity{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         RoleAdmin,
	}
}
