// Package authz evaluates access policies against the current session.
// Each operation declares one Policy; the gate is a plain function so the
// matrix is easy to test without any HTTP machinery.
package authz

import (
	"errors"

	"github.com/harmonia-music/account-service/internal/domain/entity"
	"github.com/harmonia-music/account-service/internal/session"
)

// ErrAccessDenied is the distinguishable access-denied outcome. It maps to
// a redirect or 403 at the transport layer, never a panic.
var ErrAccessDenied = errors.New("access denied")

// Policy declares who may run an operation.
type Policy int

const (
	// Public passes for everyone, signed in or not.
	Public Policy = iota
	// Authenticated passes for any signed-in identity.
	Authenticated
	// AdminOnly passes only for admin sessions.
	AdminOnly
	// MemberOnly passes only for member sessions.
	MemberOnly
)

func (p Policy) String() string {
	switch p {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin-only"
	case MemberOnly:
		return "member-only"
	default:
		return "unknown"
	}
}

// Check evaluates the policy against sess, where nil means anonymous.
// It returns nil when access is allowed and ErrAccessDenied otherwise.
func Check(sess *session.Session, p Policy) error {
	switch p {
	case Public:
		return nil
	case Authenticated:
		if sess == nil {
			return ErrAccessDenied
		}
		return nil
	case AdminOnly:
		return requireRole(sess, entity.RoleAdmin)
	case MemberOnly:
		return requireRole(sess, entity.RoleMember)
	default:
		return ErrAccessDenied
	}
}

func requireRole(sess *session.Session, role entity.Role) error {
	if sess == nil || sess.Role != role {
		return ErrAccessDenied
	}
	return nil
}
