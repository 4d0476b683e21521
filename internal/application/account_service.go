// Package application orchestrates the account operations: login, logout,
// registration, credential updates, profile updates, and password reset.
// It validates first, mutates once, and maps every failure to a
// caller-recoverable outcome.
package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/harmonia-music/account-service/internal/domain/entity"
	"github.com/harmonia-music/account-service/internal/domain/repository"
	"github.com/harmonia-music/account-service/internal/session"
	"github.com/harmonia-music/account-service/pkg/blobstore"
	"github.com/harmonia-music/account-service/pkg/helpers"
	"github.com/harmonia-music/account-service/pkg/mailer"
)

// PhotoFolder is the blob store folder holding member photos.
const PhotoFolder = "photos"

// Service wires the identity store, session manager, blob store, and
// notifier into the account operations.
type Service struct {
	Repo     repository.IdentityRepository
	Sessions *session.Manager
	Photos   blobstore.Store
	Notifier mailer.Notifier
	Logger   *logrus.Logger
}

func NewService(repo repository.IdentityRepository, sessions *session.Manager, photos blobstore.Store, notifier mailer.Notifier, logger *logrus.Logger) *Service {
	return &Service{
		Repo:     repo,
		Sessions: sessions,
		Photos:   photos,
		Notifier: notifier,
		Logger:   logger,
	}
}

// ValidPassword reports whether p satisfies the password shape rules:
// 5 to 100 characters with at least one letter and one digit. Registration,
// password updates, and generated reset passwords all share this rule.
func ValidPassword(p string) bool {
	if len(p) < 5 || len(p) > 100 {
		return false
	}
	hasLetter := strings.ContainsFunc(p, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	})
	hasDigit := strings.ContainsAny(p, "0123456789")
	return hasLetter && hasDigit
}

// Login verifies the credentials and, on success, establishes a session.
// Unknown email and wrong password collapse into ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string, remember bool) (session.Token, *entity.Identity, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return session.Token{}, nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return session.Token{}, nil, ErrInvalidCredentials
	}

	tok, err := s.Sessions.SignIn(ctx, u.Email, u.Role, remember)
	if err != nil {
		s.logError("sign in failed", err, logrus.Fields{"email": u.Email})
		return session.Token{}, nil, ErrInvalidCredentials
	}
	return tok, u, nil
}

// Logout revokes the caller's session. Logging out while anonymous is a
// no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.Sessions.SignOut(ctx, token)
}

// RegisterInput carries the registration payload. Photo is required.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Photo    *blobstore.File
}

// Register creates a member account. Every field check runs before any
// mutation so the caller sees all problems at once; uniqueness is
// ultimately enforced by the store at commit, so a racing duplicate still
// fails cleanly. Registration does not sign the new member in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.Identity, error) {
	fe := FieldErrors{}

	if in.Email == "" {
		fe["email"] = "Email is required."
	} else if avail, err := s.Repo.EmailAvailable(ctx, in.Email); err != nil {
		return nil, err
	} else if !avail {
		fe["email"] = "Email already registered."
	}

	if !ValidPassword(in.Password) {
		fe["password"] = "Password must be 5-100 characters with at least one letter and one digit."
	}
	if strings.TrimSpace(in.Name) == "" {
		fe["name"] = "Name is required."
	}
	if msg := s.Photos.Validate(in.Photo); msg != "" {
		fe["photo"] = msg
	}

	if len(fe) > 0 {
		return nil, fe
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	photoURL, err := s.Photos.Save(ctx, in.Photo, PhotoFolder)
	if err != nil {
		return nil, err
	}

	m := entity.NewMember(in.Email, hash, in.Name, photoURL)
	if err := s.Repo.CreateMember(ctx, m); err != nil {
		// The availability pre-check raced a concurrent registration; the
		// store's commit-time constraint is authoritative.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.cleanupPhoto(ctx, photoURL)
			return nil, FieldErrors{"email": "Email already registered."}
		}
		s.cleanupPhoto(ctx, photoURL)
		return nil, err
	}
	return m, nil
}

// CheckEmail reports whether email is still available. Pure query.
func (s *Service) CheckEmail(ctx context.Context, email string) (bool, error) {
	return s.Repo.EmailAvailable(ctx, email)
}

// UpdatePassword rotates the caller's password after verifying the current
// one. It works for both roles and requires an authenticated session, not
// fresh credentials.
func (s *Service) UpdatePassword(ctx context.Context, sess *session.Session, current, newPassword string) error {
	u, err := s.Repo.GetByEmail(ctx, sess.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !helpers.CompareHashAndPassword(u.PasswordHash, current) {
		return ErrWrongCurrentPassword
	}
	if !ValidPassword(newPassword) {
		return FieldErrors{"new": "Password must be 5-100 characters with at least one letter and one digit."}
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdateHash(ctx, u.Email, hash)
}

// UpdateProfileInput carries a profile mutation. Photo is optional; nil
// keeps the current one.
type UpdateProfileInput struct {
	Name  string
	Photo *blobstore.File
}

// Profile returns the identity behind an authenticated session.
func (s *Service) Profile(ctx context.Context, sess *session.Session) (*entity.Identity, error) {
	m, err := s.Repo.GetByEmail(ctx, sess.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// UpdateProfile updates the member's display name and optionally replaces
// the photo. The new photo is saved and the record committed before the
// old photo is deleted, so the record never references a missing file; a
// failure in between leaves at worst an orphaned blob.
func (s *Service) UpdateProfile(ctx context.Context, sess *session.Session, in UpdateProfileInput) (*entity.Identity, error) {
	m, err := s.Repo.GetByEmail(ctx, sess.Email)
	if err != nil || !m.IsMember() {
		if err == nil || errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fe := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		fe["name"] = "Name is required."
	}
	if in.Photo != nil {
		if msg := s.Photos.Validate(in.Photo); msg != "" {
			fe["photo"] = msg
		}
	}
	if len(fe) > 0 {
		return nil, fe
	}

	oldURL := m.PhotoURL
	var newURL *string
	if in.Photo != nil {
		url, err := s.Photos.Save(ctx, in.Photo, PhotoFolder)
		if err != nil {
			return nil, err
		}
		newURL = &url
	}

	if err := s.Repo.UpdateMemberProfile(ctx, m.Email, in.Name, newURL); err != nil {
		if newURL != nil {
			s.cleanupPhoto(ctx, *newURL)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if newURL != nil && oldURL != "" {
		// Record already points at the new file; losing this delete only
		// orphans the old blob.
		if err := s.Photos.Delete(ctx, oldURL, PhotoFolder); err != nil {
			s.logError("delete old photo failed", err, logrus.Fields{"email": m.Email, "url": oldURL})
		}
	}

	m.Name = in.Name
	if newURL != nil {
		m.PhotoURL = *newURL
	}
	return m, nil
}

// ResetPassword replaces the account's password with a generated one and
// hands the plaintext to the notifier for out-of-band delivery. The
// plaintext is also returned for the transport layer to display; notifier
// failures are logged, never surfaced.
func (s *Service) ResetPassword(ctx context.Context, email string) (string, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrEmailNotFound
		}
		return "", err
	}

	password, err := helpers.RandomPassword()
	if err != nil {
		return "", err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return "", err
	}
	if err := s.Repo.UpdateHash(ctx, u.Email, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrEmailNotFound
		}
		return "", err
	}

	if s.Notifier != nil {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: mailer.TemplateResetPassword,
			Data:     map[string]any{"Name": u.Name, "Password": password},
		}
		if err := s.Notifier.Notify(ctx, job); err != nil {
			s.logError("queue reset email failed", err, logrus.Fields{"email": u.Email})
		}
	}
	return password, nil
}

func (s *Service) cleanupPhoto(ctx context.Context, url string) {
	if err := s.Photos.Delete(ctx, url, PhotoFolder); err != nil {
		s.logError("cleanup photo failed", err, logrus.Fields{"url": url})
	}
}

func (s *Service) logError(msg string, err error, fields logrus.Fields) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithError(err).WithFields(fields).Error(msg)
}
