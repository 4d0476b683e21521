package application

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonia-music/account-service/internal/domain/entity"
	"github.com/harmonia-music/account-service/internal/infrastructure/memory"
	"github.com/harmonia-music/account-service/internal/session"
	"github.com/harmonia-music/account-service/pkg/blobstore"
	"github.com/harmonia-music/account-service/pkg/helpers"
	"github.com/harmonia-music/account-service/pkg/mailer"
)

type fixture struct {
	svc      *Service
	repo     *memory.IdentityRepository
	photos   *blobstore.MemoryStore
	notifier *mailer.RecorderNotifier
	sessions *session.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.NewIdentityRepository()
	photos := blobstore.NewMemoryStore()
	notifier := &mailer.RecorderNotifier{}
	sessions := session.NewManager("test-secret", session.NewMemoryStore(), time.Hour, 30*24*time.Hour)
	return &fixture{
		svc:      NewService(repo, sessions, photos, notifier, nil),
		repo:     repo,
		photos:   photos,
		notifier: notifier,
		sessions: sessions,
	}
}

func validPhoto() *blobstore.File {
	return &blobstore.File{
		Name:        "photo.jpg",
		ContentType: "image/jpeg",
		Size:        2048,
		Reader:      strings.NewReader("jpeg-bytes"),
	}
}

func (f *fixture) register(t *testing.T, email, password, name string) *entity.Identity {
	t.Helper()
	m, err := f.svc.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: password,
		Name:     name,
		Photo:    validPhoto(),
	})
	require.NoError(t, err)
	return m
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("Secret1"))
	assert.True(t, ValidPassword("abc12"))
	assert.False(t, ValidPassword("ab1"))                       // too short
	assert.False(t, ValidPassword("password"))                  // no digit
	assert.False(t, ValidPassword("1234567"))                   // no letter
	assert.False(t, ValidPassword(strings.Repeat("a1", 51)))    // too long
	assert.True(t, ValidPassword(strings.Repeat("a", 99)+"1"))  // at max
}

func TestRegister_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m := f.register(t, "a@x.com", "Secret1", "Alice")
	assert.Equal(t, entity.RoleMember, m.Role)
	assert.NotEmpty(t, m.PhotoURL)
	assert.True(t, f.photos.Exists(m.PhotoURL))
	assert.NotEqual(t, "Secret1", m.PasswordHash)

	avail, err := f.svc.CheckEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, avail)

	// registration does not sign the member in: no session token exists yet,
	// so any token presented is anonymous
	assert.Nil(t, f.sessions.Current(ctx, ""))
}

func TestRegister_CollectsAllFieldErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "Secret1", "Alice")

	_, err := f.svc.Register(ctx, RegisterInput{
		Email:    "a@x.com",
		Password: "short",
		Name:     "  ",
		Photo:    &blobstore.File{Name: "p.gif", ContentType: "image/gif", Size: 10},
	})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok, "want FieldErrors, got %v", err)
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "password")
	assert.Contains(t, fe, "name")
	assert.Contains(t, fe, "photo")

	// nothing was mutated: still exactly one record, one saved photo
	assert.Len(t, f.photos.Saved, 1)
}

func TestRegister_DuplicateEmailNeverCreatesSecondRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.register(t, "a@x.com", "Secret1", "Alice")

	_, err := f.svc.Register(ctx, RegisterInput{
		Email:    "a@x.com",
		Password: "Other99",
		Name:     "Bob",
		Photo:    validPhoto(),
	})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Email already registered.", fe["email"])

	got, err := f.repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, first.PhotoURL, got.PhotoURL)
}

func TestRegister_ConcurrentSameEmailOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for n := 0; n < attempts; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = f.svc.Register(ctx, RegisterInput{
				Email:    "race@x.com",
				Password: "Secret1",
				Name:     "Racer",
				Photo:    validPhoto(),
			})
		}(n)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		fe, ok := AsFieldErrors(err)
		require.True(t, ok, "unexpected error: %v", err)
		assert.Contains(t, fe, "email")
	}
	assert.Equal(t, 1, winners)

	// losers' already-saved photos were cleaned up: only the winner's remains
	got, err := f.repo.GetByEmail(ctx, "race@x.com")
	require.NoError(t, err)
	assert.True(t, f.photos.Exists(got.PhotoURL))
	for _, url := range f.photos.Saved {
		if url != got.PhotoURL {
			assert.False(t, f.photos.Exists(url), "orphan photo %s", url)
		}
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "Secret1", "Alice")

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := f.svc.Login(ctx, "nobody@x.com", "Secret1", false)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := f.svc.Login(ctx, "a@x.com", "Wrong99", false)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("success establishes member session", func(t *testing.T) {
		tok, u, err := f.svc.Login(ctx, "a@x.com", "Secret1", false)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleMember, u.Role)

		sess := f.sessions.Current(ctx, tok.Value)
		require.NotNil(t, sess)
		assert.Equal(t, "a@x.com", sess.Email)
		assert.Equal(t, entity.RoleMember, sess.Role)
		assert.False(t, sess.Remember)
	})

	t.Run("remember flag carried into session", func(t *testing.T) {
		tok, _, err := f.svc.Login(ctx, "a@x.com", "Secret1", true)
		require.NoError(t, err)
		sess := f.sessions.Current(ctx, tok.Value)
		require.NotNil(t, sess)
		assert.True(t, sess.Remember)
		assert.True(t, tok.Remember)
	})

	t.Run("admin session carries admin role", func(t *testing.T) {
		hashAdmin := mustHash(t, "Admin99")
		f.repo.Seed(entity.NewAdmin("boss@x.com", hashAdmin, "Boss"))

		tok, u, err := f.svc.Login(ctx, "boss@x.com", "Admin99", false)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, u.Role)
		sess := f.sessions.Current(ctx, tok.Value)
		require.NotNil(t, sess)
		assert.Equal(t, entity.RoleAdmin, sess.Role)
	})
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "Secret1", "Alice")

	tok, _, err := f.svc.Login(ctx, "a@x.com", "Secret1", false)
	require.NoError(t, err)
	require.NotNil(t, f.sessions.Current(ctx, tok.Value))

	require.NoError(t, f.svc.Logout(ctx, tok.Value))
	assert.Nil(t, f.sessions.Current(ctx, tok.Value))

	// idempotent from any state
	require.NoError(t, f.svc.Logout(ctx, tok.Value))
	require.NoError(t, f.svc.Logout(ctx, ""))
}

func TestUpdatePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "Secret1", "Alice")
	sess := &session.Session{Email: "a@x.com", Role: entity.RoleMember}

	t.Run("wrong current password", func(t *testing.T) {
		err := f.svc.UpdatePassword(ctx, sess, "Wrong99", "Secret2")
		assert.ErrorIs(t, err, ErrWrongCurrentPassword)
	})

	t.Run("invalid new password", func(t *testing.T) {
		err := f.svc.UpdatePassword(ctx, sess, "Secret1", "bad")
		_, ok := AsFieldErrors(err)
		assert.True(t, ok)
	})

	t.Run("record vanished", func(t *testing.T) {
		ghost := &session.Session{Email: "ghost@x.com", Role: entity.RoleMember}
		err := f.svc.UpdatePassword(ctx, ghost, "Secret1", "Secret2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rotation", func(t *testing.T) {
		require.NoError(t, f.svc.UpdatePassword(ctx, sess, "Secret1", "Secret2"))

		_, _, err := f.svc.Login(ctx, "a@x.com", "Secret1", false)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, _, err = f.svc.Login(ctx, "a@x.com", "Secret2", false)
		assert.NoError(t, err)
	})
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.register(t, "a@x.com", "Secret1", "Alice")
	sess := &session.Session{Email: "a@x.com", Role: entity.RoleMember}

	t.Run("name only keeps photo", func(t *testing.T) {
		updated, err := f.svc.UpdateProfile(ctx, sess, UpdateProfileInput{Name: "Alicia"})
		require.NoError(t, err)
		assert.Equal(t, "Alicia", updated.Name)
		assert.Equal(t, m.PhotoURL, updated.PhotoURL)
		assert.Empty(t, f.photos.Deleted)
	})

	t.Run("invalid photo mutates nothing", func(t *testing.T) {
		_, err := f.svc.UpdateProfile(ctx, sess, UpdateProfileInput{
			Name:  "Alicia",
			Photo: &blobstore.File{Name: "p.gif", ContentType: "image/gif", Size: 10},
		})
		_, ok := AsFieldErrors(err)
		require.True(t, ok)

		got, err := f.repo.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, m.PhotoURL, got.PhotoURL)
	})

	t.Run("photo replacement deletes exactly the old blob", func(t *testing.T) {
		oldURL := m.PhotoURL
		savedBefore := len(f.photos.Saved)

		updated, err := f.svc.UpdateProfile(ctx, sess, UpdateProfileInput{
			Name:  "Alicia",
			Photo: validPhoto(),
		})
		require.NoError(t, err)
		assert.NotEqual(t, oldURL, updated.PhotoURL)

		assert.Len(t, f.photos.Saved, savedBefore+1)
		assert.Equal(t, []string{oldURL}, f.photos.Deleted)
		assert.True(t, f.photos.Exists(updated.PhotoURL))
		assert.False(t, f.photos.Exists(oldURL))

		got, err := f.repo.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, updated.PhotoURL, got.PhotoURL)
	})

	t.Run("vanished record", func(t *testing.T) {
		ghost := &session.Session{Email: "ghost@x.com", Role: entity.RoleMember}
		_, err := f.svc.UpdateProfile(ctx, ghost, UpdateProfileInput{Name: "X"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("admin has no member profile", func(t *testing.T) {
		f.repo.Seed(entity.NewAdmin("boss@x.com", mustHash(t, "Admin99"), "Boss"))
		adminSess := &session.Session{Email: "boss@x.com", Role: entity.RoleAdmin}
		_, err := f.svc.UpdateProfile(ctx, adminSess, UpdateProfileInput{Name: "Boss"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "Secret1", "Alice")

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.svc.ResetPassword(ctx, "nobody@x.com")
		assert.ErrorIs(t, err, ErrEmailNotFound)
		assert.Empty(t, f.notifier.Jobs)
	})

	t.Run("reset rotates to a valid generated password", func(t *testing.T) {
		plaintext, err := f.svc.ResetPassword(ctx, "a@x.com")
		require.NoError(t, err)
		assert.True(t, ValidPassword(plaintext), "generated password %q fails shape rules", plaintext)

		// old password no longer works, new one does
		_, _, err = f.svc.Login(ctx, "a@x.com", "Secret1", false)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, _, err = f.svc.Login(ctx, "a@x.com", plaintext, false)
		assert.NoError(t, err)

		// plaintext handed to the notifier for out-of-band delivery
		require.Len(t, f.notifier.Jobs, 1)
		job := f.notifier.Jobs[0]
		assert.Equal(t, "a@x.com", job.To)
		assert.Equal(t, mailer.TemplateResetPassword, job.Template)
		assert.Equal(t, plaintext, job.Data["Password"])
	})

	t.Run("notifier failure is not surfaced", func(t *testing.T) {
		f.notifier.Err = assert.AnError
		plaintext, err := f.svc.ResetPassword(ctx, "a@x.com")
		require.NoError(t, err)
		assert.NotEmpty(t, plaintext)
	})
}

// End-to-end walk through the account lifecycle.
func TestAccountLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "a@x.com", "Secret1", "Alice")

	avail, err := f.svc.CheckEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, avail)

	tok, _, err := f.svc.Login(ctx, "a@x.com", "Secret1", false)
	require.NoError(t, err)
	sess := f.sessions.Current(ctx, tok.Value)
	require.NotNil(t, sess)
	assert.Equal(t, entity.RoleMember, sess.Role)

	require.NoError(t, f.svc.UpdatePassword(ctx, sess, "Secret1", "Secret2"))

	_, _, err = f.svc.Login(ctx, "a@x.com", "Secret1", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.svc.Login(ctx, "a@x.com", "Secret2", false)
	assert.NoError(t, err)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := helpers.HashPassword(plain)
	require.NoError(t, err)
	return hash
}
