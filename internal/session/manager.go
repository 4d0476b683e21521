package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/harmonia-music/account-service/internal/domain/entity"
)

// Token is the client-side half of a session: a signed JWT plus the expiry
// the cookie layer needs to decide between a session cookie and a
// persistent one.
type Token struct {
	Value     string
	ExpiresAt time.Time
	Remember  bool
}

// Claims binds the identity, role, and remember flag into the signed token.
// The sid links the token back to the server-side session record.
type Claims struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	SID      string `json:"sid"`
	Remember bool   `json:"remember"`
	jwt.RegisteredClaims
}

// Manager implements the session lifecycle: Anonymous -> Authenticated via
// SignIn, back to Anonymous via SignOut. Signing in while already signed in
// simply issues a fresh session that supersedes the old token.
type Manager struct {
	secret      []byte
	store       Store
	sessionTTL  time.Duration
	rememberTTL time.Duration
}

func NewManager(secret string, store Store, sessionTTL, rememberTTL time.Duration) *Manager {
	return &Manager{
		secret:      []byte(secret),
		store:       store,
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
	}
}

// SignIn establishes an authenticated session for email with the given
// role. When remember is true the session gets the long lifetime, so the
// cookie layer issues it as persistent; otherwise it is scoped to the
// client's lifetime.
func (m *Manager) SignIn(ctx context.Context, email string, role entity.Role, remember bool) (Token, error) {
	ttl := m.sessionTTL
	if remember {
		ttl = m.rememberTTL
	}

	s := &Session{
		SID:      uuid.NewString(),
		Email:    email,
		Role:     role,
		Remember: remember,
	}
	if err := m.store.Put(ctx, s, ttl); err != nil {
		return Token{}, err
	}

	exp := time.Now().Add(ttl)
	claims := &Claims{
		Email:    email,
		Role:     string(role),
		SID:      s.SID,
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ExpiresAt: exp, Remember: remember}, nil
}

// SignOut revokes the session carried by token. It is idempotent: an
// invalid, expired, or already revoked token is a no-op, not an error.
func (m *Manager) SignOut(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.SID)
}

// Current resolves token to the live session, or nil when the caller is
// anonymous: no token, a bad signature, an expired token, or a revoked
// server-side record all land in the same anonymous outcome.
func (m *Manager) Current(ctx context.Context, token string) *Session {
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	s, err := m.store.Get(ctx, claims.SID)
	if err != nil || s == nil {
		return nil
	}
	return s
}

func (m *Manager) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
