package helpers

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a bcrypt token for the plain text password. The
// token embeds its own salt, so verification needs no separate salt storage.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the bcrypt token.
// A malformed token simply yields false, never an error or panic.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
