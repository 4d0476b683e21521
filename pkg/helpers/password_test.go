package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("Secret1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "Secret1")

	assert.True(t, CompareHashAndPassword(hash, "Secret1"))
	assert.False(t, CompareHashAndPassword(hash, "Secret2"))
	assert.False(t, CompareHashAndPassword(hash, ""))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("Secret1")
	require.NoError(t, err)
	h2, err := HashPassword("Secret1")
	require.NoError(t, err)

	// embedded random salt makes each token unique
	assert.NotEqual(t, h1, h2)
	assert.True(t, CompareHashAndPassword(h1, "Secret1"))
	assert.True(t, CompareHashAndPassword(h2, "Secret1"))
}

func TestCompareHashAndPassword_MalformedHash(t *testing.T) {
	assert.False(t, CompareHashAndPassword("", "Secret1"))
	assert.False(t, CompareHashAndPassword("not-a-bcrypt-token", "Secret1"))
}

func TestRandomPassword_Shape(t *testing.T) {
	for n := 0; n < 100; n++ {
		pw, err := RandomPassword()
		require.NoError(t, err)
		assert.Len(t, pw, randPasswordLen)
		assert.True(t, strings.ContainsAny(pw, passwordLetters), "missing letter: %q", pw)
		assert.True(t, strings.ContainsAny(pw, passwordDigits), "missing digit: %q", pw)
	}
}

func TestRandomPassword_NotRepeating(t *testing.T) {
	seen := make(map[string]bool)
	for n := 0; n < 50; n++ {
		pw, err := RandomPassword()
		require.NoError(t, err)
		assert.False(t, seen[pw], "duplicate password %q", pw)
		seen[pw] = true
	}
}
