package helpers

import (
	"crypto/rand"
	"math/big"
)

const (
	randPasswordLen = 10

	passwordLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	passwordDigits  = "0123456789"
)

// RandomPassword generates a reset password from a cryptographic source.
// The result always contains at least one letter and one digit, so it
// satisfies the same shape rules registration enforces.
func RandomPassword() (string, error) {
	alphabet := passwordLetters + passwordDigits

	buf := make([]byte, randPasswordLen)
	for i := range buf {
		c, err := randIndex(len(alphabet))
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[c]
	}

	// Pin one letter and one digit at random positions to guarantee shape.
	li, err := randIndex(randPasswordLen)
	if err != nil {
		return "", err
	}
	lc, err := randIndex(len(passwordLetters))
	if err != nil {
		return "", err
	}
	buf[li] = passwordLetters[lc]

	di, err := randIndex(randPasswordLen - 1)
	if err != nil {
		return "", err
	}
	if di >= li {
		di++
	}
	dc, err := randIndex(len(passwordDigits))
	if err != nil {
		return "", err
	}
	buf[di] = passwordDigits[dc]

	return string(buf), nil
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
