package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials deliberately covers both unknown email and
	// wrong password, so a login failure never reveals which was wrong.
	ErrInvalidCredentials = errors.New("login credentials not matched")

	// ErrEmailNotFound is returned by ResetPassword for unknown emails.
	ErrEmailNotFound = errors.New("email not found")

	// ErrWrongCurrentPassword is returned by UpdatePassword when the
	// caller's current password does not verify.
	ErrWrongCurrentPassword = errors.New("current password not matched")

	// ErrNotFound means the caller's record vanished between request and
	// load. Handlers treat it as a redirect home, not a hard failure.
	ErrNotFound = errors.New("account not found")
)

// FieldErrors collects per-field validation messages. Operations evaluate
// every check before any store mutation, so the caller sees all problems
// at once rather than one per attempt.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsFieldErrors unwraps err into FieldErrors when possible.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
