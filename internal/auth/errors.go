package auth

import "errors"

var (
	// ErrEmailTaken is returned by Signup when the normalized email is
	// already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// failed password check. The two cases are deliberately
	// indistinguishable to prevent user enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized is returned when a token is missing, malformed,
	// expired, or revoked.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserNotFound is returned when a token decodes to an identity that
	// no longer exists in the credential store.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccessExpired wraps ErrUnauthorized for the expired-access-token
	// case, which clients recover from via the refresh flow.
	ErrAccessExpired = errors.New("access token expired")
)
