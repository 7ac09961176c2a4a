package auth

import "errors"

var (
	ErrValidation = errors.New("missing required field")

	// Taken by register when the email is already on file.
	ErrEmailTaken = errors.New("email already taken")

	// Returned by login for unknown email AND wrong password alike, so a
	// caller cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Terminal for the session lineage: the presented refresh token does
	// not verify or does not match the value on file. Forces a full
	// re-login.
	ErrRefreshTokenInvalid = errors.New("refresh token invalid")

	// The refresh token's subject no longer resolves to an account.
	ErrUserNotFound = errors.New("user not found")
)
