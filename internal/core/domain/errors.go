package domain

import "errors"

// Failure reasons returned to callers as Result failures.
const (
	ReasonUserNotFound       = "User not found"
	ReasonInvalidCredentials = "Invalid email or password"
	ReasonEmailTaken         = "Email is already taken"
	ReasonUsernameTaken      = "Username is already taken"
	ReasonRegistrationFailed = "Failed to register user"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrIdentityRejected  = errors.New("identity rejected by provider")
	ErrMissingSigningKey = errors.New("token signing key is not configured")
	ErrWeakSigningKey    = errors.New("token signing key is too short")
	ErrInvalidToken      = errors.New("invalid token")
)
