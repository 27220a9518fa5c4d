package ports

// PasswordHasher hashes and verifies credentials on behalf of an identity store.
type PasswordHasher interface {
	// Check returns the password policy violations of password, if any.
	Check(password string) []string
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}
