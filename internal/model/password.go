package model

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
	// DummyVerify spends the same work as Verify against a fixed hash.
	DummyVerify(password string)
}
