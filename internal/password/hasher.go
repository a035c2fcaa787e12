// Package password hashes and verifies user passwords.
//
// Hashes are self-describing strings: argon2id hashes use the PHC format
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash) and bcrypt hashes use the
// modular crypt format ($2a$...). Verify accepts both regardless of which
// algorithm the Hasher produces, so switching algorithms keeps old
// passwords usable.
package password

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/accounts-server/internal/config"
	"github.com/dtroode/accounts-server/internal/model"
)

var (
	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("password is empty")
	// ErrUnknownHashFormat is returned for a stored hash no algorithm recognizes.
	ErrUnknownHashFormat = errors.New("unknown password hash format")
)

const dummyPassword = "dummypassword"

type algorithm interface {
	hash(password string) (string, error)
	verify(password, encoded string) (bool, error)
	recognizes(encoded string) bool
}

var _ model.PasswordHasher = (*Hasher)(nil)

// Hasher hashes with one algorithm and verifies any supported format.
type Hasher struct {
	active    algorithm
	known     []algorithm
	dummyHash string
}

// New creates a Hasher for the configured algorithm and precomputes its dummy hash.
func New(cfg config.Password) (*Hasher, error) {
	argon := newArgon2id(cfg.KDF.Time, cfg.KDF.MemKiB, cfg.KDF.Par)
	bc := bcryptAlgorithm{cost: cfg.BcryptCost}

	var active algorithm
	switch cfg.Algorithm {
	case config.HashArgon2id:
		if argon.params.Iterations == 0 || argon.params.Memory == 0 || argon.params.Parallelism == 0 {
			return nil, errors.New("argon2id parameters must be positive")
		}
		active = argon
	case config.HashBcrypt:
		if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", cfg.BcryptCost)
		}
		active = bc
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm %q", cfg.Algorithm)
	}

	h := &Hasher{
		active: active,
		known:  []algorithm{argon, bc},
	}

	dummy, err := h.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dummy hash: %w", err)
	}
	h.dummyHash = dummy

	return h, nil
}

// Hash returns the encoded hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	return h.active.hash(password)
}

// Verify reports whether password matches the encoded hash.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	for _, alg := range h.known {
		if alg.recognizes(encoded) {
			return alg.verify(password, encoded)
		}
	}
	return false, ErrUnknownHashFormat
}

// DummyVerify verifies password against a precomputed hash and discards the result.
func (h *Hasher) DummyVerify(password string) {
	_, _ = h.Verify(password, h.dummyHash)
}

type bcryptAlgorithm struct {
	cost int
}

func (b bcryptAlgorithm) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (b bcryptAlgorithm) verify(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
	return true, nil
}

func (b bcryptAlgorithm) recognizes(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}
