package password

import (
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
)

const argonPrefix = "$argon2id$"

type argon2idAlgorithm struct {
	params argon2id.Params
}

func newArgon2id(time, memKiB uint32, threads uint8) argon2idAlgorithm {
	return argon2idAlgorithm{params: argon2id.Params{
		Memory:      memKiB,
		Iterations:  time,
		Parallelism: threads,
		SaltLength:  16,
		KeyLength:   32,
	}}
}

func (a argon2idAlgorithm) hash(password string) (string, error) {
	encoded, err := argon2id.CreateHash(password, &a.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return encoded, nil
}

// verify uses the parameters stored in encoded, not the receiver's.
func (a argon2idAlgorithm) verify(password, encoded string) (bool, error) {
	params, _, key, err := argon2id.DecodeHash(encoded)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnknownHashFormat, err)
	}
	// argon2 panics on zero parallelism, and an empty key matches anything
	if params.Iterations == 0 || params.Memory == 0 || params.Parallelism == 0 || len(key) == 0 {
		return false, fmt.Errorf("%w: invalid argon2id params", ErrUnknownHashFormat)
	}

	ok, err := argon2id.ComparePasswordAndHash(password, encoded)
	if err != nil {
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
	return ok, nil
}

func (a argon2idAlgorithm) recognizes(encoded string) bool {
	return strings.HasPrefix(encoded, argonPrefix)
}
