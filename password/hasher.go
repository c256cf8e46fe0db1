package password

import (
	"errors"
	"strings"
)

// MinSecretBytes is the shortest secret accepted by Hash.
const MinSecretBytes = 8

var (
	// ErrSecretTooShort is returned by Hash when the secret is shorter than MinSecretBytes.
	ErrSecretTooShort = errors.New("password must be at least 8 bytes")
	// ErrSecretTooLong is returned by bcrypt hashing for secrets over 72 bytes.
	ErrSecretTooLong = errors.New("password must be at most 72 bytes")
	// ErrUnsupportedAlgorithm is returned when a hasher is configured with an unknown algorithm.
	ErrUnsupportedAlgorithm = errors.New("unsupported password algorithm")
)

// Algorithm names a supported hashing scheme.
type Algorithm string

const (
	AlgorithmArgon2id Algorithm = "argon2id"
	AlgorithmBcrypt   Algorithm = "bcrypt"
)

// Hasher hashes secrets and verifies them against stored hashes.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, encoded string) bool
}

// Detect returns the algorithm that produced encoded, or "" if the format is unknown.
func Detect(encoded string) Algorithm {
	switch {
	case strings.HasPrefix(encoded, "$"+algorithmID+"$"):
		return AlgorithmArgon2id
	case strings.HasPrefix(encoded, "$2a$"),
		strings.HasPrefix(encoded, "$2b$"),
		strings.HasPrefix(encoded, "$2y$"):
		return AlgorithmBcrypt
	default:
		return ""
	}
}

// Multi hashes with a primary algorithm and verifies every supported format.
type Multi struct {
	primary Algorithm
	argon   *Argon2
	bcrypt  *Bcrypt
}

// NewMulti builds a Multi. Both schemes are always available for verification;
// primary selects which one Hash uses.
func NewMulti(primary Algorithm, argonCfg Config, bcryptCost int) (*Multi, error) {
	if primary != AlgorithmArgon2id && primary != AlgorithmBcrypt {
		return nil, ErrUnsupportedAlgorithm
	}

	argon, err := NewArgon2(argonCfg)
	if err != nil {
		return nil, err
	}
	bc, err := NewBcrypt(bcryptCost)
	if err != nil {
		return nil, err
	}

	return &Multi{primary: primary, argon: argon, bcrypt: bc}, nil
}

// Primary reports the algorithm used by Hash.
func (m *Multi) Primary() Algorithm {
	return m.primary
}

// Hash hashes secret with the primary algorithm.
func (m *Multi) Hash(secret string) (string, error) {
	if m.primary == AlgorithmBcrypt {
		return m.bcrypt.Hash(secret)
	}
	return m.argon.Hash(secret)
}

// Verify checks secret against encoded, whichever supported scheme produced it.
// Unknown or malformed formats report false.
func (m *Multi) Verify(secret, encoded string) bool {
	switch Detect(encoded) {
	case AlgorithmArgon2id:
		return m.argon.Verify(secret, encoded)
	case AlgorithmBcrypt:
		return m.bcrypt.Verify(secret, encoded)
	default:
		return false
	}
}

// NeedsUpgrade reports whether encoded was produced by a different algorithm
// than the primary one, or with weaker parameters.
func (m *Multi) NeedsUpgrade(encoded string) bool {
	algo := Detect(encoded)
	if algo != m.primary {
		return true
	}
	if algo == AlgorithmBcrypt {
		return m.bcrypt.NeedsUpgrade(encoded)
	}
	upgrade, err := m.argon.NeedsUpgrade(encoded)
	return err != nil || upgrade
}
