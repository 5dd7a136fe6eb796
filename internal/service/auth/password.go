package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/blokmap/blokmap-api/internal/config"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, ErrPasswordMismatch on mismatch.
	Compare(hashedPassword, password string) error
}

// PasswordHasher hashes new passwords and verifies existing ones.
type PasswordHasher interface {
	PasswordVerifier
	Hash(password string) (string, error)
}

// NewPasswordHasher returns the hasher selected by cfg.PasswordHasher. The
// result verifies hashes of every supported format, so switching algorithms
// does not lock out existing users.
func NewPasswordHasher(cfg config.AuthConfig) (PasswordHasher, error) {
	bcryptHasher := NewBcryptHasher(cfg.BcryptCost)
	argonHasher := NewArgon2idHasher(DefaultArgon2idParams())

	switch cfg.PasswordHasher {
	case "bcrypt":
		return NewMultiHasher(bcryptHasher, argonHasher), nil
	case "argon2id", "":
		return NewMultiHasher(argonHasher, bcryptHasher), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", cfg.PasswordHasher)
	}
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher. Out-of-range costs fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash implements PasswordHasher.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password with bcrypt: %w", err)
	}
	return string(hashed), nil
}

// Compare implements PasswordVerifier.
func (h *BcryptHasher) Compare(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

func (h *BcryptHasher) handles(hashedPassword string) bool {
	return strings.HasPrefix(hashedPassword, "$2a$") ||
		strings.HasPrefix(hashedPassword, "$2b$") ||
		strings.HasPrefix(hashedPassword, "$2y$")
}

// Argon2idParams are the tuning knobs of an argon2id hash.
type Argon2idParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2idParams follows the RFC 9106 second recommended option.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2idHasher implements PasswordHasher using argon2id with PHC string encoding:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
type Argon2idHasher struct {
	params Argon2idParams
}

// NewArgon2idHasher creates an Argon2idHasher.
func NewArgon2idHasher(params Argon2idParams) *Argon2idHasher {
	return &Argon2idHasher{params: params}
}

// Hash implements PasswordHasher.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt,
		h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Compare implements PasswordVerifier. The parameters are read from the hash,
// not from h, so hashes made with older settings still verify.
func (h *Argon2idHasher) Compare(hashedPassword, password string) error {
	params, salt, key, err := decodeArgon2idHash(hashedPassword)
	if err != nil {
		return err
	}

	other := argon2.IDKey([]byte(password), salt,
		params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	if subtle.ConstantTimeCompare(key, other) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

func (h *Argon2idHasher) handles(hashedPassword string) bool {
	return strings.HasPrefix(hashedPassword, "$argon2id$")
}

func decodeArgon2idHash(encoded string) (Argon2idParams, []byte, []byte, error) {
	var params Argon2idParams

	// "", "argon2id", "v=19", "m=...,t=...,p=...", salt, hash
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return params, nil, nil, ErrUnsupportedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedHash, err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: argon2 version %d", ErrUnsupportedHash, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return params, nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedHash, err)
	}
	if params.Iterations == 0 || params.Parallelism == 0 {
		return params, nil, nil, fmt.Errorf("%w: zero iterations or parallelism", ErrUnsupportedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedHash, err)
	}
	if len(key) == 0 {
		return params, nil, nil, fmt.Errorf("%w: empty key", ErrUnsupportedHash)
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))
	return params, salt, key, nil
}

// formatHasher is a PasswordHasher that recognizes its own hash format.
type formatHasher interface {
	PasswordHasher
	handles(hashedPassword string) bool
}

// MultiHasher hashes with its primary hasher and verifies with whichever
// hasher recognizes the stored format.
type MultiHasher struct {
	primary formatHasher
	others  []formatHasher
}

// NewMultiHasher creates a MultiHasher hashing with primary.
func NewMultiHasher(primary formatHasher, others ...formatHasher) *MultiHasher {
	return &MultiHasher{primary: primary, others: others}
}

// Hash implements PasswordHasher.
func (m *MultiHasher) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

// Compare implements PasswordVerifier.
func (m *MultiHasher) Compare(hashedPassword, password string) error {
	for _, h := range append([]formatHasher{m.primary}, m.others...) {
		if h.handles(hashedPassword) {
			return h.Compare(hashedPassword, password)
		}
	}
	return ErrUnsupportedHash
}
