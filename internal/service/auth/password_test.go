package auth

import (
	"testing"

	"github.com/blokmap/blokmap-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fastArgon2idParams keeps tests quick; production uses DefaultArgon2idParams.
var fastArgon2idParams = Argon2idParams{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestPasswordHashers(t *testing.T) {
	t.Parallel()

	hashers := map[string]PasswordHasher{
		"bcrypt":   NewBcryptHasher(bcrypt.MinCost),
		"argon2id": NewArgon2idHasher(fastArgon2idParams),
	}

	for name, hasher := range hashers {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			hashed, err := hasher.Hash("correct horse battery staple")
			require.NoError(t, err)
			assert.NotEqual(t, "correct horse battery staple", hashed)

			assert.NoError(t, hasher.Compare(hashed, "correct horse battery staple"))
			assert.ErrorIs(t, hasher.Compare(hashed, "wrong"), ErrPasswordMismatch)

			again, err := hasher.Hash("correct horse battery staple")
			require.NoError(t, err)
			assert.NotEqual(t, hashed, again, "hashes are salted")
		})
	}
}

func TestArgon2idHasher_Format(t *testing.T) {
	t.Parallel()

	hashed, err := NewArgon2idHasher(fastArgon2idParams).Hash("secret")
	require.NoError(t, err)
	assert.Regexp(t, `^\$argon2id\$v=19\$m=1024,t=1,p=1\$[A-Za-z0-9+/]+\$[A-Za-z0-9+/]+$`, hashed)

	// parameters come from the stored hash, not the verifying hasher
	assert.NoError(t, NewArgon2idHasher(DefaultArgon2idParams()).Compare(hashed, "secret"))
}

func TestArgon2idHasher_RejectsBadHashes(t *testing.T) {
	t.Parallel()

	hasher := NewArgon2idHasher(fastArgon2idParams)
	for _, hashed := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$",
		"$argon2id$v=19$m=1024,t=0,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=0$c2FsdA$aGFzaA",
	} {
		assert.NotPanics(t, func() {
			assert.ErrorIs(t, hasher.Compare(hashed, "secret"), ErrUnsupportedHash, hashed)
		}, hashed)
	}
}

func TestMultiHasher(t *testing.T) {
	t.Parallel()

	bcryptHasher := NewBcryptHasher(bcrypt.MinCost)
	argonHasher := NewArgon2idHasher(fastArgon2idParams)
	multi := NewMultiHasher(argonHasher, bcryptHasher)

	fromMulti, err := multi.Hash("pw")
	require.NoError(t, err)
	assert.Contains(t, fromMulti, "$argon2id$")

	fromBcrypt, err := bcryptHasher.Hash("pw")
	require.NoError(t, err)

	assert.NoError(t, multi.Compare(fromMulti, "pw"))
	assert.NoError(t, multi.Compare(fromBcrypt, "pw"), "legacy bcrypt hashes still verify")
	assert.ErrorIs(t, multi.Compare(fromBcrypt, "nope"), ErrPasswordMismatch)
	assert.ErrorIs(t, multi.Compare("md5:abc", "pw"), ErrUnsupportedHash)
}

func TestNewPasswordHasher(t *testing.T) {
	t.Parallel()

	hasher, err := NewPasswordHasher(config.AuthConfig{PasswordHasher: "bcrypt", BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	hashed, err := hasher.Hash("pw")
	require.NoError(t, err)
	assert.Contains(t, hashed, "$2a$")

	_, err = NewPasswordHasher(config.AuthConfig{PasswordHasher: "scrypt"})
	assert.Error(t, err)

	hasher, err = NewPasswordHasher(config.AuthConfig{})
	require.NoError(t, err)
	assert.IsType(t, &MultiHasher{}, hasher)
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(1).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
