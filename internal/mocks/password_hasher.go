package mocks

import (
	"errors"
	"strings"

	"github.com/blokmap/blokmap-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher with a reversible
// "hashed:" prefix so tests stay fast.
type MockPasswordHasher struct {
	// HashFn and CompareFn allow for custom behavior in tests
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

// Ensure MockPasswordHasher implements auth.PasswordHasher interface
var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if !strings.HasPrefix(hashedPassword, "hashed:") {
		return errors.New("unsupported hash")
	}
	if strings.TrimPrefix(hashedPassword, "hashed:") != password {
		return auth.ErrPasswordMismatch
	}
	return nil
}
