package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser(" bob ", "bob@example.com", "appel")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID != 0 {
		t.Errorf("Expected unassigned ID, got %d", user.ID)
	}
	if user.Username != "bob" {
		t.Errorf("Expected trimmed username %q, got %q", "bob", user.Username)
	}
	if user.Password != "appel" {
		t.Errorf("Expected plaintext password to be kept until hashing")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	_, err = NewUser("", "bob@example.com", "appel")
	if err != ErrEmptyUsername {
		t.Errorf("Expected error %v, got %v", ErrEmptyUsername, err)
	}

	_, err = NewUser("bob", "", "appel")
	if err != ErrEmptyEmail {
		t.Errorf("Expected error %v, got %v", ErrEmptyEmail, err)
	}

	_, err = NewUser("bob", "invalidemail", "appel")
	if err != ErrInvalidEmail {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	_, err = NewUser("bob", "bob@example.com", "")
	if err != ErrEmptyPassword {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name string
		user User
		want error
	}{
		{
			name: "stored user with hash only",
			user: User{ID: 7, Username: "bob", Email: "bob@example.com", HashedPassword: "$argon2id$..."},
			want: nil,
		},
		{
			name: "username too long",
			user: User{Username: strings.Repeat("a", 65), Email: "bob@example.com", Password: "appel"},
			want: ErrUsernameTooLong,
		},
		{
			name: "password too long",
			user: User{Username: "bob", Email: "bob@example.com", Password: strings.Repeat("p", 73)},
			want: ErrPasswordTooLong,
		},
		{
			name: "neither password nor hash",
			user: User{Username: "bob", Email: "bob@example.com"},
			want: ErrEmptyPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.user.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateEmailFormat(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"test@example.com", true},
		{"a@b.c", true},
		{"@example.com", false},
		{"test@", false},
		{"test@com", false},
		{"test@.com", false},
		{"test@example.", false},
		{"testexample.com", false},
	}

	for _, tt := range tests {
		if got := validateEmailFormat(tt.email); got != tt.valid {
			t.Errorf("validateEmailFormat(%q) = %v, want %v", tt.email, got, tt.valid)
		}
	}
}
