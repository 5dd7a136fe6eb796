package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates a well-formed, correctly signed token that does
	// not identify a current user (bad subject or unknown user)
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMalformedToken indicates the token cannot be parsed or its signature doesn't match
	ErrMalformedToken = errors.New("malformed authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials is returned for both unknown usernames and wrong
	// passwords so callers cannot tell them apart
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrPasswordMismatch indicates a password does not match the stored hash
	ErrPasswordMismatch = errors.New("password does not match")

	// ErrUnsupportedHash indicates a stored hash in a format no hasher understands
	ErrUnsupportedHash = errors.New("unsupported password hash format")
)
