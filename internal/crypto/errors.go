package crypto

import "errors"

var (
	// ErrAuthFailure is returned by Open for any blob that does not
	// authenticate under the session key.
	ErrAuthFailure = errors.New("message authentication failed")
	// ErrInvalidParams is returned for unusable key derivation parameters.
	ErrInvalidParams = errors.New("invalid key derivation parameters")
	// ErrKeyDerivation wraps failures while expanding the master key.
	ErrKeyDerivation = errors.New("key derivation failed")
	// ErrEmptyPassword is returned when no password was supplied.
	ErrEmptyPassword = errors.New("password is empty")
)
