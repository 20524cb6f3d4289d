package otp

import "errors"

var (
	// ErrEmptySeed is returned when a seed decodes to no bytes.
	ErrEmptySeed = errors.New("seed is empty")
	// ErrSeedTooLarge is returned for seeds over MaxSeedSize.
	ErrSeedTooLarge = errors.New("seed is too large")
	// ErrInvalidBase32 is returned for text outside the RFC 4648 alphabet.
	ErrInvalidBase32 = errors.New("seed is not base32")
	// ErrInvalidDigits is returned for a code length outside 1..9.
	ErrInvalidDigits = errors.New("invalid digit count")
	// ErrInvalidPeriod is returned for a non-positive time step.
	ErrInvalidPeriod = errors.New("invalid period")
	// ErrInvalidTime is returned for instants before the unix epoch.
	ErrInvalidTime = errors.New("time is before the unix epoch")
	// ErrMissingAccount is returned when a key URI has no account name.
	ErrMissingAccount = errors.New("missing account name")
)
