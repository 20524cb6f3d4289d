package storage

import "errors"

var (
	// ErrNotFound is returned when no entry exists for a label.
	ErrNotFound = errors.New("entry not found")
	// ErrAuthFailure is returned when an existing entry does not
	// authenticate under the session key.
	ErrAuthFailure = errors.New("entry failed authentication")
	// ErrLabelMismatch is returned when the entry at a label's identifier was
	// written for a different label.
	ErrLabelMismatch = errors.New("entry belongs to a different label")
	// ErrAuthentication is returned when the sentinel cannot be opened,
	// which means the password is wrong or the store is damaged.
	ErrAuthentication = errors.New("authentication failed")

	// ErrEmptyLabel is returned when an entry is given an empty label.
	ErrEmptyLabel = errors.New("label is empty")
	// ErrReservedLabel is returned for any case variant of SentinelLabel.
	ErrReservedLabel = errors.New("label is reserved")
	// ErrEmptySecret is returned when an entry is given no secret bytes.
	ErrEmptySecret = errors.New("secret is empty")
	// ErrSecretTooLarge is returned for secrets over MaxSecretSize.
	ErrSecretTooLarge = errors.New("secret is too large")
	// ErrEmptyVersion is returned when a new store is opened without a
	// protocol version for its sentinel.
	ErrEmptyVersion = errors.New("protocol version is empty")
)
