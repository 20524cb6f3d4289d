// Package models defines the core data structures shared by the store,
// the persistence layer and the session service.
package models

import (
	"encoding/hex"
	"fmt"
)

// IdentifierSize is the width of a label identifier in bytes (128 bits).
const IdentifierSize = 16

// Identifier is the fixed-size hash of a label. It is the only form in which
// a label ever reaches disk.
type Identifier [IdentifierSize]byte

// String returns the lowercase hex form used as the JSON object key.
func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText implements encoding.TextMarshaler so identifiers can be used
// as JSON object keys.
func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses the 32-character hex form.
func (id *Identifier) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentifier(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseIdentifier parses a hex encoded identifier.
func ParseIdentifier(s string) (Identifier, error) {
	var id Identifier
	if len(s) != hex.EncodedLen(IdentifierSize) {
		return id, fmt.Errorf("identifier %q: want %d hex characters", s, hex.EncodedLen(IdentifierSize))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("identifier %q: %w", s, err)
	}
	return id, nil
}

// KDFParams describes how the session key is derived from the password.
// It is persisted in clear next to the entries.
type KDFParams struct {
	// Algorithm names the password hashing function ("argon2id").
	Algorithm string `json:"algorithm"`
	// Salt is the random per-store salt.
	Salt []byte `json:"salt"`
	// Time is the number of passes over memory.
	Time uint32 `json:"time"`
	// Memory is the memory cost in KiB.
	Memory uint32 `json:"memory"`
	// Threads is the degree of parallelism.
	Threads uint8 `json:"threads"`
}

// Document is the persisted form of a store.
type Document struct {
	// ID identifies the store file across sessions.
	ID string `json:"id"`
	// KDF holds the key derivation parameters.
	KDF KDFParams `json:"kdf"`
	// Entries maps label identifiers to encrypted blobs.
	Entries map[Identifier]Blob `json:"entries"`
}

// Outcome reports whether a command changed the store.
type Outcome int

const (
	// Unchanged means nothing needs to be persisted.
	Unchanged Outcome = iota
	// Changed means the store differs from what was loaded or last committed.
	Changed
)

// Merge combines two outcomes; the result is Changed if either is.
func (o Outcome) Merge(other Outcome) Outcome {
	if o == Changed || other == Changed {
		return Changed
	}
	return Unchanged
}

func (o Outcome) String() string {
	if o == Changed {
		return "changed"
	}
	return "unchanged"
}
