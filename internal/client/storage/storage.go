// Package storage implements the encrypted label to secret store: labels
// are hashed into identifiers, secrets are sealed under the session key and
// a reserved sentinel entry proves the password on every open.
package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atinyakov/OTPKeeper/internal/crypto"
	"github.com/atinyakov/OTPKeeper/internal/models"
	"go.uber.org/zap"
)

// MaxSecretSize bounds a stored secret in bytes.
const MaxSecretSize = 128

// Store is the in-memory identifier to blob map of one session. It is not
// safe for concurrent use; a session owns it exclusively.
type Store struct {
	entries  map[models.Identifier]models.Blob
	keys     *crypto.Keys
	kdf      models.KDFParams
	username []byte
	version  string
	log      *zap.Logger
}

// IsReserved reports whether label collides with the sentinel name. The
// comparison is case-insensitive.
func IsReserved(label string) bool {
	return strings.EqualFold(label, SentinelLabel)
}

// Insert seals secret under the session key and stores it at the label's
// identifier, replacing whatever was there.
func (s *Store) Insert(label string, secret []byte) error {
	if label == "" {
		return ErrEmptyLabel
	}
	if IsReserved(label) {
		return ErrReservedLabel
	}
	if len(secret) == 0 {
		return ErrEmptySecret
	}
	if len(secret) > MaxSecretSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrSecretTooLarge, len(secret), MaxSecretSize)
	}
	return s.put(label, secret)
}

func (s *Store) put(label string, secret []byte) error {
	id := s.keys.HashLabel([]byte(label))

	if old, ok := s.entries[id]; ok && label != SentinelLabel {
		s.warnOnCollision(id, old, label)
	}

	blob, err := s.keys.Seal(id[:], encodePayload(label, secret))
	if err != nil {
		return fmt.Errorf("seal entry: %w", err)
	}
	s.entries[id] = blob
	return nil
}

// warnOnCollision logs when an insert replaces an entry that was written for
// a different label under the same identifier.
func (s *Store) warnOnCollision(id models.Identifier, old models.Blob, label string) {
	plain, err := s.keys.Open(id[:], old)
	if err != nil {
		s.log.Warn("replacing unreadable entry", zap.Stringer("id", id))
		return
	}
	oldLabel, _, err := decodePayload(plain)
	if err != nil || oldLabel != label {
		s.log.Warn("identifier collision, replacing entry of another label", zap.Stringer("id", id))
	}
}

// Get returns the secret stored for label.
//
// ErrNotFound means no entry exists. ErrAuthFailure means the entry exists
// but does not authenticate under the session key. ErrLabelMismatch means
// the entry belongs to another label with the same identifier.
func (s *Store) Get(label string) ([]byte, error) {
	if IsReserved(label) {
		return nil, ErrReservedLabel
	}
	return s.get(s.keys, label)
}

func (s *Store) get(keys *crypto.Keys, label string) ([]byte, error) {
	id := keys.HashLabel([]byte(label))
	blob, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}

	plain, err := keys.Open(id[:], blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthFailure, err)
	}
	stored, secret, err := decodePayload(plain)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthFailure, err)
	}
	if stored != label {
		return nil, ErrLabelMismatch
	}
	return secret, nil
}

// Remove deletes the entry for label and reports whether one existed. The
// sentinel entry is never removed.
func (s *Store) Remove(label string) bool {
	if IsReserved(label) {
		return false
	}
	id := s.keys.HashLabel([]byte(label))
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// Len returns the number of entries, the sentinel included.
func (s *Store) Len() int {
	return len(s.entries)
}

// Labels decrypts every user entry and returns the labels in sorted order,
// together with the number of entries that could not be read.
func (s *Store) Labels() ([]string, int) {
	sentinel := s.keys.HashLabel([]byte(SentinelLabel))

	labels := make([]string, 0, len(s.entries))
	unreadable := 0
	for id, blob := range s.entries {
		if id == sentinel {
			continue
		}
		plain, err := s.keys.Open(id[:], blob)
		if err != nil {
			unreadable++
			continue
		}
		label, _, err := decodePayload(plain)
		if err != nil {
			unreadable++
			continue
		}
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, unreadable
}

// Entries returns a copy of the raw identifier to blob map for persistence.
func (s *Store) Entries() map[models.Identifier]models.Blob {
	out := make(map[models.Identifier]models.Blob, len(s.entries))
	for id, blob := range s.entries {
		out[id] = append(models.Blob(nil), blob...)
	}
	return out
}

// KDF returns the key derivation parameters the session key was built with.
func (s *Store) KDF() models.KDFParams {
	return s.kdf
}

// Version returns the protocol version recorded in the sentinel entry.
func (s *Store) Version() string {
	return s.version
}
