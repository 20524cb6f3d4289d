package storage

import (
	"errors"
	"fmt"

	"github.com/atinyakov/OTPKeeper/internal/crypto"
	"github.com/atinyakov/OTPKeeper/internal/models"
	"go.uber.org/zap"
)

const (
	// SentinelLabel names the reserved entry that holds the protocol version.
	SentinelLabel = "__version__"
	// ProtocolVersion is written into the sentinel of new stores.
	ProtocolVersion = "1"
)

// Options carries everything Open needs besides the raw entries.
type Options struct {
	// KDF are the key derivation parameters stored with the entries.
	KDF models.KDFParams
	// Username is the platform user name mixed into the salt.
	Username string
	// Password is the session password. It is not retained.
	Password []byte
	// Version is written into the sentinel of a new store.
	Version string
	// Log receives collision warnings. Nil disables logging.
	Log *zap.Logger
}

// Open derives the session key and runs the version guard.
//
// An empty entries map is a new store: the sentinel is sealed with
// opts.Version and the outcome is Changed. Otherwise the sentinel must open
// under the derived key; if it is missing or does not authenticate, Open
// returns ErrAuthentication and no store. Decrypting the sentinel is the only
// password check there is.
func Open(entries map[models.Identifier]models.Blob, opts Options) (*Store, models.Outcome, error) {
	keys, err := crypto.DeriveKeys(opts.KDF, []byte(opts.Username), opts.Password)
	if err != nil {
		return nil, models.Unchanged, fmt.Errorf("derive session key: %w", err)
	}

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if entries == nil {
		entries = make(map[models.Identifier]models.Blob)
	}

	s := &Store{
		entries:  entries,
		keys:     keys,
		kdf:      opts.KDF,
		username: []byte(opts.Username),
		log:      log,
	}

	if len(entries) == 0 {
		if opts.Version == "" {
			return nil, models.Unchanged, ErrEmptyVersion
		}
		if err := s.put(SentinelLabel, []byte(opts.Version)); err != nil {
			return nil, models.Unchanged, fmt.Errorf("write sentinel: %w", err)
		}
		s.version = opts.Version
		return s, models.Changed, nil
	}

	version, err := s.get(keys, SentinelLabel)
	if err != nil {
		return nil, models.Unchanged, sentinelError(err)
	}
	s.version = string(version)
	return s, models.Unchanged, nil
}

// Validate reports whether password opens this store. It re-derives the key
// with the store's parameters and tries the sentinel.
func (s *Store) Validate(password []byte) error {
	keys, err := crypto.DeriveKeys(s.kdf, s.username, password)
	if err != nil {
		if errors.Is(err, crypto.ErrEmptyPassword) {
			return ErrAuthentication
		}
		return fmt.Errorf("derive session key: %w", err)
	}
	if _, err := s.get(keys, SentinelLabel); err != nil {
		return sentinelError(err)
	}
	return nil
}

// sentinelError folds every way the sentinel can fail into ErrAuthentication
// so a wrong password is indistinguishable from a damaged sentinel.
func sentinelError(err error) error {
	return fmt.Errorf("%w: %w", ErrAuthentication, err)
}
