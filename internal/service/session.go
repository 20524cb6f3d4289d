// Package service provides the session business logic: it opens the
// encrypted store, runs the user commands against it and commits the result,
// delegating persistence to a StoreRepository.
package service

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/atinyakov/OTPKeeper/internal/client/storage"
	"github.com/atinyakov/OTPKeeper/internal/crypto"
	"github.com/atinyakov/OTPKeeper/internal/models"
	"github.com/atinyakov/OTPKeeper/internal/otp"
	"github.com/atinyakov/OTPKeeper/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrMissingLabel is returned when a command is given no label.
	ErrMissingLabel = errors.New("missing label")
	// ErrMissingData is returned when add is given no seed.
	ErrMissingData = errors.New("missing data")
)

var newParams = crypto.NewParams

// StoreRepository defines the persistence operations needed by a Session.
type StoreRepository interface {
	// Load returns the stored document. A missing store must match
	// fs.ErrNotExist, an unreadable one repository.ErrUnavailable.
	Load() (*models.Document, error)
	// Save replaces the stored document.
	Save(doc *models.Document) error
	// Backup moves the current store aside and returns where it went.
	Backup() (string, error)
}

// Options configures Open.
type Options struct {
	// Username is mixed into the key derivation salt.
	Username string
	// Password unlocks the store. It is not retained.
	Password []byte
	// Version is recorded in the sentinel of a new store.
	Version string
	// Log receives session events. Nil disables logging.
	Log *zap.Logger
}

// Session is one unlocked store plus what is needed to write it back.
type Session struct {
	repo    StoreRepository
	store   *storage.Store
	id      string
	corrupt bool
	log     *zap.Logger
	now     func() time.Time
}

// Open loads the store from repo and unlocks it with the password.
//
// A missing store starts empty. An unreadable one is logged, also starts
// empty and is backed up on the first commit. A wrong password returns an
// error matching storage.ErrAuthentication and no session.
func Open(repo StoreRepository, opts Options) (*Session, models.Outcome, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	s := &Session{repo: repo, log: log, now: time.Now}
	outcome := models.Unchanged

	doc, err := repo.Load()
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		log.Info("store not found, starting empty")
		doc = nil
	case errors.Is(err, repository.ErrUnavailable):
		log.Error("store unreadable, starting empty", zap.Error(err))
		s.corrupt = true
		doc = nil
	default:
		return nil, models.Unchanged, fmt.Errorf("load store: %w", err)
	}

	if doc == nil {
		doc = &models.Document{}
	}
	if len(doc.Entries) == 0 {
		params, err := newParams()
		if err != nil {
			return nil, models.Unchanged, fmt.Errorf("new store parameters: %w", err)
		}
		doc.KDF = params
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
		outcome = models.Changed
	}
	s.id = doc.ID
	s.log = log.With(zap.String("store", s.id))

	store, opened, err := storage.Open(doc.Entries, storage.Options{
		KDF:      doc.KDF,
		Username: opts.Username,
		Password: opts.Password,
		Version:  opts.Version,
		Log:      s.log,
	})
	if err != nil {
		s.log.Warn("store rejected credentials", zap.Error(err))
		return nil, models.Unchanged, err
	}
	s.store = store

	s.log.Info("store opened",
		zap.Int("entries", store.Len()),
		zap.String("version", store.Version()),
	)
	return s, outcome.Merge(opened), nil
}

// Add decodes the base32 data and stores it under label.
func (s *Session) Add(label, data string) (models.Outcome, error) {
	if label == "" {
		return models.Unchanged, ErrMissingLabel
	}
	if storage.IsReserved(label) {
		return models.Unchanged, storage.ErrReservedLabel
	}
	if data == "" {
		return models.Unchanged, ErrMissingData
	}

	seed, err := otp.DecodeSeed(data)
	if err != nil {
		return models.Unchanged, err
	}
	if err := s.store.Insert(label, seed); err != nil {
		return models.Unchanged, err
	}
	s.log.Debug("entry added", zap.Int("entries", s.store.Len()))
	return models.Changed, nil
}

// Show returns the current code for label and how long it stays valid.
func (s *Session) Show(label string) (string, time.Duration, error) {
	seed, err := s.secret(label)
	if err != nil {
		return "", 0, err
	}
	now := s.now()
	code, err := otp.Generate(seed, now)
	if err != nil {
		return "", 0, err
	}
	return code, otp.Remaining(now), nil
}

// Remove deletes the entry for label. It returns storage.ErrNotFound when
// there is none.
func (s *Session) Remove(label string) (models.Outcome, error) {
	if label == "" {
		return models.Unchanged, ErrMissingLabel
	}
	if storage.IsReserved(label) {
		return models.Unchanged, storage.ErrReservedLabel
	}
	if !s.store.Remove(label) {
		return models.Unchanged, storage.ErrNotFound
	}
	s.log.Debug("entry removed", zap.Int("entries", s.store.Len()))
	return models.Changed, nil
}

// List returns the stored labels in order and the number of entries that
// could not be decrypted.
func (s *Session) List() ([]string, int) {
	labels, unreadable := s.store.Labels()
	if unreadable > 0 {
		s.log.Warn("unreadable entries in store", zap.Int("count", unreadable))
	}
	return labels, unreadable
}

// Export returns the otpauth:// URI for label.
func (s *Session) Export(label, issuer string) (string, error) {
	seed, err := s.secret(label)
	if err != nil {
		return "", err
	}
	return otp.URI(otp.URIParams{Seed: seed, Account: label, Issuer: issuer})
}

// Validate reports whether password unlocks this store.
func (s *Session) Validate(password []byte) error {
	return s.store.Validate(password)
}

// Len returns the number of stored entries, the sentinel included.
func (s *Session) Len() int {
	return s.store.Len()
}

// ID returns the store identifier recorded in the document.
func (s *Session) ID() string {
	return s.id
}

// Commit writes the store back when outcome is Changed. A store that was
// unreadable at open is backed up before it is first overwritten.
func (s *Session) Commit(outcome models.Outcome) error {
	if outcome != models.Changed {
		return nil
	}

	if s.corrupt {
		backup, err := s.repo.Backup()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Error("backup of unreadable store failed", zap.Error(err))
			return fmt.Errorf("backup unreadable store: %w", err)
		}
		if backup != "" {
			s.log.Warn("unreadable store moved aside", zap.String("backup", backup))
		}
		s.corrupt = false
	}

	doc := &models.Document{
		ID:      s.id,
		KDF:     s.store.KDF(),
		Entries: s.store.Entries(),
	}
	if err := s.repo.Save(doc); err != nil {
		s.log.Error("store save failed", zap.Error(err))
		return err
	}
	s.log.Info("store saved", zap.Int("entries", len(doc.Entries)))
	return nil
}

func (s *Session) secret(label string) ([]byte, error) {
	if label == "" {
		return nil, ErrMissingLabel
	}
	if storage.IsReserved(label) {
		return nil, storage.ErrReservedLabel
	}
	return s.store.Get(label)
}
