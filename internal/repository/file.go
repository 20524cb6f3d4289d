// Package repository provides the persistence implementation for the store
// document: a single JSON file written all-or-nothing.
package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/atinyakov/OTPKeeper/internal/models"
)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

var (
	// ErrUnavailable is returned by Load when the file exists but cannot be
	// read or parsed.
	ErrUnavailable = errors.New("store file unavailable")
	// ErrWrite is returned by Save when the file could not be replaced.
	ErrWrite = errors.New("store file write failed")

	errTrailingData   = errors.New("trailing data after document")
	errMissingKDF     = errors.New("missing kdf.algorithm")
	errMissingEntries = errors.New("missing entries")
)

// FileRepository reads and writes a store document at Path.
type FileRepository struct {
	// Path is the location of the JSON store file.
	Path string
	now  func() time.Time
}

// NewFileRepository creates a FileRepository for the given path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{Path: path, now: time.Now}
}

// Load reads and parses the store file.
//
// A missing file returns an error matching fs.ErrNotExist. Any other read or
// parse failure returns an error matching ErrUnavailable.
func (r *FileRepository) Load() (*models.Document, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	doc, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrUnavailable, r.Path, err)
	}
	return doc, nil
}

// decode parses a store document strictly. Unknown keys, trailing data and
// a document without kdf.algorithm or entries are rejected, so a file in
// any other shape is never mistaken for an empty store.
func decode(data []byte) (*models.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc models.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	if doc.KDF.Algorithm == "" {
		return nil, errMissingKDF
	}
	if doc.Entries == nil {
		return nil, errMissingEntries
	}
	return &doc, nil
}

// Save replaces the store file with doc. The document is written to a
// temporary file in the same directory, synced and renamed over the target,
// so readers see either the old or the new file and never a partial one.
func (r *FileRepository) Save(doc *models.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrWrite, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.Path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("%w: create directory: %w", ErrWrite, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrWrite, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(fileMode); err != nil {
		return fmt.Errorf("%w: chmod: %w", ErrWrite, err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("%w: write: %w", ErrWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %w", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrWrite, err)
	}
	if err := os.Rename(tmpName, r.Path); err != nil {
		return fmt.Errorf("%w: rename: %w", ErrWrite, err)
	}
	committed = true
	return nil
}

// Backup moves the current file aside as <path>.corrupt-<unix time> and
// returns the new name. It is used before overwriting a file that could not
// be parsed.
func (r *FileRepository) Backup() (string, error) {
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	target := r.Path + ".corrupt-" + strconv.FormatInt(now().Unix(), 10)
	if err := os.Rename(r.Path, target); err != nil {
		return "", fmt.Errorf("backup %s: %w", r.Path, err)
	}
	return target, nil
}
