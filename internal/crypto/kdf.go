// Package crypto holds the key material of a session: password based key
// derivation, label hashing and authenticated encryption of store entries.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/atinyakov/OTPKeeper/internal/models"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the size of the master key and of every subkey.
	KeySize = 32
	// SaltSize is the size of the random per-store salt.
	SaltSize = 16

	// Argon2id is the only supported password hashing algorithm.
	Argon2id = "argon2id"

	defaultTime    = 3
	defaultMemory  = 64 * 1024
	defaultThreads = 4

	cipherInfo = "otpkeeper entry cipher v1"
	labelInfo  = "otpkeeper label hash v1"
)

var randReader io.Reader = rand.Reader

// Keys is the session key material. It is derived once at login and never
// persisted.
type Keys struct {
	aead     cipher.AEAD
	labelKey []byte
}

// NewParams returns the default Argon2id parameters with a fresh random salt.
func NewParams() (models.KDFParams, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return models.KDFParams{}, fmt.Errorf("generate salt: %w", err)
	}
	return models.KDFParams{
		Algorithm: Argon2id,
		Salt:      salt,
		Time:      defaultTime,
		Memory:    defaultMemory,
		Threads:   defaultThreads,
	}, nil
}

// ValidateParams rejects parameters this build cannot derive a key from.
func ValidateParams(p models.KDFParams) error {
	if p.Algorithm != Argon2id {
		return fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidParams, p.Algorithm)
	}
	if p.Time == 0 || p.Threads == 0 {
		return fmt.Errorf("%w: time and threads must be positive", ErrInvalidParams)
	}
	if p.Memory < 8*uint32(p.Threads) {
		return fmt.Errorf("%w: memory must be at least 8 KiB per thread", ErrInvalidParams)
	}
	return nil
}

// DeriveKeys runs Argon2id over the password with the store salt followed by
// the username, then splits the result into the entry cipher key and the
// label hashing key with HKDF-SHA256.
//
// This call is deliberately slow.
func DeriveKeys(params models.KDFParams, username, password []byte) (*Keys, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}

	salt := make([]byte, 0, len(params.Salt)+len(username))
	salt = append(salt, params.Salt...)
	salt = append(salt, username...)

	master := argon2.IDKey(password, salt, params.Time, params.Memory, params.Threads, KeySize)

	cipherKey, err := expand(master, cipherInfo)
	if err != nil {
		return nil, err
	}
	labelKey, err := expand(master, labelInfo)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	if _, err := blake2b.New(models.IdentifierSize, labelKey); err != nil {
		return nil, fmt.Errorf("create label hash: %w", err)
	}

	return &Keys{aead: aead, labelKey: labelKey}, nil
}

func expand(master []byte, info string) ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, master, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}
	return key, nil
}
