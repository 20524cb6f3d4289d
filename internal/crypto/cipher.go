package crypto

import (
	"fmt"
	"io"

	"github.com/atinyakov/OTPKeeper/internal/models"
)

// Seal encrypts plaintext under the session cipher key with a fresh random
// nonce. The result is laid out as nonce || ciphertext || tag. aad is
// authenticated but not stored; the store passes the entry identifier so a
// blob cannot be moved to another key.
func (k *Keys) Seal(aad, plaintext []byte) (models.Blob, error) {
	nonce := make([]byte, k.aead.NonceSize(), k.aead.NonceSize()+len(plaintext)+k.aead.Overhead())
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return k.aead.Seal(nonce, nonce, plaintext, aad), nil
}

// Open authenticates and decrypts a blob produced by Seal. A short blob, a
// wrong key and a modified blob all yield ErrAuthFailure.
func (k *Keys) Open(aad []byte, blob models.Blob) ([]byte, error) {
	ns := k.aead.NonceSize()
	if len(blob) < ns+k.aead.Overhead() {
		return nil, ErrAuthFailure
	}
	plain, err := k.aead.Open(nil, blob[:ns], blob[ns:], aad)
	if err != nil {
		return nil, ErrAuthFailure
	}
	return plain, nil
}

// Overhead is the number of bytes Seal adds to a plaintext.
func (k *Keys) Overhead() int {
	return k.aead.NonceSize() + k.aead.Overhead()
}
