package crypto

import (
	"github.com/atinyakov/OTPKeeper/internal/models"
	"golang.org/x/crypto/blake2b"
)

// HashLabel maps a label to its identifier with BLAKE2b-128 keyed by the
// session label key. Equal labels give equal identifiers within a store;
// without the password the identifiers cannot be tested against guessed
// labels.
func (k *Keys) HashLabel(label []byte) models.Identifier {
	// key and size were checked in DeriveKeys
	h, _ := blake2b.New(models.IdentifierSize, k.labelKey)
	h.Write(label)

	var id models.Identifier
	copy(id[:], h.Sum(nil))
	return id
}
