package storage

import (
	"encoding/binary"
	"errors"
)

var errMalformedPayload = errors.New("malformed entry payload")

// encodePayload lays out the sealed plaintext of an entry as
// uvarint(len(label)) || label || secret.
func encodePayload(label string, secret []byte) []byte {
	buf := make([]byte, 0, binary.MaxVarintLen64+len(label)+len(secret))
	buf = binary.AppendUvarint(buf, uint64(len(label)))
	buf = append(buf, label...)
	return append(buf, secret...)
}

func decodePayload(plain []byte) (label string, secret []byte, err error) {
	n, size := binary.Uvarint(plain)
	if size <= 0 || n > uint64(len(plain)-size) {
		return "", nil, errMalformedPayload
	}
	rest := plain[size:]
	return string(rest[:n]), rest[n:], nil
}
