package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Blob is the persisted form of one entry: nonce || ciphertext || tag.
//
// It is written to JSON as an array of byte values. A base64 string is also
// accepted on input.
type Blob []byte

// MarshalJSON encodes the blob as a JSON array of numbers.
func (b Blob) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("[]"), nil
	}
	buf := make([]byte, 0, 2+len(b)*4)
	buf = append(buf, '[')
	for i, v := range b {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendUint(buf, uint64(v), 10)
	}
	buf = append(buf, ']')
	return buf, nil
}

// UnmarshalJSON decodes either an array of byte values or a base64 string.
func (b *Blob) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw []byte
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("blob: %w", err)
		}
		*b = raw
		return nil
	}

	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("blob: %w", err)
	}
	out := make(Blob, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return fmt.Errorf("blob: value %d at index %d is not a byte", v, i)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}
