// Package otp computes RFC 4226 HOTP and RFC 6238 TOTP codes from raw seeds
// and converts seeds to and from their base32 text form.
//
// Every function is a pure function of its inputs; Now is the only one that
// reads the wall clock.
package otp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"time"
)

const (
	DefaultDigits = 6  // Standard 6-digit codes
	DefaultPeriod = 30 // 30-second time step (RFC 6238)

	maxDigits = 9
)

var pow10 = [...]uint32{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000}

// HOTP implements the RFC 4226 algorithm: HMAC-SHA1 over the big-endian
// counter, dynamic truncation, then reduction to the requested number of
// decimal digits, zero padded.
func HOTP(seed []byte, counter uint64, digits int) (string, error) {
	if len(seed) == 0 {
		return "", ErrEmptySeed
	}
	if digits < 1 || digits > maxDigits {
		return "", fmt.Errorf("%w: %d", ErrInvalidDigits, digits)
	}

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, seed)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	// Dynamic truncation: the low nibble of the last byte selects 4 bytes,
	// the top bit is masked off to get a 31-bit value.
	offset := sum[len(sum)-1] & 0x0f
	code := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%0*d", digits, code%pow10[digits]), nil
}

// Counter returns the RFC 6238 time step containing t.
func Counter(t time.Time, period int64) (uint64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPeriod, period)
	}
	unix := t.Unix()
	if unix < 0 {
		return 0, ErrInvalidTime
	}
	return uint64(unix / period), nil
}

// Generate returns the 6-digit code for the 30-second window containing t.
func Generate(seed []byte, t time.Time) (string, error) {
	return GenerateCustom(seed, t, DefaultDigits, DefaultPeriod)
}

// GenerateCustom is Generate with explicit digit count and period.
func GenerateCustom(seed []byte, t time.Time, digits int, period int64) (string, error) {
	counter, err := Counter(t, period)
	if err != nil {
		return "", err
	}
	return HOTP(seed, counter, digits)
}

// Now returns the code for the current time.
func Now(seed []byte) (string, error) {
	return Generate(seed, time.Now())
}

// Remaining reports how long the code for t stays valid.
func Remaining(t time.Time) time.Duration {
	step := int64(DefaultPeriod) * int64(time.Second)
	return time.Duration(step - t.UnixNano()%step)
}
