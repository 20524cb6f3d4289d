package otp

import (
	"encoding/base32"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxSeedSize bounds a decoded seed. Longer seeds are rejected rather than
// truncated.
const MaxSeedSize = 128

var seedEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// DecodeSeed decodes the base32 text an authenticator setup page shows.
// Spaces are ignored, lowercase is accepted and trailing '=' padding is
// optional. Anything outside the RFC 4648 alphabet is rejected.
func DecodeSeed(text string) ([]byte, error) {
	s := strings.Join(strings.Fields(text), "")
	for i := 0; i < len(s); i++ {
		// non-ASCII letters such as U+017F would upper-case into the alphabet
		if s[i] >= utf8.RuneSelf {
			return nil, fmt.Errorf("%w: non-ASCII byte at offset %d", ErrInvalidBase32, i)
		}
	}
	s = strings.TrimRight(strings.ToUpper(s), "=")
	if s == "" {
		return nil, ErrEmptySeed
	}

	seed, err := seedEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase32, err)
	}
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}
	if len(seed) > MaxSeedSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrSeedTooLarge, len(seed))
	}
	return seed, nil
}

// EncodeSeed returns the unpadded base32 form of seed.
func EncodeSeed(seed []byte) string {
	return seedEncoding.EncodeToString(seed)
}

// URIParams are the fields of an otpauth:// key URI.
type URIParams struct {
	Seed    []byte // raw seed (required)
	Account string // entry label (required)
	Issuer  string // optional service name
}

// URI builds a Key Uri Format link that authenticator apps can import.
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func URI(p URIParams) (string, error) {
	if len(p.Seed) == 0 {
		return "", ErrEmptySeed
	}
	if p.Account == "" {
		return "", ErrMissingAccount
	}

	label := url.PathEscape(p.Account)
	if p.Issuer != "" {
		label = url.PathEscape(p.Issuer) + ":" + label
	}

	query := url.Values{}
	query.Set("secret", EncodeSeed(p.Seed))
	if p.Issuer != "" {
		query.Set("issuer", p.Issuer)
	}
	query.Set("algorithm", "SHA1")
	query.Set("digits", strconv.Itoa(DefaultDigits))
	query.Set("period", strconv.Itoa(DefaultPeriod))

	return "otpauth://totp/" + label + "?" + query.Encode(), nil
}
