package otp_test

import (
	"strings"
	"testing"

	"github.com/atinyakov/OTPKeeper/internal/otp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSeed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr error
	}{
		{"plain", "NBSWY3DP", []byte("hello"), nil},
		{"lowercase", "nbswy3dp", []byte("hello"), nil},
		{"grouped", "NBSW Y3DP", []byte("hello"), nil},
		{"padded", "MFRGG===", []byte("abc"), nil},
		{"unpadded", "MFRGG", []byte("abc"), nil},
		{"invalid alphabet", "NBSWY18P", nil, otp.ErrInvalidBase32},
		{"symbols", "NBSW-Y3DP", nil, otp.ErrInvalidBase32},
		{"long s", "nbſwy3dp", nil, otp.ErrInvalidBase32},
		{"dotless i", "ıbswy3dp", nil, otp.ErrInvalidBase32},
		{"fullwidth", "ＮBSWY3DP", nil, otp.ErrInvalidBase32},
		{"bad length", "A", nil, otp.ErrInvalidBase32},
		{"empty", "", nil, otp.ErrEmptySeed},
		{"only padding", "====", nil, otp.ErrEmptySeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := otp.DecodeSeed(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeSeed_Size(t *testing.T) {
	t.Parallel()
	maxSeed := make([]byte, otp.MaxSeedSize)
	for i := range maxSeed {
		maxSeed[i] = byte(i)
	}
	got, err := otp.DecodeSeed(otp.EncodeSeed(maxSeed))
	require.NoError(t, err)
	assert.Equal(t, maxSeed, got)

	_, err = otp.DecodeSeed(otp.EncodeSeed(append(maxSeed, 0)))
	assert.ErrorIs(t, err, otp.ErrSeedTooLarge)
}

func TestURI(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		params  otp.URIParams
		want    string
		wantErr error
	}{
		{
			name:   "with issuer",
			params: otp.URIParams{Seed: []byte("hello"), Account: "alice@example.com", Issuer: "Acme"},
			want:   "otpauth://totp/Acme:alice@example.com?algorithm=SHA1&digits=6&issuer=Acme&period=30&secret=NBSWY3DP",
		},
		{
			name:   "label only",
			params: otp.URIParams{Seed: []byte("hello"), Account: "github"},
			want:   "otpauth://totp/github?algorithm=SHA1&digits=6&period=30&secret=NBSWY3DP",
		},
		{
			name:   "escaped",
			params: otp.URIParams{Seed: []byte("hello"), Account: "my mail", Issuer: "A & B"},
			want:   "otpauth://totp/A%20&%20B:my%20mail?algorithm=SHA1&digits=6&issuer=A+%26+B&period=30&secret=NBSWY3DP",
		},
		{name: "no seed", params: otp.URIParams{Account: "x"}, wantErr: otp.ErrEmptySeed},
		{name: "no account", params: otp.URIParams{Seed: []byte("x")}, wantErr: otp.ErrMissingAccount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := otp.URI(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(got, "otpauth://totp/"))
		})
	}
}
