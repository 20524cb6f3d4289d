package otp_test

import (
	"testing"
	"time"

	"github.com/atinyakov/OTPKeeper/internal/otp"

	pqotp "github.com/pquerna/otp"
	pqtotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rfcSeed is the SHA1 seed from RFC 4226 and RFC 6238 appendix B.
var rfcSeed = []byte("12345678901234567890")

func TestHOTP_RFC4226Vectors(t *testing.T) {
	t.Parallel()
	want := []string{
		"755224", "287082", "359152", "969429", "338314",
		"254676", "287922", "162583", "399871", "520489",
	}
	for counter, code := range want {
		got, err := otp.HOTP(rfcSeed, uint64(counter), 6)
		require.NoError(t, err)
		assert.Equal(t, code, got, "counter %d", counter)
	}
}

func TestGenerate_RFC6238Vectors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		unix  int64
		eight string
		six   string
	}{
		{59, "94287082", "287082"},
		{1111111109, "07081804", "081804"},
		{1111111111, "14050471", "050471"},
		{1234567890, "89005924", "005924"},
		{2000000000, "69279037", "279037"},
		{20000000000, "65353130", "353130"},
	}
	for _, tt := range tests {
		ts := time.Unix(tt.unix, 0)

		got, err := otp.Generate(rfcSeed, ts)
		require.NoError(t, err)
		assert.Equal(t, tt.six, got, "t=%d", tt.unix)

		got, err = otp.GenerateCustom(rfcSeed, ts, 8, otp.DefaultPeriod)
		require.NoError(t, err)
		assert.Equal(t, tt.eight, got, "t=%d", tt.unix)
	}
}

func TestGenerate_SameWindowSameCode(t *testing.T) {
	t.Parallel()
	start := time.Unix(1700000010, 0) // 1700000010 is a multiple of 30
	first, err := otp.Generate(rfcSeed, start)
	require.NoError(t, err)

	for _, d := range []time.Duration{time.Second, 15 * time.Second, 29*time.Second + 999*time.Millisecond} {
		got, err := otp.Generate(rfcSeed, start.Add(d))
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}

	next, err := otp.Generate(rfcSeed, start.Add(30*time.Second))
	require.NoError(t, err)
	assert.NotEqual(t, first, next)
}

func TestGenerate_MatchesReferenceLibrary(t *testing.T) {
	t.Parallel()
	seeds := [][]byte{
		rfcSeed,
		[]byte("hello"),
		{0x00, 0xff, 0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80},
	}
	times := []time.Time{
		time.Unix(59, 0),
		time.Unix(1700000000, 0),
		time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	}
	opts := pqtotp.ValidateOpts{Period: otp.DefaultPeriod, Digits: pqotp.DigitsSix, Algorithm: pqotp.AlgorithmSHA1}

	for _, seed := range seeds {
		for _, ts := range times {
			want, err := pqtotp.GenerateCodeCustom(otp.EncodeSeed(seed), ts, opts)
			require.NoError(t, err)

			got, err := otp.Generate(seed, ts)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		seed    []byte
		ts      time.Time
		digits  int
		period  int64
		wantErr error
	}{
		{"empty seed", nil, time.Unix(59, 0), 6, 30, otp.ErrEmptySeed},
		{"zero digits", rfcSeed, time.Unix(59, 0), 0, 30, otp.ErrInvalidDigits},
		{"too many digits", rfcSeed, time.Unix(59, 0), 10, 30, otp.ErrInvalidDigits},
		{"zero period", rfcSeed, time.Unix(59, 0), 6, 0, otp.ErrInvalidPeriod},
		{"before epoch", rfcSeed, time.Unix(-1, 0), 6, 30, otp.ErrInvalidTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := otp.GenerateCustom(tt.seed, tt.ts, tt.digits, tt.period)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNow(t *testing.T) {
	t.Parallel()
	code, err := otp.Now(rfcSeed)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code)
}

func TestRemaining(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 30*time.Second, otp.Remaining(time.Unix(60, 0)))
	assert.Equal(t, time.Second, otp.Remaining(time.Unix(59, 0)))
	assert.Equal(t, 20*time.Second, otp.Remaining(time.Unix(70, 0)))
}
