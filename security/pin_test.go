package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestPinCipherRoundTrip(t *testing.T) {
	p, err := NewPinCipher(testKey)
	require.NoError(t, err)

	for _, pin := range []string{"1234", "0000", "87654321", "123456"} {
		ct, err := p.Encrypt(pin)
		require.NoError(t, err)

		got, err := p.Decrypt(ct)
		require.NoError(t, err)
		require.Equal(t, pin, got)
	}
}

func TestPinCipherNonDeterministic(t *testing.T) {
	p, err := NewPinCipher(testKey)
	require.NoError(t, err)

	a, err := p.Encrypt("1234")
	require.NoError(t, err)

	b, err := p.Encrypt("1234")
	require.NoError(t, err)

	require.NotEqual(t, a, b)

	gotA, err := p.Decrypt(a)
	require.NoError(t, err)

	gotB, err := p.Decrypt(b)
	require.NoError(t, err)

	require.Equal(t, "1234", gotA)
	require.Equal(t, "1234", gotB)
}

func TestPinCipherStoredFormat(t *testing.T) {
	p, err := NewPinCipher(testKey)
	require.NoError(t, err)

	ct, err := p.Encrypt("1234")
	require.NoError(t, err)

	parts := strings.Split(ct, ":")
	require.Len(t, parts, 2)
	require.Len(t, parts[0], 32) // 16 byte IV, hex encoded
	require.NotContains(t, ct, "1234")
}

func TestNewPinCipherBadKey(t *testing.T) {
	for _, key := range [][]byte{nil, []byte("short"), []byte("0123456789abcdef0123456789abcdef0")} {
		_, err := NewPinCipher(key)
		require.ErrorIs(t, err, ErrBadCipherKey)
	}
}

func TestPinCipherDecryptMalformed(t *testing.T) {
	p, err := NewPinCipher(testKey)
	require.NoError(t, err)

	valid, err := p.Encrypt("1234")
	require.NoError(t, err)
	parts := strings.Split(valid, ":")

	cases := map[string]string{
		"no separator":    "deadbeef",
		"empty iv":        ":" + parts[1],
		"empty ct":        parts[0] + ":",
		"three segments":  parts[0] + ":" + parts[1] + ":ff",
		"iv not hex":      "zz" + parts[0][2:] + ":" + parts[1],
		"ct not hex":      parts[0] + ":zz" + parts[1][2:],
		"iv wrong length": parts[0][:30] + ":" + parts[1],
		"ct not blocked":  parts[0] + ":" + parts[1][:30],
		"empty":           "",
	}

	for name, stored := range cases {
		_, err := p.Decrypt(stored)
		require.ErrorIs(t, err, ErrMalformedPin, name)
	}
}

func TestPinCipherWrongKey(t *testing.T) {
	p1, err := NewPinCipher(testKey)
	require.NoError(t, err)

	p2, err := NewPinCipher([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	ct, err := p1.Encrypt("1234")
	require.NoError(t, err)

	got, err := p2.Decrypt(ct)
	if err == nil {
		// Padding can survive by chance, the plaintext can't
		require.NotEqual(t, "1234", got)
	}
}
