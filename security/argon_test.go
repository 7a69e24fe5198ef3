package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArgonHashAndVerify(t *testing.T) {
	a := NewArgon()

	encoded, err := a.GenerateFromPassword("pw123456")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$"))
	require.NotContains(t, encoded, "pw123456")

	ok, err := a.VerifyPasswd("pw123456", encoded)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = a.VerifyPasswd("wrong-password", encoded)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestArgonHashUniqueSalt(t *testing.T) {
	a := NewArgon()

	h1, err := a.GenerateFromPassword("pw123456")
	require.NoError(t, err)

	h2, err := a.GenerateFromPassword("pw123456")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
}

func TestArgonVerifyBadFormat(t *testing.T) {
	a := NewArgon()

	_, err := a.VerifyPasswd("pw123456", "not-a-phc-string")
	require.Error(t, err)
}
