package validators

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmailValidator(t *testing.T) {
	require.NoError(t, EmailValidator("a@x.com"))
	require.NoError(t, EmailValidator("shop.owner+drop@example.co.uk"))

	require.ErrorIs(t, EmailValidator(""), ErrEmailEmpty)
	require.ErrorIs(t, EmailValidator("not-an-email"), ErrEmailInvalid)
	require.ErrorIs(t, EmailValidator("a@"), ErrEmailInvalid)
}

func TestPasswordValidator(t *testing.T) {
	require.NoError(t, PasswordValidator("pw123456"))

	require.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	require.ErrorIs(t, PasswordValidator("short"), ErrPasswordTooShort)

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	require.ErrorIs(t, PasswordValidator(string(long)), ErrPasswordTooLong)
}

func TestPinValidator(t *testing.T) {
	require.NoError(t, PinValidator("1234"))
	require.NoError(t, PinValidator("87654321"))

	require.ErrorIs(t, PinValidator(""), ErrPinEmpty)
	require.ErrorIs(t, PinValidator("123"), ErrPinBadLength)
	require.ErrorIs(t, PinValidator("123456789"), ErrPinBadLength)
	require.ErrorIs(t, PinValidator("12a4"), ErrPinNotNumeric)
	require.ErrorIs(t, PinValidator("12 4"), ErrPinNotNumeric)
}
