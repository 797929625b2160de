package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+79991234567":       "+79991234567",
		"79991234567":        "+79991234567",
		"89991234567":        "+79991234567",
		"+7 (999) 123-45-67": "+79991234567",
		" 8 999 123 45 67 ":  "+79991234567",
	}
	for in, want := range cases {
		got, ok := NormalizePhone(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "+7999123456", "+799912345678", "+19991234567", "9991234567", "7999+1234567", "+7999123456a"} {
		_, ok := NormalizePhone(in)
		require.False(t, ok, in)
	}
}

func TestValidCode(t *testing.T) {
	require.True(t, ValidCode("1234"))
	require.True(t, ValidCode("123456"))
	require.False(t, ValidCode("123"))
	require.False(t, ValidCode("1234567"))
	require.False(t, ValidCode("12a456"))
}

func TestErrors(t *testing.T) {
	e := Errors{}
	require.NoError(t, e.Err())
	e.Add("phone", "invalid")
	e.Add("phone", "ignored")
	e.Add("code", "required")
	err := e.Err()
	require.Error(t, err)
	require.Equal(t, "code: required; phone: invalid", err.Error())

	var ve Errors
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "invalid", ve["phone"])
}
