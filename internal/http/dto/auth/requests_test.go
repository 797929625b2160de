package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dohkar/dohkar-api/internal/validation"
)

func TestSendCodeRequest_NormalizesPhone(t *testing.T) {
	r := SendCodeRequest{Phone: "8 (999) 123-45-67"}
	require.NoError(t, r.Validate())
	require.Equal(t, "+79991234567", r.Phone)

	r = SendCodeRequest{Phone: "12345"}
	var ve validation.Errors
	require.ErrorAs(t, r.Validate(), &ve)
	require.Contains(t, ve, "phone")
}

func TestVerifyCodeRequest(t *testing.T) {
	for _, code := range []string{"1234", "12345", "123456"} {
		r := VerifyCodeRequest{Phone: "+79991234567", Code: code}
		require.NoError(t, r.Validate(), code)
	}
	for _, code := range []string{"", "123", "1234567", "12a4"} {
		r := VerifyCodeRequest{Phone: "+79991234567", Code: code}
		require.Error(t, r.Validate(), code)
	}
}

func TestPhonePasswordRequest(t *testing.T) {
	r := PhonePasswordRequest{Phone: "+79991234567", Password: "short"}
	var ve validation.Errors
	require.ErrorAs(t, r.Validate(), &ve)
	require.Contains(t, ve, "password")

	r.Password = strings.Repeat("я", 72)
	require.NoError(t, r.Validate())
	r.Password = strings.Repeat("a", 73)
	require.Error(t, r.Validate())
}

func TestChangePasswordRequest(t *testing.T) {
	r := ChangePasswordRequest{NewPassword: "longenough"}
	var ve validation.Errors
	require.ErrorAs(t, r.Validate(), &ve)
	require.Contains(t, ve, "currentPassword")
	require.NotContains(t, ve, "newPassword")
}

func TestRefreshRequest(t *testing.T) {
	r := RefreshRequest{RefreshToken: "  "}
	require.Error(t, r.Validate())
	r.RefreshToken = " a.b.c "
	require.NoError(t, r.Validate())
	require.Equal(t, "a.b.c", r.RefreshToken)
}
