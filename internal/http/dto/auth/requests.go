// Package auth contiene los DTOs de /api/auth.
package auth

import (
	"strings"
	"unicode/utf8"

	"github.com/dohkar/dohkar-api/internal/validation"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

func checkPhone(errs validation.Errors, phone *string) {
	norm, ok := validation.NormalizePhone(*phone)
	if !ok {
		errs.Add("phone", "must be a Russian phone number (+7XXXXXXXXXX)")
		return
	}
	*phone = norm
}

func checkPassword(errs validation.Errors, field, pwd string) {
	n := utf8.RuneCountInString(pwd)
	switch {
	case n == 0:
		errs.Add(field, "is required")
	case n < MinPasswordLength:
		errs.Add(field, "must be at least 8 characters")
	case n > MaxPasswordLength:
		errs.Add(field, "must be at most 72 characters")
	}
}

// SendCodeRequest: POST /api/auth/send-code
type SendCodeRequest struct {
	Phone string `json:"phone"`
}

// Validate normaliza Phone a +7XXXXXXXXXX.
func (r *SendCodeRequest) Validate() error {
	errs := validation.Errors{}
	checkPhone(errs, &r.Phone)
	return errs.Err()
}

// VerifyCodeRequest: POST /api/auth/phone/verify
type VerifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (r *VerifyCodeRequest) Validate() error {
	errs := validation.Errors{}
	checkPhone(errs, &r.Phone)
	r.Code = strings.TrimSpace(r.Code)
	if !validation.ValidCode(r.Code) {
		errs.Add("code", "must be 4 to 6 digits")
	}
	return errs.Err()
}

// PhonePasswordRequest sirve para register y login por teléfono+password.
type PhonePasswordRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (r *PhonePasswordRequest) Validate() error {
	errs := validation.Errors{}
	checkPhone(errs, &r.Phone)
	checkPassword(errs, "password", r.Password)
	return errs.Err()
}

// RefreshRequest: el token puede venir en el body o en la cookie refreshToken.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *RefreshRequest) Validate() error {
	r.RefreshToken = strings.TrimSpace(r.RefreshToken)
	if r.RefreshToken == "" {
		return validation.Errors{"refreshToken": "is required"}
	}
	return nil
}

// ChangePasswordRequest: POST /api/auth/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	errs := validation.Errors{}
	if r.CurrentPassword == "" {
		errs.Add("currentPassword", "is required")
	}
	checkPassword(errs, "newPassword", r.NewPassword)
	return errs.Err()
}
