package models

import "time"

// User is an account row. VerificationCode doubles as the password reset
// code; PasswordResetCodeExpiry is only set while a reset is pending.
type User struct {
	ID                      string
	Email                   string
	PasswordHash            string
	EmailVerified           bool
	VerificationCode        *string
	PasswordResetCodeExpiry *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// HasCode reports whether code is the outstanding one-time code.
func (u *User) HasCode(code string) bool {
	return u.VerificationCode != nil && *u.VerificationCode == code
}

// VerificationCodeValid reports whether code is the outstanding email
// verification code. A code issued for a pending reset does not count.
func (u *User) VerificationCodeValid(code string) bool {
	return u.HasCode(code) && u.PasswordResetCodeExpiry == nil
}

// ResetCodeValid reports whether code is an unexpired password reset code at now.
func (u *User) ResetCodeValid(code string, now time.Time) bool {
	return u.HasCode(code) && u.PasswordResetCodeExpiry != nil && now.Before(*u.PasswordResetCodeExpiry)
}
