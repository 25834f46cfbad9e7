package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Presence of required fields is checked by AuthService so the caller sees
// the flow-specific message. These rules only bound what reaches it.
const (
	maxEmailLength    = 254
	maxPasswordLength = 72
)

var digitsRe = regexp.MustCompile(`^[0-9]+$`)

// codeValue accepts a one-time code sent as a JSON string or a JSON number.
type codeValue string

func (c *codeValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = codeValue(s)
		return nil
	default:
		n, err := strconv.ParseUint(string(data), 10, 64)
		if err != nil {
			return errors.New("code must be a string or an integer")
		}
		*c = codeValue(strconv.FormatUint(n, 10))
		return nil
	}
}

func emailRules(v *string) *validation.FieldRules {
	return validation.Field(v, validation.Length(0, maxEmailLength))
}

func passwordRules(v *string) *validation.FieldRules {
	return validation.Field(v, validation.Length(0, maxPasswordLength))
}

func codeRules(v *codeValue) *validation.FieldRules {
	return validation.Field(v, validation.Length(0, 6), validation.Match(digitsRe))
}

type registerRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	ConfirmationPassword string `json:"confirmation_password"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		emailRules(&r.Email),
		passwordRules(&r.Password),
		passwordRules(&r.ConfirmationPassword),
	)
}

type verifyRequest struct {
	Email            string    `json:"email"`
	VerificationCode codeValue `json:"verificationCode"`
}

func (r verifyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		emailRules(&r.Email),
		codeRules(&r.VerificationCode),
	)
}

type emailRequest struct {
	Email string `json:"email"`
}

func (r emailRequest) Validate() error {
	return validation.ValidateStruct(&r, emailRules(&r.Email))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		emailRules(&r.Email),
		passwordRules(&r.Password),
	)
}

type resetPasswordRequest struct {
	Email                   string    `json:"email"`
	Code                    codeValue `json:"code"`
	NewPassword             string    `json:"newPassword"`
	ConfirmationNewPassword string    `json:"confirmationNewPassword"`
}

func (r resetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		emailRules(&r.Email),
		codeRules(&r.Code),
		passwordRules(&r.NewPassword),
		passwordRules(&r.ConfirmationNewPassword),
	)
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}
