package mailer

import (
	"fmt"
	"time"
)

type Message struct {
	Subject string
	Body    string
}

func WelcomeMessage(code string) Message {
	return Message{
		Subject: "Welcome! Verify your email",
		Body: fmt.Sprintf("Thanks for signing up.\n\nYour verification code is: %s\n\n"+
			"Enter it to activate your account.", code),
	}
}

func VerificationMessage(code string) Message {
	return Message{
		Subject: "Your new verification code",
		Body:    fmt.Sprintf("Your verification code is: %s", code),
	}
}

func PasswordResetMessage(code string, validity time.Duration) Message {
	return Message{
		Subject: "Password reset code",
		Body: fmt.Sprintf("Your password reset code is: %s\n\nIt expires in %d minutes. "+
			"If you did not request a reset, ignore this email.", code, int(validity.Minutes())),
	}
}
