package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in")

func (a *App) prompt(label string) (string, error) {
	return getSimpleText(a.reader, label, a.out)
}

// promptNewPassword reads a password and its confirmation. Both slices must
// be wiped by the caller.
func (a *App) promptNewPassword() ([]byte, []byte, error) {
	pw, err := getPassword("Enter password", a.out)
	if err != nil {
		return nil, nil, err
	}
	confirmation, err := getPassword("Repeat password", a.out)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, nil, err
	}
	return pw, confirmation, nil
}

// report prints the outcome of a call and passes err through.
func (a *App) report(msg string, err error) error {
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			fmt.Fprintln(a.out, "Server unavailable, try again later.")
		} else {
			fmt.Fprintln(a.out, "Error:", err.Error())
		}
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// Register prompts for an email and a new password and creates the account.
func (a *App) Register(ctx context.Context) error {
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}

	pw, confirmation, err := a.promptNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	defer common.WipeByteArray(confirmation)

	return a.report(a.api.Register(ctx, email, pw, confirmation))
}

// Verify submits the code that was mailed after registration.
func (a *App) Verify(ctx context.Context) error {
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}
	code, err := a.prompt("Enter verification code")
	if err != nil {
		return err
	}
	return a.report(a.api.Verify(ctx, email, code))
}

// Resend asks the server to mail a fresh verification code.
func (a *App) Resend(ctx context.Context) error {
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}
	return a.report(a.api.Resend(ctx, email))
}

// Login authenticates and keeps the session token in memory.
func (a *App) Login(ctx context.Context) error {
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}

	pw, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	token, err := a.api.Login(ctx, email, pw)
	if err != nil {
		return a.report("", err)
	}

	a.email, a.token = email, token
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Forgot requests a password reset code.
func (a *App) Forgot(ctx context.Context) error {
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}
	return a.report(a.api.ForgotPassword(ctx, email))
}

// Reset sets a new password using a mailed reset code.
func (a *App) Reset(ctx context.Context) error {
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}
	code, err := a.prompt("Enter reset code")
	if err != nil {
		return err
	}

	pw, confirmation, err := a.promptNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	defer common.WipeByteArray(confirmation)

	return a.report(a.api.ResetPassword(ctx, email, code, pw, confirmation))
}

// Me prints the account behind the current session.
func (a *App) Me(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report("", errNotLoggedIn)
	}

	p, err := a.api.Me(ctx, a.token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.clearSession()
		}
		return a.report("", err)
	}

	fmt.Fprintf(a.out, "id: %s\nemail: %s\nverified: %t\n", p.ID, p.Email, p.EmailVerified)
	return nil
}

// Logout revokes the session token on the server and forgets it locally.
// The local session is dropped even when the server call fails.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report("", errNotLoggedIn)
	}

	msg, err := a.api.Logout(ctx, a.token)
	a.clearSession()
	return a.report(msg, err)
}

func (a *App) clearSession() {
	a.email, a.token = "", ""
}
