package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Verify(ctx context.Context) error
	Resend(ctx context.Context) error
	Login(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context) error
	Me(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads a line from scanner, treats the first token as the command
// and dispatches to a. The loop exits on EOF or on "exit"/"quit".
//
//	Not logged in:
//	  - register       create an account
//	  - verify         confirm the email with the mailed code
//	  - resend         mail a new verification code
//	  - login          authenticate
//	  - forgot         request a password reset code
//	  - reset          set a new password with a reset code
//
//	Logged in, additionally:
//	  - me             show the current account
//	  - logout         end the session
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("authkeeper %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, logout, register, verify, resend, login, forgot, reset, exit")
			} else {
				printlnFn("Available commands: register, verify, resend, login, forgot, reset, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "verify":
			_ = a.Verify(ctx)

		case "resend":
			_ = a.Resend(ctx)

		case "login":
			_ = a.Login(ctx)

		case "forgot":
			_ = a.Forgot(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "me":
			_ = a.Me(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
