package client

import "context"

// Profile is the account behind a session token.
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Client mirrors the server's auth endpoints. Methods that succeed with a
// message return it for display.
type Client interface {
	Register(ctx context.Context, email string, password, confirmation []byte) (string, error)
	Verify(ctx context.Context, email, code string) (string, error)
	Resend(ctx context.Context, email string) (string, error)
	Login(ctx context.Context, email string, password []byte) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, code string, password, confirmation []byte) (string, error)
	Me(ctx context.Context, token string) (*Profile, error)
	Logout(ctx context.Context, token string) (string, error)
}
