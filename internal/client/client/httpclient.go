package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API mounted at baseURL, e.g.
// "http://127.0.0.1:8080/api/auth".
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (c *HTTPClient) Register(ctx context.Context, email string, password, confirmation []byte) (string, error) {
	req := map[string]string{
		"email":                 email,
		"password":              string(password),
		"confirmation_password": string(confirmation),
	}
	return c.message(ctx, http.MethodPost, "/register", "", req)
}

func (c *HTTPClient) Verify(ctx context.Context, email, code string) (string, error) {
	req := map[string]string{"email": email, "verificationCode": code}
	return c.message(ctx, http.MethodPost, "/verify", "", req)
}

func (c *HTTPClient) Resend(ctx context.Context, email string) (string, error) {
	return c.message(ctx, http.MethodPost, "/resend", "", map[string]string{"email": email})
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (string, error) {
	req := map[string]string{"email": email, "password": string(password)}
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/login", "", req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.message(ctx, http.MethodPost, "/forgot-password", "", map[string]string{"email": email})
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, code string, password, confirmation []byte) (string, error) {
	req := map[string]string{
		"email":                   email,
		"code":                    code,
		"newPassword":             string(password),
		"confirmationNewPassword": string(confirmation),
	}
	return c.message(ctx, http.MethodPost, "/reset-forgotten-password", "", req)
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/me", token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) (string, error) {
	return c.message(ctx, http.MethodPost, "/logout", token, nil)
}

func (c *HTTPClient) message(ctx context.Context, method, path, token string, body any) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, method, path, token, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var m messageResponse
		_ = json.Unmarshal(data, &m)
		return &APIError{Status: resp.StatusCode, Message: m.Message}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
