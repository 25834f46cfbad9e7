package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// SMTPNotifier sends plain-text mail through an authenticated SMTP relay.
type SMTPNotifier struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(host string, port int, user, password, from string) *SMTPNotifier {
	return &SMTPNotifier{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		sendMail: smtp.SendMail,
	}
}

// Send returns when the relay accepts the message or ctx is done, whichever
// comes first. An abandoned delivery keeps running in the background.
func (s *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	if s == nil || s.Host == "" {
		return errors.New("smtp not configured")
	}
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return errors.New("smtp: invalid header value")
	}

	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Password, s.Host)
	}
	msg := buildMessage(s.From, to, subject, body)

	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(addr, auth, s.From, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
