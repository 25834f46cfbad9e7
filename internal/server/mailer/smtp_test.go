package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  string
}

func TestSMTPNotifier_Send(t *testing.T) {
	n := NewSMTPNotifier("smtp.example.com", 587, "user", "pw", "no-reply@example.com")

	var got sentMail
	n.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		got = sentMail{addr: addr, auth: a, from: from, to: to, msg: string(msg)}
		return nil
	}

	err := n.Send(context.Background(), "a@b.com", "Hello", "code 123456")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.NotNil(t, got.auth)
	assert.Equal(t, "no-reply@example.com", got.from)
	assert.Equal(t, []string{"a@b.com"}, got.to)
	assert.True(t, strings.HasPrefix(got.msg, "From: no-reply@example.com\r\nTo: a@b.com\r\nSubject: Hello\r\n"))
	assert.True(t, strings.HasSuffix(got.msg, "\r\n\r\ncode 123456\r\n"))
}

func TestSMTPNotifier_NoAuthWithoutUser(t *testing.T) {
	n := NewSMTPNotifier("localhost", 25, "", "", "x@y.z")

	var auth smtp.Auth = smtp.PlainAuth("", "sentinel", "", "localhost")
	n.sendMail = func(_ string, a smtp.Auth, _ string, _ []string, _ []byte) error {
		auth = a
		return nil
	}

	require.NoError(t, n.Send(context.Background(), "a@b.com", "s", "b"))
	assert.Nil(t, auth)
}

func TestSMTPNotifier_RelayError(t *testing.T) {
	n := NewSMTPNotifier("h", 587, "u", "p", "f@x.y")
	n.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("550 rejected")
	}

	err := n.Send(context.Background(), "a@b.com", "s", "b")
	assert.ErrorContains(t, err, "550 rejected")
}

func TestSMTPNotifier_ContextDeadline(t *testing.T) {
	n := NewSMTPNotifier("h", 587, "u", "p", "f@x.y")
	release := make(chan struct{})
	defer close(release)
	n.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		<-release
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := n.Send(ctx, "a@b.com", "s", "b")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSMTPNotifier_RejectsHeaderInjection(t *testing.T) {
	n := NewSMTPNotifier("h", 587, "u", "p", "f@x.y")
	n.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("sendMail must not be called")
		return nil
	}

	err := n.Send(context.Background(), "a@b.com\r\nBcc: evil@x.y", "s", "b")
	assert.Error(t, err)
}

func TestSMTPNotifier_NotConfigured(t *testing.T) {
	var n *SMTPNotifier
	assert.Error(t, n.Send(context.Background(), "a@b.com", "s", "b"))

	assert.Error(t, (&SMTPNotifier{}).Send(context.Background(), "a@b.com", "s", "b"))
}
