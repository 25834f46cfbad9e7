package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("user-123", "a@b.com", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != "user-123" || claims.Email != "a@b.com" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("subject mismatch: %q", claims.Subject)
	}
	if claims.ID == "" {
		t.Fatalf("expected non-empty jti")
	}
	if ttl := claims.TTL(time.Now()); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestGenerateToken_UniqueJTI(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	a, _ := GenerateToken("u", "a@b.com", secret, time.Hour)
	b, _ := GenerateToken("u", "a@b.com", secret, time.Hour)

	ca, err := ParseToken(a, secret)
	if err != nil {
		t.Fatal(err)
	}
	cb, err := ParseToken(b, secret)
	if err != nil {
		t.Fatal(err)
	}
	if ca.ID == cb.ID {
		t.Fatalf("expected distinct jti, both %q", ca.ID)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1", "a@b.com", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", "a@b.com", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_WrongAlgorithm(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "u",
	})
	s, err := tok.SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseToken(s, secret); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_MissingExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti"},
		UserID:           "u",
	})
	s, err := tok.SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseToken(s, secret); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	if _, err := ParseToken("not.a.jwt", []byte("k")); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
