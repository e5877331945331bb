package auth

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestJWTStrategyRoundtrip(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})

	token, err := strategy.IssueToken(42, RoleProducer)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.ActorID != 42 || claims.Role != RoleProducer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTStrategyExpiredToken(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{TTL: -time.Minute})

	token, err := strategy.IssueToken(42, RoleCustomer)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestJWTStrategyWrongSecret(t *testing.T) {
	token, err := NewJWTStrategy("secret", Options{}).IssueToken(42, RoleCustomer)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := NewJWTStrategy("other", Options{}).ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestJWTStrategyRejectsUnknownRole(t *testing.T) {
	secret := []byte("secret")
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := NewJWTStrategy("secret", Options{}).ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestJWTStrategyRejectsWrongMethod(t *testing.T) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: string(RoleCustomer),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := NewJWTStrategy("secret", Options{}).ParseToken(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestJWTStrategyRejectsBadSubject(t *testing.T) {
	secret := []byte("secret")
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-number",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: string(RoleCustomer),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := NewJWTStrategy("secret", Options{}).ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestJWTStrategyName(t *testing.T) {
	if got := NewJWTStrategy("secret", Options{}).Name(); got != "jwt" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestIssueTokenSubjectMatchesActor(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	token, err := strategy.IssueToken(7, RoleCustomer)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	var claims tokenClaims
	if _, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Subject != strconv.FormatInt(7, 10) {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
}
