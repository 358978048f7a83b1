package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func setSecret(t *testing.T) {
	t.Helper()
	t.Setenv("RIGHTSEAT_AUTH_SECRET", "test-secret")
	ResetSecretForTests()
	t.Cleanup(ResetSecretForTests)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	setSecret(t)

	token, expiresIn, err := IssueToken(42)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if expiresIn != int64(TokenTTL/time.Second) {
		t.Fatalf("unexpected expires_in: %d", expiresIn)
	}

	userID, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if userID != 42 {
		t.Fatalf("unexpected user id: %d", userID)
	}
}

func TestIssueTokenRequiresSecret(t *testing.T) {
	t.Setenv("RIGHTSEAT_AUTH_SECRET", "")
	ResetSecretForTests()
	t.Cleanup(ResetSecretForTests)

	if _, _, err := IssueToken(1); err == nil {
		t.Fatal("expected error when secret is unset")
	}
	if err := EnsureSecret(); err == nil {
		t.Fatal("EnsureSecret should fail when secret is unset")
	}
}

func TestVerifyTokenFailsClosed(t *testing.T) {
	setSecret(t)

	token, _, err := IssueToken(7)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	// Tampered signature.
	tampered := token[:len(token)-2] + "xx"

	// Expired token, signed with the right secret.
	expired := signedToken(t, "test-secret", jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "7",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
	})

	// Wrong issuer.
	wrongIssuer := signedToken(t, "test-secret", jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   "7",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	// Non-numeric subject.
	badSubject := signedToken(t, "test-secret", jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "not-a-number",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	cases := map[string]string{
		"empty":       "",
		"garbage":     "not.a.jwt",
		"tampered":    tampered,
		"expired":     expired,
		"wrongIssuer": wrongIssuer,
		"badSubject":  badSubject,
	}
	for name, tok := range cases {
		if _, err := VerifyToken(tok); err != ErrInvalidToken {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func signedToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return signed
}

func TestVerifyTokenRejectsWrongAlgorithm(t *testing.T) {
	setSecret(t)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "7",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	if !strings.Contains(signed, ".") {
		t.Fatal("malformed test token")
	}
	if _, err := VerifyToken(signed); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
