package authUtils

import (
	"errors"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
)

func TestTokenRoundTrip(t *testing.T) {
	in := Claims{UserID: "64b7f0c2a1b2c3d4e5f60718", Email: "alice@x.com", Name: "Alice", Role: "CITIZEN"}

	token, err := GenerateToken("secret", in, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	out, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}

func TestParseTokenRejects(t *testing.T) {
	good, _ := GenerateToken("secret", Claims{UserID: "u", Email: "a@x.com"}, time.Hour)
	expired, _ := GenerateToken("secret", Claims{UserID: "u", Email: "a@x.com"}, -time.Hour)
	noEmail, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"user_id": "u",
		"email":   "a@x.com",
	}).SignedString([]byte("secret"))

	cases := map[string]struct {
		secret string
		token  string
	}{
		"wrong secret":   {"other", good},
		"expired":        {"secret", expired},
		"missing claims": {"secret", noEmail},
		"wrong method":   {"secret", hs512},
		"garbage":        {"secret", "not.a.token"},
	}
	for name, tc := range cases {
		if _, err := ParseToken(tc.secret, tc.token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	if _, err := GenerateToken("", Claims{UserID: "u"}, time.Hour); err == nil {
		t.Fatalf("expected an error without a secret")
	}
}
