package middleware

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCookieCodec_RoundTrip(t *testing.T) {
	codec := NewCookieCodec("cookie-secret")

	value, err := codec.Encode("opaque-token", time.Hour)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(value, "opaque-token") {
		// base64url of the claims does not contain the raw token string,
		// but the token must at least not appear verbatim.
		t.Fatalf("cookie value contains the raw token")
	}

	token, err := codec.Decode(value)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if token != "opaque-token" {
		t.Fatalf("expected opaque-token, got %q", token)
	}
}

func TestCookieCodec_RejectsTampering(t *testing.T) {
	codec := NewCookieCodec("cookie-secret")

	value, err := codec.Encode("opaque-token", time.Hour)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	tampered := value[:len(value)-2] + "xx"
	if _, err := codec.Decode(tampered); err == nil {
		t.Fatalf("expected decode of a tampered cookie to fail")
	}
}

func TestCookieCodec_RejectsWrongSecret(t *testing.T) {
	value, err := NewCookieCodec("secret-a").Encode("opaque-token", time.Hour)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := NewCookieCodec("secret-b").Decode(value); err == nil {
		t.Fatalf("expected decode with a different secret to fail")
	}
}

func TestCookieCodec_RejectsUnsignedAlg(t *testing.T) {
	// A token signed with "none" must never be accepted, whatever its claims.
	tkn := jwt.NewWithClaims(jwt.SigningMethodNone, sidClaims{SID: "opaque-token"})
	value, err := tkn.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := NewCookieCodec("cookie-secret").Decode(value); err == nil {
		t.Fatalf("expected decode of an unsigned cookie to fail")
	}
}

func TestCookieCodec_RejectsExpiredWrapper(t *testing.T) {
	codec := NewCookieCodec("cookie-secret")

	value, err := codec.Encode("opaque-token", -time.Minute)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := codec.Decode(value); err == nil {
		t.Fatalf("expected decode of an expired wrapper to fail")
	}
}
