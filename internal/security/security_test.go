package security

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPlainVerifier(t *testing.T) {
	v, err := NewPasswordVerifier("")
	if err != nil {
		t.Fatalf("NewPasswordVerifier: %v", err)
	}
	sealed, _ := v.Seal("admin123")
	if !v.Verify("admin123", sealed) {
		t.Error("exact password should verify")
	}
	for _, wrong := range []string{"Admin123", "admin123 ", "", "admin12"} {
		if v.Verify(wrong, sealed) {
			t.Errorf("%q should not verify", wrong)
		}
	}
}

func TestArgon2Verifier(t *testing.T) {
	v := Argon2Verifier{Params: Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}}
	sealed, err := v.Seal("secret-pass")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !strings.HasPrefix(sealed, "$argon2id$") {
		t.Fatalf("unexpected encoding %q", sealed)
	}
	if sealed == "secret-pass" {
		t.Fatal("argon2 verifier must not store plaintext")
	}
	if !v.Verify("secret-pass", sealed) {
		t.Error("correct password should verify")
	}
	if v.Verify("wrong", sealed) {
		t.Error("wrong password should not verify")
	}
	if v.Verify("secret-pass", "not-a-hash") {
		t.Error("malformed hash should not verify")
	}
}

func TestNewPasswordVerifier_Unknown(t *testing.T) {
	if _, err := NewPasswordVerifier("md5"); !errors.Is(err, ErrUnknownScheme) {
		t.Errorf("expected ErrUnknownScheme, got %v", err)
	}
}

func TestClientToken_RoundTrip(t *testing.T) {
	tok, err := GenerateClientToken("s3cret", "client-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateClientToken: %v", err)
	}
	claims, err := ParseClientToken(tok, "s3cret")
	if err != nil {
		t.Fatalf("ParseClientToken: %v", err)
	}
	if claims.ClientID != "client-1" {
		t.Errorf("ClientID = %q", claims.ClientID)
	}
	if _, err := ParseClientToken(tok, "other"); !errors.Is(err, ErrInvalidClientToken) {
		t.Errorf("wrong secret: expected ErrInvalidClientToken, got %v", err)
	}
}

func TestClientToken_Expired(t *testing.T) {
	tok, err := GenerateClientToken("s3cret", "client-1", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateClientToken: %v", err)
	}
	if _, err := ParseClientToken(tok, "s3cret"); !errors.Is(err, ErrInvalidClientToken) {
		t.Errorf("expected ErrInvalidClientToken, got %v", err)
	}
}

func TestGenerateOTP_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if !IsOTPFormat(code) {
			t.Fatalf("GenerateOTP() = %q, not six digits", code)
		}
	}
}

func TestIsOTPFormat(t *testing.T) {
	tests := map[string]bool{
		"000000":  true,
		"123456":  true,
		"12345":   false,
		"1234567": false,
		"12a456":  false,
		" 12345":  false,
		"":        false,
		"１２３４５６":  false,
	}
	for code, want := range tests {
		if got := IsOTPFormat(code); got != want {
			t.Errorf("IsOTPFormat(%q) = %v, want %v", code, got, want)
		}
	}
}
