package signing

import "testing"

func TestSigner(t *testing.T) {
	secret := []byte("topsecret")
	s := NewSigner(secret)
	sig := s.Sign("album/photo123.jpg", 1700000000)
	if len(sig) == 0 {
		t.Fatalf("expected signature")
	}
	if !s.Validate("album/photo123.jpg", "1700000000", sig) {
		t.Fatalf("expected signature to validate")
	}
	if s.Validate("album/other.jpg", "1700000000", sig) {
		t.Fatalf("expected validation to fail for wrong object key")
	}
	if s.Validate("album/photo123.jpg", "42", sig) {
		t.Fatalf("expected validation to fail for wrong expiry")
	}
	if s.Validate("album/photo123.jpg", "not-a-number", sig) {
		t.Fatalf("expected validation to fail for malformed expiry")
	}
}

func TestSignerSecretMatters(t *testing.T) {
	sig := NewSigner([]byte("one")).Sign("k", 10)
	if NewSigner([]byte("two")).Validate("k", "10", sig) {
		t.Fatalf("expected validation to fail across secrets")
	}
}
