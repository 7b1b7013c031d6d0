package auth

import "testing"

func TestHashPasswordAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "" || hash == "s3cret1" {
		t.Fatalf("expected opaque non-empty hash, got %q", hash)
	}
	if !CheckPassword("s3cret1", hash) {
		t.Fatalf("expected password check to pass")
	}
	if CheckPassword("wrong", hash) {
		t.Fatalf("expected password check to fail")
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	second, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct hashes for repeated input")
	}
	if !CheckPassword("samepassword", first) || !CheckPassword("samepassword", second) {
		t.Fatalf("both hashes should verify the original password")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret1"); err != nil {
		t.Fatalf("expected valid password, got: %v", err)
	}
	if err := ValidatePassword("short"); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got: %v", err)
	}
	if err := ValidatePassword(""); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort for empty input, got: %v", err)
	}
}
