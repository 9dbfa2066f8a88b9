// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestAdminKey(t *testing.T) {
	key := GenerateAdminKey("secret-salt")
	if key == "" {
		t.Fatal("GenerateAdminKey() returned empty string")
	}

	// Deterministic
	if key != GenerateAdminKey("secret-salt") {
		t.Error("GenerateAdminKey() is not deterministic")
	}

	// Different salts produce different keys
	if key == GenerateAdminKey("other-salt") {
		t.Error("GenerateAdminKey() produced same key for different salts")
	}

	if err := ValidateAdminKey(key, "secret-salt"); err != nil {
		t.Errorf("ValidateAdminKey() error = %v, want nil", err)
	}
	if err := ValidateAdminKey(key, "other-salt"); !errors.Is(err, ErrInvalidAdminKey) {
		t.Errorf("ValidateAdminKey() error = %v, want ErrInvalidAdminKey", err)
	}
	if err := ValidateAdminKey("", "secret-salt"); !errors.Is(err, ErrInvalidAdminKey) {
		t.Errorf("ValidateAdminKey() with empty key error = %v, want ErrInvalidAdminKey", err)
	}
}

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateSessionToken() returned empty string")
	}

	token2, _ := GenerateSessionToken()
	if token == token2 {
		t.Error("GenerateSessionToken() produced duplicate tokens")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter2!" {
		t.Error("HashPassword() returned the plaintext password")
	}

	if err := CheckPassword(hash, "hunter2!"); err != nil {
		t.Errorf("CheckPassword() error = %v, want nil", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() error = %v, want ErrInvalidCredentials", err)
	}
}
