package app

import (
	"strings"
	"testing"
)

func TestValidateSecurityConfigDisabled(t *testing.T) {
	cfg := Config{RequireTokenHMAC: false}
	if err := ValidateSecurityConfig(cfg); err != nil {
		t.Fatalf("policy disabled but got error: %v", err)
	}
}

func TestValidateSecurityConfigMissingKey(t *testing.T) {
	t.Setenv("PORTER_TOKEN_HMAC_KEY", "")

	cfg := Config{RequireTokenHMAC: true}
	err := ValidateSecurityConfig(cfg)
	if err == nil {
		t.Fatal("expected error when HMAC key is missing under policy")
	}
	if !strings.Contains(err.Error(), "PORTER_TOKEN_HMAC_KEY") {
		t.Fatalf("error does not name the missing key: %v", err)
	}
}

func TestValidateSecurityConfigShortKey(t *testing.T) {
	t.Setenv("PORTER_TOKEN_HMAC_KEY", "too-short")

	cfg := Config{RequireTokenHMAC: true}
	if err := ValidateSecurityConfig(cfg); err == nil {
		t.Fatal("expected error for short HMAC key under policy")
	}
}

func TestValidateSecurityConfigKeyedMode(t *testing.T) {
	t.Setenv("PORTER_TOKEN_HMAC_KEY", strings.Repeat("k", 32))

	cfg := Config{RequireTokenHMAC: true}
	if err := ValidateSecurityConfig(cfg); err != nil {
		t.Fatalf("valid key rejected: %v", err)
	}
}
