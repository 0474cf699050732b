package password

import "testing"

// fastConfig keeps hashing cheap in tests while staying above decode bounds.
func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	cfg.Params.Parallelism = 1
	return cfg
}

func TestHashAndVerify_Roundtrip(t *testing.T) {
	cfg := fastConfig()

	v, err := cfg.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if v == "correct horse battery staple" {
		t.Fatalf("verifier echoes plaintext")
	}

	ok, err := cfg.Verify(v, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	cfg := fastConfig()

	v, err := cfg.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := cfg.Verify(v, "incorrect horse")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	cfg := fastConfig()

	v1, err := cfg.Hash("same password 123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	v2, err := cfg.Hash("same password 123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if v1 == v2 {
		t.Fatalf("expected distinct verifiers for repeated hashing")
	}

	for _, v := range []string{v1, v2} {
		ok, err := cfg.Verify(v, "same password 123")
		if err != nil || !ok {
			t.Fatalf("Verify(%q): ok=%v err=%v", v, ok, err)
		}
	}
}

func TestVerify_MalformedVerifier(t *testing.T) {
	cfg := fastConfig()

	cases := []string{
		"",
		"not-a-verifier",
		"$argon2id$v=19$m=8192,t=1,p=1$short",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$a2V5a2V5a2V5a2V5a2V5",
	}
	for _, bad := range cases {
		ok, err := cfg.Verify(bad, "whatever")
		if err != ErrInvalidVerifier {
			t.Fatalf("Verify(%q): expected ErrInvalidVerifier, got %v", bad, err)
		}
		if ok {
			t.Fatalf("Verify(%q): expected false", bad)
		}
	}
}

func TestVerify_RejectsOversizedParams(t *testing.T) {
	cfg := fastConfig()

	// Hash with far larger memory than the verifier-side limit allows.
	big := cfg
	big.Params.MemoryKiB = cfg.Params.MemoryKiB * 8
	v, err := big.Hash("a perfectly fine password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := cfg.Verify(v, "a perfectly fine password")
	if err != ErrInvalidVerifier {
		t.Fatalf("expected ErrInvalidVerifier, got %v", err)
	}
	if ok {
		t.Fatalf("expected false")
	}
}

func TestValidate_Policy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy.MinLength = 8
	cfg.Policy.MaxLength = 16

	if err := cfg.Validate("short"); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := cfg.Validate("definitely much too long for the policy"); err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if err := cfg.Validate("goodpassw0rd"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestValidate_RejectVeryWeak(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy.MinLength = 8
	cfg.Policy.RejectVeryWeak = true

	if err := cfg.Validate("password"); err != ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := cfg.Validate("11111111"); err != ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := cfg.Validate("a-very-ok-pass"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}
