package app

import (
	"testing"
	"time"
)

func TestEnvString(t *testing.T) {
	t.Setenv("PORTER_TEST_STR", "  value  ")
	if got := EnvString("PORTER_TEST_STR", "def"); got != "value" {
		t.Fatalf("EnvString=%q want=value", got)
	}
	if got := EnvString("PORTER_TEST_STR_UNSET", "def"); got != "def" {
		t.Fatalf("EnvString default=%q want=def", got)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("PORTER_TEST_BOOL", "true")
	if !EnvBool("PORTER_TEST_BOOL", false) {
		t.Fatal("EnvBool(true)=false")
	}
	t.Setenv("PORTER_TEST_BOOL", "not-a-bool")
	if !EnvBool("PORTER_TEST_BOOL", true) {
		t.Fatal("EnvBool should fall back to default on parse error")
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("PORTER_TEST_INT", "42")
	if got := EnvInt("PORTER_TEST_INT", 7); got != 42 {
		t.Fatalf("EnvInt=%d want=42", got)
	}
	t.Setenv("PORTER_TEST_INT", "-5")
	if got := EnvInt("PORTER_TEST_INT", 7); got != 7 {
		t.Fatalf("EnvInt negative=%d want default 7", got)
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("PORTER_TEST_DUR", "90s")
	if got := EnvDuration("PORTER_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("EnvDuration=%v want=90s", got)
	}
	t.Setenv("PORTER_TEST_DUR", "0s")
	if got := EnvDuration("PORTER_TEST_DUR", time.Minute); got != time.Minute {
		t.Fatalf("EnvDuration zero=%v want default 1m", got)
	}
}
