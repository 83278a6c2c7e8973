package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "DB_PATH", "SESSION_SECRET", "SESSION_TTL", "REVEAL_DELAY", "CLIENT_ORIGIN", "PALETTE_FILE", "SWEEP_INTERVAL", "SECURE_COOKIES"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "5175" || cfg.RevealDelay != time.Second || cfg.SessionTTL != 12*time.Hour {
		t.Errorf("defaults: %+v", cfg)
	}
	if !cfg.UsingDevSecret() {
		t.Error("expected dev secret")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("REVEAL_DELAY", "750ms")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SECURE_COOKIES", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" || cfg.RevealDelay != 750*time.Millisecond || !cfg.SecureCookies || cfg.UsingDevSecret() {
		t.Errorf("overrides: %+v", cfg)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	ok := Config{Port: "1", SessionSecret: "x", SessionTTL: time.Hour, SweepInterval: time.Minute}
	if err := ok.Validate(); err != nil {
		t.Fatal(err)
	}
	bad := ok
	bad.RevealDelay = -time.Second
	if err := bad.Validate(); err == nil {
		t.Error("negative reveal delay accepted")
	}
	bad = ok
	bad.SessionTTL = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero TTL accepted")
	}
}
