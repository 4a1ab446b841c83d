package config

import (
	"testing"
	"time"
)

func TestLoadFetchTimeoutFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "25")
	cfg := Load()
	if got := cfg.FetchTimeout(); got != 25*time.Second {
		t.Fatalf("FetchTimeout() = %v, want 25s", got)
	}
}

func TestLoadFetchTimeoutDefault(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "")
	cfg := Load()
	if got := cfg.FetchTimeout(); got != 10*time.Second {
		t.Fatalf("FetchTimeout() = %v, want the 10s default", got)
	}
}

func TestLoadFetchTimeoutIgnoresGarbage(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "soon")
	cfg := Load()
	if got := cfg.FetchTimeout(); got != 10*time.Second {
		t.Fatalf("FetchTimeout() = %v, want the 10s default", got)
	}
}
