package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RakutenHost != "https://api.linksynergy.com" {
		t.Fatalf("unexpected host %q", cfg.RakutenHost)
	}
	if cfg.SyncInterval != 15*time.Minute {
		t.Fatalf("unexpected sync interval %v", cfg.SyncInterval)
	}
	if cfg.SyncLookback != 24*time.Hour {
		t.Fatalf("unexpected lookback %v", cfg.SyncLookback)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
	if cfg.ArchiveEnabled() {
		t.Fatalf("archive should be disabled without endpoint and bucket")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RAKUTEN_CLIENT_ID", "cid")
	t.Setenv("RAKUTEN_CLIENT_SECRET", "csecret")
	t.Setenv("RAKUTEN_ACCOUNT_ID", "3456")
	t.Setenv("SYNC_INTERVAL", "60")
	t.Setenv("ARCHIVE_ENDPOINT", "localhost:9000")
	t.Setenv("ARCHIVE_BUCKET", "reports")
	t.Setenv("ARCHIVE_USE_SSL", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ClientID != "cid" || cfg.ClientSecret != "csecret" || cfg.AccountID != 3456 {
		t.Fatalf("credentials not loaded: %+v", cfg)
	}
	if cfg.SyncInterval != time.Minute {
		t.Fatalf("unexpected sync interval %v", cfg.SyncInterval)
	}
	if !cfg.ArchiveEnabled() || cfg.ArchiveUseSSL {
		t.Fatalf("unexpected archive settings: %+v", cfg)
	}
	if red := cfg.Redacted(); red.ClientSecret != "***" || cfg.ClientSecret != "csecret" {
		t.Fatalf("redaction leaked or mutated: %q / %q", red.ClientSecret, cfg.ClientSecret)
	}
}

func TestLoadRejectsNonPositiveDurations(t *testing.T) {
	for _, key := range []string{"SYNC_INTERVAL", "SYNC_LOOKBACK", "HTTP_TIMEOUT_SECONDS", "STORAGE_TTL_SECONDS"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "0")
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=0", key)
			}
		})
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	if err := flags.Parse([]string{"--log-level", "debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	v := viper.New()
	if err := v.BindPFlag("log_level", flags.Lookup("log-level")); err != nil {
		t.Fatalf("bind: %v", err)
	}
	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected flag value, got %q", cfg.LogLevel)
	}
}
