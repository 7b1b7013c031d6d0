package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsToFileBackend(t *testing.T) {
	path := writeConfig(t, "port: \"5000\"\njwtSecret: test-secret\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageBackend != StorageFile || cfg.DataFilePath != "db.json" {
		t.Fatalf("expected file backend defaults, got %+v", cfg)
	}
	if cfg.SessionBackend != SessionsJWT {
		t.Fatalf("expected jwt session default, got %q", cfg.SessionBackend)
	}
}

func TestLoadFailsClosedWithoutJWTSecret(t *testing.T) {
	path := writeConfig(t, "port: \"5000\"\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("missing jwtSecret must fail, not fall back to a default key")
	}
}

func TestLoadRequiresDatabaseURLForPostgres(t *testing.T) {
	path := writeConfig(t, "port: \"5000\"\nstorageBackend: postgres\njwtSecret: s\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("postgres backend without databaseURL must fail")
	}
}

func TestLoadRejectsUnknownBackends(t *testing.T) {
	path := writeConfig(t, "port: \"5000\"\nstorageBackend: sqlite\njwtSecret: s\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("unknown storage backend must fail")
	}
	path = writeConfig(t, "port: \"5000\"\njwtSecret: s\nsessionBackend: memcache\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("unknown session backend must fail")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "port: \"5000\"\njwtSecret: from-file\n")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATA_FILE_PATH", "/tmp/other.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.JWTSecret != "from-env" || cfg.DataFilePath != "/tmp/other.json" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestParseSessionTTL(t *testing.T) {
	if d, err := ParseSessionTTL(""); err != nil || d != 0 {
		t.Fatalf("empty ttl should mean store default: %v %v", d, err)
	}
	if d, err := ParseSessionTTL("168h"); err != nil || d != 168*time.Hour {
		t.Fatalf("expected 168h, got %v %v", d, err)
	}
	if _, err := ParseSessionTTL("7d"); err == nil {
		t.Fatalf("go durations have no day unit; expected error")
	}
}
