package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.LogLevel != slog.LevelInfo || cfg.StorageType != "memory" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.MaxUploadBytes != 32<<20 || cfg.FrameCacheBytes != 64<<20 {
		t.Errorf("limits = %d, %d", cfg.MaxUploadBytes, cfg.FrameCacheBytes)
	}
	if cfg.Language() != language.English {
		t.Errorf("Language = %v", cfg.Language())
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("SCREENCAST_ADDR", "127.0.0.1:9000")
	t.Setenv("SCREENCAST_LOG_LEVEL", "debug")
	t.Setenv("SCREENCAST_STORAGE_TYPE", "sqlite")
	t.Setenv("SCREENCAST_SQLITE_DSN", "file:test.db")
	t.Setenv("SCREENCAST_ALLOWED_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("SCREENCAST_LANG", "de-CH")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("cfg = %+v", cfg)
	}
	if o := cfg.Store(); o.Type != "sqlite" || o.DSN != "file:test.db" || o.Path != "./data" {
		t.Errorf("Store = %+v", o)
	}
	if !slices.Equal(cfg.AllowedOrigins, []string{"https://a.test", "https://b.test"}) {
		t.Errorf("AllowedOrigins = %q", cfg.AllowedOrigins)
	}
	if cfg.Language() != language.MustParse("de-CH") {
		t.Errorf("Language = %v", cfg.Language())
	}
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	data := "SCREENCAST_STORAGE_TYPE=filesystem\nSCREENCAST_STORAGE_PATH=/srv/videos\nSCREENCAST_ADDR=:7000\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCREENCAST_ADDR", ":9999")
	t.Cleanup(func() {
		os.Unsetenv("SCREENCAST_STORAGE_TYPE")
		os.Unsetenv("SCREENCAST_STORAGE_PATH")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageType != "filesystem" || cfg.StoragePath != "/srv/videos" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q, the environment must win over the file", cfg.Addr)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("SCREENCAST_MAX_UPLOAD_BYTES", "lots")

	var cfg Config
	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLanguageFallback(t *testing.T) {
	if got := (Config{Lang: "!!"}).Language(); got != language.English {
		t.Errorf("Language = %v, want en", got)
	}
}
