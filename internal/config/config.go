// Package config reads the settings of the screencast binaries from the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/gogpu/screencast/store"
)

// Prefix is prepended to every variable name.
const Prefix = "SCREENCAST_"

// Config holds the settings of cmd/screencast.
type Config struct {
	Addr     string     `env:"ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	Lang     string     `env:"LANG" envDefault:"en"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	StoragePath string `env:"STORAGE_PATH" envDefault:"./data"`
	SQLiteDSN   string `env:"SQLITE_DSN" envDefault:"screencast.db"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Prefix    string `env:"S3_PREFIX"`

	MaxUploadBytes  int64    `env:"MAX_UPLOAD_BYTES" envDefault:"33554432"`
	AllowedOrigins  []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	FrameCacheBytes int64    `env:"FRAME_CACHE_BYTES" envDefault:"67108864"`
}

// ParseEnv fills target from SCREENCAST_ variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: Prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the optional dotenv files, .env by default, and then the
// environment. Variables already set win over the files.
func Load(dotenv ...string) (Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Store returns the options of the configured store.
func (c Config) Store() store.Options {
	return store.Options{
		Type:   c.StorageType,
		Path:   c.StoragePath,
		DSN:    c.SQLiteDSN,
		Bucket: c.S3Bucket,
		Prefix: c.S3Prefix,
	}
}

// Language returns the configured language, or English when it cannot
// be parsed.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Lang)
	if err != nil {
		return language.English
	}
	return tag
}
