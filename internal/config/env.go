package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Server holds settings for `brewlab serve`.
type Server struct {
	Addr        string        `env:"BREWLAB_ADDR"         envDefault:":8080"`
	Database    string        `env:"BREWLAB_DB"           envDefault:"brewlab.db"`
	TokenSecret string        `env:"BREWLAB_TOKEN_SECRET,required"`
	DailySalt   string        `env:"BREWLAB_DAILY_SALT"`
	Debug       bool          `env:"BREWLAB_DEBUG"`
	TokenTTL    time.Duration `env:"BREWLAB_TOKEN_TTL"    envDefault:"720h"`
}

// LoadServer reads Server from the environment after loading envFiles.
// Missing env files are skipped; variables already set take precedence.
func LoadServer(envFiles ...string) (Server, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Server{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return Server{}, fmt.Errorf("BREWLAB_TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}
