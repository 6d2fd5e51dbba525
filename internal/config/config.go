package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the dashboard. Values come from the
// environment, optionally seeded from a .env file in the working directory.
type Config struct {
	Port           string `env:"RECON_PORT" envDefault:"8990"`
	StaticDir      string `env:"RECON_STATIC_DIR" envDefault:"static"`
	DataDir        string `env:"RECON_DATA_DIR" envDefault:"data"`
	RecordsFile    string `env:"RECON_RECORDS_FILE"`
	LogLevel       string `env:"RECON_LOG_LEVEL" envDefault:"info"`
	Dev            bool   `env:"RECON_DEV" envDefault:"false"`
	RememberUser   bool   `env:"RECON_REMEMBER_USER" envDefault:"true"`
	MaxUploadBytes int64  `env:"RECON_MAX_UPLOAD_BYTES" envDefault:"1048576"`
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("RECON_MAX_UPLOAD_BYTES must be positive, got %d", cfg.MaxUploadBytes)
	}
	return cfg, nil
}
