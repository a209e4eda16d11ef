package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultListen   = ":8340"
	defaultDataDir  = "./data"
	defaultPageSize = 50
)

// AdminIdentity is the single console account. It lives in the config, not
// in the credential store.
type AdminIdentity struct {
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

// Config is built once at startup and passed down read-only. The secret is
// shared between session signing and password fingerprints, so it must be
// stable across restarts.
type Config struct {
	Listen      string        `yaml:"listen"`
	DataDir     string        `yaml:"data_dir"`
	Secret      string        `yaml:"secret"`
	Admin       AdminIdentity `yaml:"admin"`
	LogPageSize int           `yaml:"log_page_size"`
	// Notice is optional markdown shown on the login page.
	Notice string `yaml:"notice"`
}

// Load reads the YAML file at path, fills defaults and applies AUTHGATE_*
// environment overrides. A missing file is not an error; env-only setups are
// fine as long as the result validates.
func Load(path string) (Config, error) {
	cfg := Config{
		Listen:      defaultListen,
		DataDir:     defaultDataDir,
		LogPageSize: defaultPageSize,
	}

	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.Listen == "" {
		cfg.Listen = defaultListen
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	if cfg.LogPageSize <= 0 {
		cfg.LogPageSize = defaultPageSize
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AUTHGATE_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("AUTHGATE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("AUTHGATE_SECRET"); v != "" {
		cfg.Secret = v
	}
	if v := os.Getenv("AUTHGATE_ADMIN_USER"); v != "" {
		cfg.Admin.User = v
	}
	if v := os.Getenv("AUTHGATE_ADMIN_PASS"); v != "" {
		cfg.Admin.Pass = v
	}
}

func (c Config) validate() error {
	// No ephemeral fallback here: a generated secret would orphan every
	// stored password fingerprint on restart.
	if c.Secret == "" {
		return errors.New("config: secret is required")
	}
	if c.Admin.User == "" || c.Admin.Pass == "" {
		return errors.New("config: admin user and pass are required")
	}
	return nil
}
