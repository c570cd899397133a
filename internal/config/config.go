// Package config reads and writes the askanna configuration: the global
// ~/.askanna.yml holding the token and remote, and the per-project
// askanna.yml holding the push target.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	FileName        = ".askanna.yml"
	ProjectFileName = "askanna.yml"
)

var (
	ErrNotLoggedIn = errors.New("not logged in, run `askanna login` first")
	ErrNoRemote    = errors.New("no AskAnna remote configured")
)

type Config struct {
	Auth    AuthConfig    `yaml:"auth"`
	AskAnna AskAnnaConfig `yaml:"askanna"`
}

type AuthConfig struct {
	Token string `yaml:"token,omitempty"`
}

type AskAnnaConfig struct {
	Remote string `yaml:"remote,omitempty"`
	UI     string `yaml:"ui,omitempty"`
}

func Default() Config {
	return Config{
		AskAnna: AskAnnaConfig{
			Remote: utils.DefaultAPIURL,
			UI:     utils.DefaultUIURL,
		},
	}
}

// DefaultPath is ~/.askanna.yml, falling back to the working directory when
// no home directory is known.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads path on top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("op", "config/config").Msgf("No config file at %s, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	if cfg.AskAnna.Remote == "" {
		cfg.AskAnna.Remote = utils.DefaultAPIURL
	}
	if cfg.AskAnna.UI == "" {
		cfg.AskAnna.UI = utils.DefaultUIURL
	}
	return cfg, nil
}

// Save writes the config readable by the owner only, since it holds the token.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	log.Debug().Str("op", "config/config").Msgf("Config saved to %s", path)
	return nil
}

// ApplyEnv overrides file values with AA_TOKEN and AA_REMOTE.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("AA_TOKEN"); v != "" {
		c.Auth.Token = v
	}
	if v := os.Getenv("AA_REMOTE"); v != "" {
		c.AskAnna.Remote = v
	}
}

func (c Config) Validate() error {
	if c.AskAnna.Remote == "" {
		return ErrNoRemote
	}
	if c.Auth.Token == "" {
		return ErrNotLoggedIn
	}
	return nil
}

func (c *Config) Logout() {
	c.Auth.Token = ""
}

// Remote returns the API base URL with a trailing slash.
func (c Config) Remote() string {
	return strings.TrimRight(c.AskAnna.Remote, "/") + "/"
}

// RunSUUID is set by AskAnna inside a running job.
func RunSUUID() string {
	return os.Getenv("AA_RUN_SUUID")
}
