// Package config merges defaults, an optional YAML or TOML file and the
// environment into the settings used by every command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nunajera/mistral-chat/internal"
	"github.com/nunajera/mistral-chat/internal/gateway"
	"github.com/nunajera/mistral-chat/internal/provider"
)

const APIKeyName = "MISTRAL_API_KEY"

type Config struct {
	Server struct {
		Address       string `yaml:"address" toml:"address"`
		Port          int    `yaml:"port" toml:"port"`
		CORSOrigin    string `yaml:"cors_origin" toml:"cors_origin"`
		MaxUploadSize string `yaml:"max_upload_size" toml:"max_upload_size"`
		SessionTTL    string `yaml:"session_ttl" toml:"session_ttl"`
	} `yaml:"server" toml:"server"`
	Mistral struct {
		BaseURL      string `yaml:"base_url" toml:"base_url"`
		APIVersion   string `yaml:"api_version" toml:"api_version"`
		Timeout      string `yaml:"timeout" toml:"timeout"`
		DefaultModel string `yaml:"default_model" toml:"default_model"`
		SecretsFile  string `yaml:"secrets_file" toml:"secrets_file"`
	} `yaml:"mistral" toml:"mistral"`
	Documents struct {
		CharBudget int `yaml:"char_budget" toml:"char_budget"`
	} `yaml:"documents" toml:"documents"`
	Logging struct {
		Level string `yaml:"level" toml:"level"`
	} `yaml:"logging" toml:"logging"`
}

func Default() *Config {
	c := &Config{}
	c.Server.Address = ""
	c.Server.Port = 8080
	c.Server.CORSOrigin = "http://localhost:5173"
	c.Server.MaxUploadSize = "200MB"
	c.Server.SessionTTL = "2h"
	c.Mistral.BaseURL = provider.DefaultBaseURL
	c.Mistral.APIVersion = provider.DefaultAPIVersion
	c.Mistral.Timeout = provider.DefaultTimeout.String()
	c.Mistral.DefaultModel = internal.DefaultModel
	c.Mistral.SecretsFile = filepath.Join(".streamlit", "secrets.toml")
	c.Documents.CharBudget = gateway.DefaultDocumentBudget
	c.Logging.Level = "info"
	return c
}

// Load reads .env if present, then path (may be empty), then env overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	c := Default()
	if path != "" {
		if err := c.readFile(path); err != nil {
			return nil, err
		}
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s: unsupported extension (want .yaml, .yml or .toml)", path)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		c.Server.CORSOrigin = v
	}
	if v := os.Getenv("MISTRAL_MODEL"); v != "" {
		c.Mistral.DefaultModel = v
	}
	if v := os.Getenv("MISTRAL_BASE_URL"); v != "" {
		c.Mistral.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if !internal.IsKnownModel(c.Mistral.DefaultModel) {
		return &internal.InvalidModelError{Model: c.Mistral.DefaultModel}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if _, err := c.UploadLimit(); err != nil {
		return err
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if _, err := c.TTL(); err != nil {
		return err
	}
	return nil
}

// ListenAddr is the host:port the HTTP server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// UploadLimit parses max_upload_size ("200MB", "10 MiB", "1048576").
func (c *Config) UploadLimit() (int64, error) {
	n, err := humanize.ParseBytes(c.Server.MaxUploadSize)
	if err != nil {
		return 0, fmt.Errorf("invalid max_upload_size %q: %w", c.Server.MaxUploadSize, err)
	}
	return int64(n), nil
}

func (c *Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Mistral.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid mistral timeout %q: %w", c.Mistral.Timeout, err)
	}
	return d, nil
}

func (c *Config) TTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid session_ttl %q: %w", c.Server.SessionTTL, err)
	}
	return d, nil
}

func (c *Config) Endpoint() provider.Endpoint {
	return provider.Endpoint{BaseURL: c.Mistral.BaseURL, APIVersion: c.Mistral.APIVersion}
}

// APIKey looks in the environment first, then in the TOML secrets file.
func (c *Config) APIKey() (string, error) {
	if v := strings.TrimSpace(os.Getenv(APIKeyName)); v != "" {
		return v, nil
	}
	if c.Mistral.SecretsFile != "" {
		var secrets map[string]any
		_, err := toml.DecodeFile(c.Mistral.SecretsFile, &secrets)
		switch {
		case err == nil:
			if v, ok := secrets[APIKeyName].(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v), nil
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return "", fmt.Errorf("read secrets %s: %w", c.Mistral.SecretsFile, err)
		}
	}
	return "", &internal.MissingCredentialError{Name: APIKeyName}
}
