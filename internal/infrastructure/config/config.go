// Package config resolves the credentials and endpoint the workflows run
// with. The credential source is explicit: the caller always receives a
// filled Config rather than the client reading ambient state on its own.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const sweepConfigFile = ".snyksweep/config.yaml"

// snykConfigstoreFile is where the snyk CLI keeps its own credentials;
// token discovery falls back to it so `snyk auth` is enough to use this
// tool.
const snykConfigstoreFile = ".config/configstore/snyk.json"

// Config carries everything the workflows need to reach the API.
type Config struct {
	Token    string
	Endpoint string
	Timeout  time.Duration
}

type fileConfig struct {
	Token          string `yaml:"token"`
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// TokenDiscovered reports whether a token was found anywhere.
func (c *Config) TokenDiscovered() bool {
	return c.Token != ""
}

// Load resolves the configuration for a run. Token precedence: the
// explicit flag value, then SNYK_TOKEN, then the tool's own config file,
// then the snyk CLI configstore. An empty token is not an error here; the
// caller decides how to report it.
func Load(flagToken, home string) (*Config, error) {
	v := viper.New()
	if err := v.BindEnv("token", "SNYK_TOKEN"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv("endpoint", "SNYK_API"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	cfg := &Config{Timeout: 30 * time.Second}

	fileCfg, err := loadFileConfig(home)
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		if fileCfg.Token != "" {
			cfg.Token = fileCfg.Token
		}
		if fileCfg.Endpoint != "" {
			cfg.Endpoint = fileCfg.Endpoint
		}
		if fileCfg.TimeoutSeconds > 0 {
			cfg.Timeout = time.Duration(fileCfg.TimeoutSeconds) * time.Second
		}
	}

	if env := v.GetString("endpoint"); env != "" {
		cfg.Endpoint = env
	}
	if env := v.GetString("token"); env != "" {
		cfg.Token = env
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}

	if cfg.Token == "" {
		cfg.Token = snykCLIToken(home)
	}

	return cfg, nil
}

func loadFileConfig(home string) (*fileConfig, error) {
	path := filepath.Join(home, sweepConfigFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	return &cfg, nil
}

// snykCLIToken reads the token the snyk CLI stored during `snyk auth`.
// Any failure just means no token was discovered.
func snykCLIToken(home string) string {
	data, err := os.ReadFile(filepath.Join(home, snykConfigstoreFile))
	if err != nil {
		return ""
	}

	var store struct {
		API string `json:"api"`
	}
	if err := json.Unmarshal(data, &store); err != nil {
		return ""
	}
	return store.API
}
