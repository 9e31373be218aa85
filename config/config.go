// Package config loads the cashbook tool configuration from the environment
// and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvState         = "CASHBOOK_STATE"
	EnvStore         = "CASHBOOK_STORE"
	EnvLogLevel      = "CASHBOOK_LOG_LEVEL"
	EnvFiscalProfile = "CASHBOOK_FISCAL_PROFILE"
	EnvModel         = "CASHBOOK_MODEL"
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
)

// Defaults.
const (
	DefaultState = "cashbook.json"
	DefaultStore = "file"
	DefaultModel = "gemini-2.5-flash"
)

// Config is the tool configuration.
type Config struct {
	State         string // path of the snapshot
	Store         string // "file" or "bolt"
	LogLevel      string
	FiscalProfile string // path of the fiscal profile YAML, optional
	Model         string // model used for category suggestions
	GeminiAPIKey  string
}

// Load reads the configuration from the environment. The .env file at
// envPath, if given, must exist; otherwise a .env file in the current
// directory is loaded when present. Variables already set in the environment
// win over the .env file.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	c := &Config{
		State:         getEnvOrDefault(EnvState, DefaultState),
		Store:         strings.ToLower(getEnvOrDefault(EnvStore, DefaultStore)),
		LogLevel:      os.Getenv(EnvLogLevel),
		FiscalProfile: os.Getenv(EnvFiscalProfile),
		Model:         getEnvOrDefault(EnvModel, DefaultModel),
		GeminiAPIKey:  os.Getenv(EnvGeminiAPIKey),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the values that have a closed set of choices.
func (c *Config) Validate() error {
	switch c.Store {
	case "file", "bolt":
	default:
		return fmt.Errorf("invalid %s %q: want file or bolt", EnvStore, c.Store)
	}
	if strings.TrimSpace(c.State) == "" {
		return fmt.Errorf("%s is empty", EnvState)
	}
	return nil
}

// FiscalProfile lists the accounts that take part in the tax estimate.
//
//	fiscalAccounts:
//	  - Banco
//	  - Caja
type FiscalProfile struct {
	FiscalAccounts []string `yaml:"fiscalAccounts"`
}

// LoadFiscalProfile reads a fiscal profile. An empty path is an empty profile.
func LoadFiscalProfile(path string) (*FiscalProfile, error) {
	p := &FiscalProfile{}
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fiscal profile: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse fiscal profile %q: %w", path, err)
	}
	return p, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
