package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Validator is implemented by every loadable configuration.
type Validator interface {
	Validate() error
}

// Manager handles configuration loading and parsing.
//
// Sources are applied in order: struct defaults, .env file, config files,
// then environment variables. Environment keys use the upper case service
// prefix and a double underscore between nesting levels, so
// CATALOG_DATABASE__SSL_MODE sets database.ssl_mode.
type Manager struct {
	k           *koanf.Koanf
	serviceName string
	configPaths []string
	envFiles    []string
}

// NewManager creates a new configuration manager.
func NewManager(serviceName string) *Manager {
	return &Manager{
		k:           koanf.New("."),
		serviceName: serviceName,
		configPaths: defaultConfigPaths(serviceName),
		envFiles:    []string{".env"},
	}
}

// WithConfigPaths overrides the config files searched by LoadConfig.
func (m *Manager) WithConfigPaths(paths ...string) *Manager {
	m.configPaths = paths
	return m
}

// WithEnvFiles overrides the dotenv files read by LoadConfig.
func (m *Manager) WithEnvFiles(paths ...string) *Manager {
	m.envFiles = paths
	return m
}

// LoadConfig loads configuration from all sources into cfg.
func (m *Manager) LoadConfig(cfg Validator) error {
	if err := m.k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}

	for _, path := range m.envFiles {
		// godotenv never overrides variables already present in the process.
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}

	for _, path := range m.configPaths {
		if err := m.loadFromFile(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	if err := m.loadFromEnv(); err != nil {
		return fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := m.k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// String returns the raw value stored under key.
func (m *Manager) String(key string) string {
	return m.k.String(key)
}

func (m *Manager) loadFromFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	var parser koanf.Parser
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	return m.k.Load(file.Provider(path), parser)
}

func (m *Manager) loadFromEnv() error {
	prefix := strings.ToUpper(m.serviceName) + "_"

	return m.k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, prefix), "__", "."))
	}), nil)
}

func defaultConfigPaths(serviceName string) []string {
	paths := []string{
		"config.yaml",
		"config.json",
		fmt.Sprintf("%s.yaml", serviceName),
		fmt.Sprintf("configs/%s.yaml", serviceName),
		fmt.Sprintf("configs/%s.%s.yaml", serviceName, environment()),
	}

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		paths = append([]string{configPath}, paths...)
	}

	return paths
}

func environment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	return "dev"
}

// Load reads the catalog configuration for serviceName.
func Load(serviceName string) (*Config, error) {
	cfg := Default()
	if err := NewManager(serviceName).LoadConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad loads config and panics on error (for main functions)
func MustLoad(serviceName string) *Config {
	cfg, err := Load(serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to load %s config: %v", serviceName, err))
	}
	return cfg
}
