package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultServerURL = "http://localhost:8080"

// CLIConfig holds CLI configuration persisted to disk.
type CLIConfig struct {
	ServerURL string `yaml:"server_url,omitempty"`
	ClientID  string `yaml:"client_id,omitempty"`
	PageURL   string `yaml:"page_url,omitempty"`
}

// configPath returns the path to the CLI config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pw", "config.yaml"), nil
}

// loadConfig reads the CLI config from disk.
// Returns a zero-value config if the file doesn't exist.
func loadConfig() (CLIConfig, error) {
	path, err := configPath()
	if err != nil {
		return CLIConfig{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return CLIConfig{}, nil
	}
	if err != nil {
		return CLIConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// saveConfig writes the CLI config to disk.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// loadDotEnv adds variables from a .env file to the process environment.
// Variables already set win; a missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// resolve picks the first non-empty of flag, env var and config value.
func resolve(flag, envKey, configured, fallback string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configured != "" {
		return configured
	}
	return fallback
}

// getServerURL returns the server URL from flag, env var, config, or default.
func getServerURL() string {
	cfg, _ := loadConfig()
	return resolve(flagServer, "PW_SERVER_URL", cfg.ServerURL, defaultServerURL)
}

// getClientID returns the thread's client identifier; it has no default.
func getClientID() (string, error) {
	cfg, _ := loadConfig()
	id := resolve(flagClient, "PW_CLIENT_ID", cfg.ClientID, "")
	if id == "" {
		return "", fmt.Errorf("client identifier is required (--client, PW_CLIENT_ID or 'pw init')")
	}
	return id, nil
}

// getPageURL returns the page URL sent as referrer, if any.
func getPageURL() string {
	cfg, _ := loadConfig()
	return resolve(flagPageURL, "PW_PAGE_URL", cfg.PageURL, "")
}
