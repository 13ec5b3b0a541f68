package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// MinSessionSecret is the minimum length in bytes of the cookie signing secret.
const MinSessionSecret = 32

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Clever  CleverConfig  `toml:"clever"`
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
}

// CleverConfig contains Clever credentials and endpoints.
type CleverConfig struct {
	APIKey         string   `toml:"api_key"`
	ClientID       string   `toml:"client_id"`
	ClientSecret   string   `toml:"client_secret"`
	RedirectURI    string   `toml:"redirect_uri"`
	DistrictID     string   `toml:"district_id"`
	Scopes         []string `toml:"scopes"`
	OAuthURL       string   `toml:"oauth_url"`
	APIURL         string   `toml:"api_url"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Timeout returns the outbound request timeout, defaulting to ten seconds.
func (c CleverConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SessionConfig contains cookie session settings.
type SessionConfig struct {
	Secret string `toml:"secret"`
	Name   string `toml:"name"`
	MaxAge int    `toml:"max_age"`
	Secure bool   `toml:"secure"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides configuration values with environment variables found through lookup.
//
// lookup is usually [os.LookupEnv].
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"CLEVER_API_KEY":       &c.Clever.APIKey,
		"CLEVER_CLIENT_ID":     &c.Clever.ClientID,
		"CLEVER_CLIENT_SECRET": &c.Clever.ClientSecret,
		"CLEVER_REDIRECT_URI":  &c.Clever.RedirectURI,
		"CLEVER_DISTRICT_ID":   &c.Clever.DistrictID,
		"SESSION_SECRET":       &c.Session.Secret,
	}
	for key, field := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*field = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}
	return nil
}

// ValidateClient checks the values needed to talk to Clever.
func (c *Config) ValidateClient() error {
	switch {
	case c.Clever.APIKey == "":
		return fmt.Errorf("%w: clever.api_key", ErrMissingCredentials)
	case c.Clever.ClientID == "":
		return fmt.Errorf("%w: clever.client_id", ErrMissingCredentials)
	case c.Clever.ClientSecret == "":
		return fmt.Errorf("%w: clever.client_secret", ErrMissingCredentials)
	case c.Clever.RedirectURI == "":
		return fmt.Errorf("%w: clever.redirect_uri", ErrInvalidConfig)
	case c.Clever.OAuthURL == "" || c.Clever.APIURL == "":
		return fmt.Errorf("%w: clever.oauth_url and clever.api_url are required", ErrInvalidConfig)
	}
	return nil
}

// Validate checks everything the web server needs at startup.
func (c *Config) Validate() error {
	if err := c.ValidateClient(); err != nil {
		return err
	}
	if len(c.Session.Secret) < MinSessionSecret {
		return fmt.Errorf("%w: session.secret must be at least %d bytes", ErrInvalidConfig, MinSessionSecret)
	}
	if c.Session.MaxAge <= 0 {
		return fmt.Errorf("%w: session.max_age must be positive", ErrInvalidConfig)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("%w: server.port must be positive", ErrInvalidConfig)
	}
	return nil
}
