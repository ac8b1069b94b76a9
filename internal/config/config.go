package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Feedly  Feedly  `yaml:"feedly"`
	Scoring Scoring `yaml:"scoring"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
}

type Feedly struct {
	BaseURL  string `yaml:"base_url"`
	AuthURL  string `yaml:"auth_url"`
	Days     int    `yaml:"days"`
	PageSize int    `yaml:"page_size"`
}

type Scoring struct {
	Model      string `yaml:"model"`
	BatchSize  int    `yaml:"batch_size"`
	Threshold  int    `yaml:"threshold"`
	TopN       int    `yaml:"top_n"`
	ThrottleMS int    `yaml:"throttle_ms"`
	Prompt     string `yaml:"prompt"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// Throttle returns the pause enforced between scoring batches.
func (s Scoring) Throttle() time.Duration {
	return time.Duration(s.ThrottleMS) * time.Millisecond
}

// Credentials holds every secret sourced from the environment.
type Credentials struct {
	OpenAIKey    string
	ClientID     string
	ClientSecret string
	RefreshToken string
	StreamID     string
}

var credentialVars = map[string]func(*Credentials) *string{
	"OPENAI_API_KEY":       func(c *Credentials) *string { return &c.OpenAIKey },
	"FEEDLY_CLIENT_ID":     func(c *Credentials) *string { return &c.ClientID },
	"FEEDLY_CLIENT_SECRET": func(c *Credentials) *string { return &c.ClientSecret },
	"FEEDLY_REFRESH_TOKEN": func(c *Credentials) *string { return &c.RefreshToken },
	"FEEDLY_STREAM_ID":     func(c *Credentials) *string { return &c.StreamID },
}

// LoadCredentials reads required secrets from the environment. It fails with
// a single error naming every missing variable so a misconfigured deployment
// is diagnosed in one pass.
func LoadCredentials() (Credentials, error) {
	var creds Credentials
	var missing []string
	for name, field := range credentialVars {
		v := os.Getenv(name)
		if v == "" {
			missing = append(missing, name)
			continue
		}
		*field(&creds) = v
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Credentials{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return creds, nil
}

// ConfigDir returns the XDG config directory for newsradar.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "newsradar")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/newsradar/config.yaml > ./config.yaml.
// Having no config file at all is fine; the embedded defaults apply.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Load reads and parses a config YAML file. An empty path yields the
// embedded defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Feedly: Feedly{
			BaseURL:  "https://cloud.feedly.com/v3",
			AuthURL:  "https://api.feedly.com/v3/auth/token",
			Days:     7,
			PageSize: 100,
		},
		Scoring: Scoring{
			Model:      "gpt-4o-mini",
			BatchSize:  15,
			Threshold:  7,
			TopN:       5,
			ThrottleMS: 1200,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
