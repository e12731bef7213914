// Package config loads and validates the site server configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Site    SiteConfig    `yaml:"site"`
	GitHub  GitHubConfig  `yaml:"github"`
	Contact ContactConfig `yaml:"contact"`
	Journal JournalConfig `yaml:"journal"`
	Auth    AuthConfig    `yaml:"auth"`
	Metrics MetricsConfig `yaml:"metrics"`
	Content ContentConfig `yaml:"content"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	Host      string `yaml:"host,omitempty"`
	Dev       bool   `yaml:"dev"`        // enables live reload and the Turnstile bypass token
	StaticDir string `yaml:"static_dir"` // served under /static/
}

// SiteConfig holds brand-level links that are not locale-dependent.
type SiteConfig struct {
	DiscordURL string `yaml:"discord_url"`
	GitHubURL  string `yaml:"github_url"`
}

// GitHubConfig drives the project-listing fetch.
type GitHubConfig struct {
	Handle  string `yaml:"handle"` // user or organization
	Token   string `yaml:"token,omitempty"`
	APIURL  string `yaml:"api_url,omitempty"`
	PerPage int    `yaml:"per_page,omitempty"`
	Refresh string `yaml:"refresh,omitempty"` // refresh interval, e.g. "1h"
}

// ContactConfig holds the contact pipeline secrets and sinks.
type ContactConfig struct {
	TurnstileSiteKey  string `yaml:"turnstile_site_key,omitempty"` // rendered into the widget; not a secret
	TurnstileSecret   string `yaml:"turnstile_secret,omitempty"`
	DiscordWebhookURL string `yaml:"discord_webhook_url,omitempty"`
	NATSURL           string `yaml:"nats_url,omitempty"`
	NATSSubject       string `yaml:"nats_subject,omitempty"`
}

// JournalConfig configures the submission journal database.
type JournalConfig struct {
	Path string `yaml:"path,omitempty"` // empty disables the journal
}

// AuthConfig selects the sign-in provider. "disabled" (default) rejects
// all logins; "demo" simulates them.
type AuthConfig struct {
	Provider string `yaml:"provider,omitempty"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ContentConfig allows overriding bundled data sources.
type ContentConfig struct {
	TestimonialsPath string `yaml:"testimonials_path,omitempty"`
}

// Load loads configuration from the specified file. A missing file yields
// the defaults so `sitio serve` works out of the box.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	cfg := &Config{}
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 42069
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "./static"
	}
	if c.Site.DiscordURL == "" {
		c.Site.DiscordURL = "https://discord.gg/your-discord-invite"
	}
	if c.Site.GitHubURL == "" {
		c.Site.GitHubURL = "https://github.com/escuadron-404/"
	}
	if c.GitHub.Handle == "" {
		c.GitHub.Handle = "escuadron-404"
	}
	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = "https://api.github.com"
	}
	if c.GitHub.PerPage == 0 {
		c.GitHub.PerPage = 3
	}
	if c.GitHub.Refresh == "" {
		c.GitHub.Refresh = "1h"
	}
	if c.Contact.NATSSubject == "" {
		c.Contact.NATSSubject = "site.contact"
	}
}

// applyEnvOverrides maps the well-known environment variables onto the
// config so deployments can run without a YAML file at all.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GITHUB_USERNAME_OR_ORG"); v != "" {
		c.GitHub.Handle = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" && c.GitHub.Token == "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("TURNSTILE_SITE_KEY"); v != "" && c.Contact.TurnstileSiteKey == "" {
		c.Contact.TurnstileSiteKey = v
	}
	if v := os.Getenv("TURNSTILE_SECRET_KEY"); v != "" && c.Contact.TurnstileSecret == "" {
		c.Contact.TurnstileSecret = v
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" && c.Contact.DiscordWebhookURL == "" {
		c.Contact.DiscordWebhookURL = v
	}
}

// Validate checks cross-field constraints that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.GitHub.PerPage < 1 || c.GitHub.PerPage > 100 {
		return fmt.Errorf("github.per_page out of range: %d", c.GitHub.PerPage)
	}
	if c.Contact.NATSURL != "" && c.Contact.NATSSubject == "" {
		return fmt.Errorf("contact.nats_subject required when contact.nats_url is set")
	}
	return nil
}
