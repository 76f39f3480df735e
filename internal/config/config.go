package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// ErrMissingDatabaseURL is returned when no database DSN is configured.
var ErrMissingDatabaseURL = errors.New("config: DATABASE_URL is required")

// Config holds application configuration (DB, server, and upstream settings).
type Config struct {
	DatabaseURL  string        `yaml:"database_url" env:"DATABASE_URL"`
	ServerPort   string        `yaml:"server_port" env:"SERVER_PORT"`
	RedisURL     string        `yaml:"redis_url" env:"REDIS_URL"`
	UserAgent    string        `yaml:"user_agent" env:"FETCHER_USER_AGENT"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"FETCHER_TIMEOUT"`
	ProbeTimeout time.Duration `yaml:"probe_timeout" env:"PROBE_TIMEOUT"`
	Mirrors      []string      `yaml:"mirrors" env:"RADIO_BROWSER_MIRRORS"`
}

// Load builds config from environment variables.
// If DATABASE_URL is not set, Load tries to load .env.local and .env from the
// current directory first. DATABASE_URL is required; everything else is
// optional and falls back to defaults.
func Load() (*Config, error) {
	if os.Getenv("DATABASE_URL") == "" {
		loadEnvFiles()
	}
	c := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ServerPort:  os.Getenv("SERVER_PORT"),
		RedisURL:    os.Getenv("REDIS_URL"),
		UserAgent:   os.Getenv("FETCHER_USER_AGENT"),
	}
	if s := os.Getenv("FETCHER_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			c.FetchTimeout = d
		}
	}
	if s := os.Getenv("PROBE_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			c.ProbeTimeout = d
		}
	}
	if s := os.Getenv("RADIO_BROWSER_MIRRORS"); s != "" {
		c.Mirrors = splitMirrors(s)
	}
	c.applyDefaults()
	if c.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.UserAgent == "" {
		c.UserAgent = "RadioDex/1.0"
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 5 * time.Second
	}
}

// splitMirrors parses a comma-separated mirror list, dropping empty entries
// and trailing slashes.
func splitMirrors(s string) []string {
	var mirrors []string
	for _, m := range strings.Split(s, ",") {
		m = strings.TrimRight(strings.TrimSpace(m), "/")
		if m != "" {
			mirrors = append(mirrors, m)
		}
	}
	return mirrors
}
