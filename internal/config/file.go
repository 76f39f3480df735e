package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	DatabaseURL  string   `yaml:"database_url"`
	ServerPort   string   `yaml:"server_port"`
	RedisURL     string   `yaml:"redis_url"`
	UserAgent    string   `yaml:"user_agent"`
	FetchTimeout string   `yaml:"fetch_timeout"`
	ProbeTimeout string   `yaml:"probe_timeout"`
	Mirrors      []string `yaml:"mirrors"`
}

// LoadFromFile loads config from a YAML file. database_url is required.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	c := &Config{
		DatabaseURL: f.DatabaseURL,
		ServerPort:  f.ServerPort,
		RedisURL:    f.RedisURL,
		UserAgent:   f.UserAgent,
		Mirrors:     f.Mirrors,
	}
	if f.FetchTimeout != "" {
		if d, err := time.ParseDuration(f.FetchTimeout); err == nil {
			c.FetchTimeout = d
		}
	}
	if f.ProbeTimeout != "" {
		if d, err := time.ParseDuration(f.ProbeTimeout); err == nil {
			c.ProbeTimeout = d
		}
	}
	c.applyDefaults()
	return c, nil
}
