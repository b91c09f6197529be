package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         string `yaml:"port"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Redis struct {
		Addr           string `yaml:"addr"`
		Password       string `yaml:"password"`
		DB             int    `yaml:"db"`
		TTL            string `yaml:"ttl"`
		ContactChannel string `yaml:"contact_channel"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Dataset struct {
		ID   string `yaml:"id"`
		Path string `yaml:"path"`
		TTL  string `yaml:"ttl"`
	} `yaml:"dataset"`
	Scoring struct {
		TopK int `yaml:"top_k"`
	} `yaml:"scoring"`
	Site struct {
		TestimonialInterval string  `yaml:"testimonial_interval"`
		NewsletterRate      float64 `yaml:"newsletter_rate"`
		NewsletterBurst     int     `yaml:"newsletter_burst"`
	} `yaml:"site"`
}

// Load reads YAML config from path. A missing file yields defaults so the
// offline commands work without any setup.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Dataset.ID == "" {
		c.Dataset.ID = "eneagramas"
	}
	if c.Scoring.TopK <= 0 {
		c.Scoring.TopK = 2
	}
	if c.Redis.ContactChannel == "" {
		c.Redis.ContactChannel = "site:contacts"
	}
	if c.Site.NewsletterRate <= 0 {
		c.Site.NewsletterRate = 1
	}
	if c.Site.NewsletterBurst <= 0 {
		c.Site.NewsletterBurst = 3
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
