package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`
	Students struct {
		Path string `yaml:"path"`
	} `yaml:"students"`
	Results struct {
		Path string `yaml:"path"`
	} `yaml:"results"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Dashboard struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"dashboard"`
	Teacher struct {
		Password string `yaml:"password"`
	} `yaml:"teacher"`
}

// Load reads YAML config from path. The TEACHER_PASSWORD environment
// variable overrides the configured teacher password.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if pw := os.Getenv("TEACHER_PASSWORD"); pw != "" {
		cfg.Teacher.Password = pw
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty or
// unparseable.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
