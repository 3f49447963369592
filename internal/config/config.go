package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds all runtime settings. Values come from an optional YAML file,
// overridden by environment variables, overridden by flags in main.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Blob struct {
		Driver    string `yaml:"driver"`
		Dir       string `yaml:"dir"`
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		Endpoint  string `yaml:"endpoint"`
		PathStyle bool   `yaml:"path_style"`
		PublicURL string `yaml:"public_url"`
	} `yaml:"blob"`
	Email struct {
		ResendKey string `yaml:"resend_key"`
		From      string `yaml:"from"`
	} `yaml:"email"`
}

// Default returns the built-in settings.
func Default() Config {
	var cfg Config
	cfg.Server.Addr = ":8080"
	cfg.Database.Path = "najdeno.sqlite3"
	cfg.Blob.Driver = "fs"
	cfg.Blob.Dir = "uploads"
	return cfg
}

// Load reads the config file at path (if it exists) over the defaults, then
// applies environment overrides. A missing file is fine; a malformed one is
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setIfPresent(&cfg.Server.Addr, "NAJDENO_ADDR")
	setIfPresent(&cfg.Database.Path, "NAJDENO_DB")
	setIfPresent(&cfg.Blob.Driver, "NAJDENO_BLOB_DRIVER")
	setIfPresent(&cfg.Blob.Dir, "NAJDENO_BLOB_DIR")
	setIfPresent(&cfg.Blob.Bucket, "NAJDENO_S3_BUCKET")
	setIfPresent(&cfg.Blob.Region, "NAJDENO_S3_REGION")
	setIfPresent(&cfg.Blob.Endpoint, "NAJDENO_S3_ENDPOINT")
	setIfPresent(&cfg.Blob.PublicURL, "NAJDENO_S3_PUBLIC_URL")
	setIfPresent(&cfg.Email.ResendKey, "RESEND_API_KEY")
	setIfPresent(&cfg.Email.From, "NAJDENO_EMAIL_FROM")

	if v := os.Getenv("NAJDENO_S3_PATH_STYLE"); v == "true" || v == "1" {
		cfg.Blob.PathStyle = true
	}
}

func setIfPresent(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
