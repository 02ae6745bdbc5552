// Package config loads server configuration from a YAML file with
// environment variable overrides. The file is optional; a deployment
// can run on CASEPORT_* variables alone.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration. Loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	Server struct {
		Addr     string `yaml:"addr"`
		BasePath string `yaml:"base_path"`
	} `yaml:"server"`

	Auth struct {
		Secret       string        `yaml:"secret"`
		SessionTTL   time.Duration `yaml:"session_ttl"`
		RoleCacheTTL time.Duration `yaml:"role_cache_ttl"`
	} `yaml:"auth"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Storage struct {
		Bucket         string `yaml:"bucket"`
		Region         string `yaml:"region"`
		Endpoint       string `yaml:"endpoint"`
		KeyPrefix      string `yaml:"key_prefix"`
		ForcePathStyle bool   `yaml:"force_path_style"`
	} `yaml:"storage"`

	Upload struct {
		MaxSizeBytes int64 `yaml:"max_size_bytes"`
	} `yaml:"upload"`
}

// Load reads the YAML file at path (skipped when path is empty or the
// file does not exist), applies environment overrides, and validates
// required fields.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	var missing []string
	if cfg.Auth.Secret == "" {
		missing = append(missing, "CASEPORT_SECRET")
	}
	if cfg.Database.URL == "" {
		missing = append(missing, "CASEPORT_DATABASE_URL")
	}
	if cfg.Storage.Bucket == "" {
		missing = append(missing, "CASEPORT_STORAGE_BUCKET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required configuration is not set: %v", missing)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = getEnvString("CASEPORT_ADDR", cfg.Server.Addr)
	cfg.Server.BasePath = getEnvString("CASEPORT_BASE_PATH", cfg.Server.BasePath)

	cfg.Auth.Secret = getEnvString("CASEPORT_SECRET", cfg.Auth.Secret)
	cfg.Auth.SessionTTL = getEnvDuration("CASEPORT_SESSION_TTL", cfg.Auth.SessionTTL)
	cfg.Auth.RoleCacheTTL = getEnvDuration("CASEPORT_ROLE_CACHE_TTL", cfg.Auth.RoleCacheTTL)

	cfg.Database.URL = getEnvString("CASEPORT_DATABASE_URL", cfg.Database.URL)

	cfg.Storage.Bucket = getEnvString("CASEPORT_STORAGE_BUCKET", cfg.Storage.Bucket)
	cfg.Storage.Region = getEnvString("CASEPORT_STORAGE_REGION", cfg.Storage.Region)
	cfg.Storage.Endpoint = getEnvString("CASEPORT_STORAGE_ENDPOINT", cfg.Storage.Endpoint)
	cfg.Storage.KeyPrefix = getEnvString("CASEPORT_STORAGE_KEY_PREFIX", cfg.Storage.KeyPrefix)
	cfg.Storage.ForcePathStyle = getEnvBool("CASEPORT_STORAGE_FORCE_PATH_STYLE", cfg.Storage.ForcePathStyle)

	cfg.Upload.MaxSizeBytes = getEnvInt64("CASEPORT_UPLOAD_MAX_SIZE", cfg.Upload.MaxSizeBytes)
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
