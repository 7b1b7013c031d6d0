package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage and session backend selectors. One backend of each is chosen at
// startup and never mixed.
const (
	StoragePostgres = "postgres"
	StorageFile     = "file"

	SessionsJWT   = "jwt"
	SessionsRedis = "redis"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port           string `yaml:"port"`
	LogLevel       string `yaml:"logLevel"`
	StorageBackend string `yaml:"storageBackend"`
	DatabaseURL    string `yaml:"databaseURL"`
	DataFilePath   string `yaml:"dataFilePath"`
	SessionBackend string `yaml:"sessionBackend"`
	JWTSecret      string `yaml:"jwtSecret"`
	SessionTTL     string `yaml:"sessionTTL"`
	RedisAddr      string `yaml:"redisAddr"`
	RedisPassword  string `yaml:"redisPassword"`
}

// Load reads config from path (defaults to config.yaml), applies environment
// overrides, fills defaults, and validates.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.StorageBackend = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("DATA_FILE_PATH"); v != "" {
		cfg.DataFilePath = v
	}
	if v := os.Getenv("SESSION_BACKEND"); v != "" {
		cfg.SessionBackend = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		cfg.SessionTTL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}

	if cfg.StorageBackend == "" {
		cfg.StorageBackend = StorageFile
	}
	if cfg.SessionBackend == "" {
		cfg.SessionBackend = SessionsJWT
	}
	if cfg.StorageBackend == StorageFile && cfg.DataFilePath == "" {
		cfg.DataFilePath = "db.json"
	}

	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml or PORT)")
	}
	switch cfg.StorageBackend {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("config: databaseURL is required for the postgres backend (set in config.yaml or DATABASE_URL)")
		}
	case StorageFile:
		// DataFilePath already defaulted.
	default:
		return fmt.Errorf("config: unknown storageBackend %q (expected %q or %q)", cfg.StorageBackend, StoragePostgres, StorageFile)
	}
	switch cfg.SessionBackend {
	case SessionsJWT:
		// No development fallback secret: an unset secret is a deployment
		// error, not a cue to sign tokens with a well-known value.
		if cfg.JWTSecret == "" {
			return errors.New("config: jwtSecret is required for the jwt session backend (set JWT_SECRET)")
		}
	case SessionsRedis:
		if cfg.RedisAddr == "" {
			return errors.New("config: redisAddr is required for the redis session backend (set in config.yaml or REDIS_ADDR)")
		}
	default:
		return fmt.Errorf("config: unknown sessionBackend %q (expected %q or %q)", cfg.SessionBackend, SessionsJWT, SessionsRedis)
	}
	return nil
}

// ParseSessionTTL parses the optional session TTL duration string. An empty
// value means the store default (7 days).
func ParseSessionTTL(ttl string) (time.Duration, error) {
	if ttl == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(ttl)
	if err != nil {
		return 0, fmt.Errorf("invalid sessionTTL duration: %w", err)
	}
	return dur, nil
}
