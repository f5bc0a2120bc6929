package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	CORSOrigins string `yaml:"cors_origins"`
	JWKSURL     string `yaml:"jwks_url"`
	DatabaseURL string `yaml:"database_url"`

	// MetadataStore selects the metadata backend: "postgres" or "memory"
	MetadataStore string `yaml:"metadata_store"`

	ObjectStore ObjectStoreConfig `yaml:"object_store"`
	Log         LogConfig         `yaml:"log"`

	// Debug flags
	Debug bool `yaml:"debug"`
}

// ObjectStoreConfig configures the blob store holding file content
type ObjectStoreConfig struct {
	Type            string        `yaml:"type"` // "s3" or "memory"
	Bucket          string        `yaml:"bucket"`
	Region          string        `yaml:"region"`
	Endpoint        string        `yaml:"endpoint"` // S3-compatible endpoint (MinIO, Localstack)
	AccessKeyID     string        `yaml:"access_key_id"`
	SecretAccessKey string        `yaml:"secret_access_key"`
	KeyPrefix       string        `yaml:"key_prefix"`
	PresignWriteTTL time.Duration `yaml:"presign_write_ttl"`
	PresignReadTTL  time.Duration `yaml:"presign_read_ttl"`
}

// LogConfig configures structured logging
type LogConfig struct {
	File       string `yaml:"file"` // empty = stdout only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Load reads the embedded defaults and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	env := getEnv("ENVIRONMENT", cfg.Environment)
	cfg.Environment = env
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.JWKSURL = getEnv("JWKS_URL", cfg.JWKSURL)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.MetadataStore = getEnv("METADATA_STORE", cfg.MetadataStore)

	cfg.ObjectStore.Type = getEnv("OBJECT_STORE", cfg.ObjectStore.Type)
	cfg.ObjectStore.Bucket = getEnv("S3_BUCKET", cfg.ObjectStore.Bucket)
	cfg.ObjectStore.Region = getEnv("S3_REGION", cfg.ObjectStore.Region)
	cfg.ObjectStore.Endpoint = getEnv("S3_ENDPOINT", cfg.ObjectStore.Endpoint)
	cfg.ObjectStore.AccessKeyID = getEnv("S3_ACCESS_KEY", cfg.ObjectStore.AccessKeyID)
	cfg.ObjectStore.SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", cfg.ObjectStore.SecretAccessKey)
	cfg.ObjectStore.KeyPrefix = getEnv("S3_KEY_PREFIX", cfg.ObjectStore.KeyPrefix)
	if cfg.ObjectStore.PresignWriteTTL, err = getEnvDuration("PRESIGN_WRITE_TTL", cfg.ObjectStore.PresignWriteTTL); err != nil {
		return nil, err
	}
	if cfg.ObjectStore.PresignReadTTL, err = getEnvDuration("PRESIGN_READ_TTL", cfg.ObjectStore.PresignReadTTL); err != nil {
		return nil, err
	}

	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	if cfg.Log.MaxSizeMB, err = getEnvInt("LOG_MAX_SIZE_MB", cfg.Log.MaxSizeMB); err != nil {
		return nil, err
	}
	if cfg.Log.MaxBackups, err = getEnvInt("LOG_MAX_BACKUPS", cfg.Log.MaxBackups); err != nil {
		return nil, err
	}
	if cfg.Log.MaxAgeDays, err = getEnvInt("LOG_MAX_AGE_DAYS", cfg.Log.MaxAgeDays); err != nil {
		return nil, err
	}

	// Debug defaults to true outside production
	cfg.Debug = getEnv("DEBUG", getDefaultDebug(env)) == "true"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the configuration embedded in defaults.yaml
func Defaults() (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return nil, fmt.Errorf("parse embedded defaults: %w", err)
	}
	return &cfg, nil
}

// Validate checks combinations that cannot work at runtime
func (c *Config) Validate() error {
	switch c.MetadataStore {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when METADATA_STORE=postgres")
		}
	case "memory":
		if c.Environment == "prod" {
			return fmt.Errorf("memory metadata store is not allowed in prod")
		}
	default:
		return fmt.Errorf("unknown metadata store: %q", c.MetadataStore)
	}

	switch c.ObjectStore.Type {
	case "s3":
		if c.ObjectStore.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when OBJECT_STORE=s3")
		}
		if c.ObjectStore.Region == "" {
			return fmt.Errorf("S3_REGION is required when OBJECT_STORE=s3")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown object store: %q", c.ObjectStore.Type)
	}

	if c.ObjectStore.PresignWriteTTL <= 0 || c.ObjectStore.PresignReadTTL <= 0 {
		return fmt.Errorf("presign TTLs must be positive")
	}
	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
