package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for the server.
type Config struct {
	HTTP     HTTPConfig     `toml:"http"`
	Database DatabaseConfig `toml:"database"`
	Blob     BlobConfig     `toml:"blob"`
	Auth     AuthConfig     `toml:"auth"`
}

// HTTPConfig holds the listener settings.
type HTTPConfig struct {
	Addr string `toml:"addr"` // defaults to ":8080"
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// BlobConfig holds the S3 settings for image storage.
type BlobConfig struct {
	Bucket string `toml:"bucket"`
	Region string `toml:"region"`
	Prefix string `toml:"prefix,omitempty"`
	// BaseURL overrides the public URL root, for CDN fronting
	BaseURL string `toml:"base_url,omitempty"`
	// Static credentials; leave empty to use the AWS credential chain
	AccessKeyID     string `toml:"access_key_id,omitempty"`
	SecretAccessKey string `toml:"secret_access_key,omitempty"`
	// StagingDir is the only directory file image references may read
	// from. Leave empty to reject file references entirely.
	StagingDir string `toml:"staging_dir,omitempty"`
}

// AuthConfig holds token signing and session lifetime settings.
type AuthConfig struct {
	// JWTSecret signs access tokens. Must be at least 32 bytes.
	JWTSecret string `toml:"jwt_secret"`
	// SessionTTL is how long a sign-in stays valid, e.g. "720h".
	SessionTTL string `toml:"session_ttl"`
}

// SessionTTLDuration parses the configured session lifetime, defaulting to 30 days.
func (a AuthConfig) SessionTTLDuration() (time.Duration, error) {
	if a.SessionTTL == "" {
		return 30 * 24 * time.Hour, nil
	}
	ttl, err := time.ParseDuration(a.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid session_ttl: %w", err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("session_ttl must be positive")
	}
	return ttl, nil
}

// Read decodes a Config from the provided reader and applies environment
// overrides.
func Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// ReadFromFile reads a Config from the specified file path. A missing file
// is not an error so the server can run on environment variables alone.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			applyEnv(cfg)
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required (set database.url or DATABASE_URL)")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 bytes (set auth.jwt_secret or JWT_SECRET)")
	}
	if c.Blob.Bucket == "" {
		return fmt.Errorf("blob bucket is required (set blob.bucket or BLOB_BUCKET)")
	}
	if c.Blob.Region == "" {
		return fmt.Errorf("blob region is required (set blob.region or BLOB_REGION)")
	}
	return nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.HTTP.Addr, "HTTP_ADDR")
	setFromEnv(&cfg.Database.URL, "DATABASE_URL")
	setFromEnv(&cfg.Blob.Bucket, "BLOB_BUCKET")
	setFromEnv(&cfg.Blob.Region, "BLOB_REGION")
	setFromEnv(&cfg.Blob.Prefix, "BLOB_PREFIX")
	setFromEnv(&cfg.Blob.BaseURL, "BLOB_BASE_URL")
	setFromEnv(&cfg.Blob.AccessKeyID, "BLOB_ACCESS_KEY_ID")
	setFromEnv(&cfg.Blob.SecretAccessKey, "BLOB_SECRET_ACCESS_KEY")
	setFromEnv(&cfg.Blob.StagingDir, "BLOB_STAGING_DIR")
	setFromEnv(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setFromEnv(&cfg.Auth.SessionTTL, "SESSION_TTL")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
}
