// Package config loads the engine's runtime configuration from the
// environment
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration settings for the wizard engine
type Config struct {
	// API Server
	APIHost  string
	APIPort  int
	LogLevel string

	// Flow state persistence
	RedisAddr     string
	RedisPassword string
	RedisPrefix   string
	RedisDB       int
	SessionTTL    time.Duration

	// Submitted-flow archive
	ArchiveBucketURL string
	ArchivePrefix    string

	ShutdownTimeout time.Duration
}

const (
	DefaultAPIPort = 8080
	DefaultAPIHost = "0.0.0.0"
	MaxTCPPort     = 65535
	DefaultRedisDB = 0
	MaxRedisDB     = 15

	DefaultRedisPrefix     = "arran"
	DefaultArchivePrefix   = "flows/"
	DefaultSessionTTL      = 24 * time.Hour
	DefaultShutdownTimeout = 10 * time.Second

	MaxSessionTTLSeconds      = 365 * 24 * 60 * 60
	MaxShutdownTimeoutSeconds = 10 * 60
)

var (
	ErrInvalidAPIPort    = errors.New("invalid API port")
	ErrInvalidSessionTTL = errors.New("session TTL cannot be negative")
)

// NewDefaultConfig creates a configuration with sensible defaults. The
// in-memory store is used until a Redis address is configured
func NewDefaultConfig() *Config {
	return &Config{
		APIPort:         DefaultAPIPort,
		APIHost:         DefaultAPIHost,
		RedisDB:         DefaultRedisDB,
		RedisPrefix:     DefaultRedisPrefix,
		SessionTTL:      DefaultSessionTTL,
		ArchivePrefix:   DefaultArchivePrefix,
		ShutdownTimeout: DefaultShutdownTimeout,
		LogLevel:        "info",
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed.
func (c *Config) LoadFromEnv() error {
	if apiHost := os.Getenv("API_HOST"); apiHost != "" {
		c.APIHost = apiHost
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.RedisAddr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.RedisPassword = password
	}
	if prefix := os.Getenv("REDIS_PREFIX"); prefix != "" {
		c.RedisPrefix = prefix
	}
	if bucketURL := os.Getenv("ARCHIVE_BUCKET_URL"); bucketURL != "" {
		c.ArchiveBucketURL = bucketURL
	}
	if prefix := os.Getenv("ARCHIVE_PREFIX"); prefix != "" {
		c.ArchivePrefix = prefix
	}

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvInt(
		"REDIS_DB", &c.RedisDB, -1, MaxRedisDB,
	); err != nil {
		return err
	}
	if err := loadEnvSeconds(
		"SESSION_TTL", &c.SessionTTL, MaxSessionTTLSeconds,
	); err != nil {
		return err
	}
	return loadEnvSeconds(
		"SHUTDOWN_TIMEOUT", &c.ShutdownTimeout, MaxShutdownTimeoutSeconds,
	)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}
	if c.SessionTTL < 0 {
		return ErrInvalidSessionTTL
	}
	return nil
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max). Returns an error if
// the value cannot be parsed or falls outside the valid range.
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}

// loadEnvSeconds reads key as a number of seconds into a duration
func loadEnvSeconds(key string, dst *time.Duration, max int64) error {
	var secs int64 = -1
	if err := loadEnvInt(key, &secs, -1, max); err != nil {
		return err
	}
	if secs >= 0 {
		*dst = time.Duration(secs) * time.Second
	}
	return nil
}
