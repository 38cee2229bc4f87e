// Package config loads process configuration from the environment (and an
// optional .env file) into a typed Config that is passed to constructors.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by the backend factory.
const (
	DriverMinio = "minio"
	DriverAWS   = "aws"
)

// DefaultMinioEndpoint is used by the minio driver when S3_ENDPOINT is unset.
const DefaultMinioEndpoint = "s3.amazonaws.com"

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port string
}

type StorageConfig struct {
	Driver    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	// UseSSL is nil when not configured; the factory then decides from Endpoint.
	UseSSL *bool

	Bucket     string
	RootPrefix string
	MaxDepth   int
	PageSize   int
	// NarrowByQuery appends the lowercased query to the folder prefix before
	// listing. Off by default: it only finds keys that start with the query.
	NarrowByQuery bool
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("STORAGE_DRIVER", DriverMinio)
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET", "prod-tc-pdf-files-bucket")
	v.SetDefault("S3_ROOT_PREFIX", "PDFS")
	v.SetDefault("S3_MAX_DEPTH", 2)
	v.SetDefault("S3_PAGE_SIZE", 50)
	v.SetDefault("S3_NARROW_BY_QUERY", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
			Endpoint:      strings.TrimSpace(v.GetString("S3_ENDPOINT")),
			AccessKey:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretKey:     v.GetString("AWS_SECRET_ACCESS_KEY"),
			Region:        v.GetString("AWS_REGION"),
			Bucket:        v.GetString("S3_BUCKET"),
			RootPrefix:    v.GetString("S3_ROOT_PREFIX"),
			MaxDepth:      v.GetInt("S3_MAX_DEPTH"),
			PageSize:      v.GetInt("S3_PAGE_SIZE"),
			NarrowByQuery: v.GetBool("S3_NARROW_BY_QUERY"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if v.IsSet("S3_USE_SSL") {
		useSSL := v.GetBool("S3_USE_SSL")
		cfg.Storage.UseSSL = &useSSL
	}
	if cfg.Storage.Endpoint == "" && cfg.Storage.Driver == DriverMinio {
		cfg.Storage.Endpoint = DefaultMinioEndpoint
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late or loop.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMinio, DriverAWS:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want %q or %q)", c.Storage.Driver, DriverMinio, DriverAWS)
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("S3_BUCKET must be set")
	}
	if c.Storage.MaxDepth < 1 {
		return fmt.Errorf("S3_MAX_DEPTH must be at least 1, got %d", c.Storage.MaxDepth)
	}
	if c.Storage.PageSize < 1 || c.Storage.PageSize > 1000 {
		return fmt.Errorf("S3_PAGE_SIZE must be between 1 and 1000, got %d", c.Storage.PageSize)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT must be set")
	}
	return nil
}

// Address is the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + c.Server.Port
}
