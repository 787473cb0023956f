package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	TransformPolicyOptimize    = "optimize"
	TransformPolicyPassthrough = "passthrough"
)

// Config holds the environment driven configuration for the media service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"zoo-media-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"MEDIA_API_PORT" envDefault:"8285"`
	LogLevel        string        `env:"MEDIA_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database (animal / exhibit rows and the replacement ledger)
	DBPostgresqlWriteDSN string        `env:"DB_POSTGRESQL_WRITE_DSN,notEmpty"`
	DBMaxIdleConns       int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns       int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Storage Backend Selection
	StorageBackend string `env:"MEDIA_STORAGE_BACKEND" envDefault:"s3"` // Options: "s3" or "local"

	// Transform policy; empty picks optimize for s3 and passthrough for local.
	TransformPolicy    string `env:"MEDIA_TRANSFORM_POLICY"`
	GenerateThumbnails bool   `env:"MEDIA_GENERATE_THUMBNAILS" envDefault:"false"`

	// Local Storage Configuration
	LocalStoragePath    string `env:"MEDIA_LOCAL_STORAGE_PATH" envDefault:"./uploads"`
	LocalStorageBaseURL string `env:"MEDIA_LOCAL_STORAGE_BASE_URL" envDefault:"/v1/files"`

	// S3 Storage Configuration
	S3Endpoint       string `env:"MEDIA_S3_ENDPOINT"`
	S3PublicEndpoint string `env:"MEDIA_S3_PUBLIC_ENDPOINT"`
	S3Region         string `env:"MEDIA_S3_REGION" envDefault:"us-west-2"`
	S3Bucket         string `env:"MEDIA_S3_BUCKET"`
	S3AccessKeyID    string `env:"MEDIA_S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"MEDIA_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle   bool   `env:"MEDIA_S3_USE_PATH_STYLE" envDefault:"true"`

	// Intake limits
	MaxOptimizedBytes   int64 `env:"MEDIA_MAX_OPTIMIZED_BYTES" envDefault:"10485760"`
	MaxPassthroughBytes int64 `env:"MEDIA_MAX_PASSTHROUGH_BYTES" envDefault:"5242880"`
	MaxImageDimension   int   `env:"MEDIA_MAX_DIMENSION" envDefault:"8000"`

	// Authentication
	AuthEnabled  bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer   string `env:"AUTH_ISSUER"`
	AuthAudience string `env:"AUTH_AUDIENCE"`
	AuthJWKSURL  string `env:"AUTH_JWKS_URL"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.S3Bucket = strings.TrimSpace(c.S3Bucket)
	c.S3AccessKeyID = strings.TrimSpace(c.S3AccessKeyID)
	c.S3SecretKey = strings.TrimSpace(c.S3SecretKey)
	c.S3Endpoint = strings.TrimSpace(c.S3Endpoint)
	c.S3PublicEndpoint = strings.TrimSpace(c.S3PublicEndpoint)
	c.TransformPolicy = strings.ToLower(strings.TrimSpace(c.TransformPolicy))

	if c.MaxOptimizedBytes <= 0 {
		c.MaxOptimizedBytes = 10 * 1024 * 1024
	}
	if c.MaxPassthroughBytes <= 0 {
		c.MaxPassthroughBytes = 5 * 1024 * 1024
	}
	if c.MaxImageDimension <= 0 {
		c.MaxImageDimension = 8000
	}

	switch c.TransformPolicy {
	case "", TransformPolicyOptimize, TransformPolicyPassthrough:
	default:
		return fmt.Errorf("MEDIA_TRANSFORM_POLICY must be %q or %q, got %q", TransformPolicyOptimize, TransformPolicyPassthrough, c.TransformPolicy)
	}

	if c.AuthEnabled {
		if strings.TrimSpace(c.AuthIssuer) == "" {
			return fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(c.AuthJWKSURL) == "" {
			return fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage returns true if local storage backend is configured.
func (c *Config) IsLocalStorage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == "local"
}

// IsS3Storage returns true if S3 storage backend is configured.
func (c *Config) IsS3Storage() bool {
	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	return backend == "" || backend == "s3"
}

// EffectiveTransformPolicy resolves the transform policy, defaulting by backend:
// the blob backend optimizes, the disk backend keeps originals.
func (c *Config) EffectiveTransformPolicy() string {
	if c.TransformPolicy != "" {
		return c.TransformPolicy
	}
	if c.IsLocalStorage() {
		return TransformPolicyPassthrough
	}
	return TransformPolicyOptimize
}

// UploadCeiling returns the maximum raw upload size for the active policy.
func (c *Config) UploadCeiling() int64 {
	if c.EffectiveTransformPolicy() == TransformPolicyPassthrough {
		return c.MaxPassthroughBytes
	}
	return c.MaxOptimizedBytes
}
