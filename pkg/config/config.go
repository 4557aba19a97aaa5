package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvDevelopment is the default environment
	EnvDevelopment = "development"
	// EnvProduction enables strict secret checks and JSON logging
	EnvProduction = "production"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Workflow WorkflowConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds database configuration. Driver "memory" keeps all data in process.
type DatabaseConfig struct {
	Driver       string        `envconfig:"DB_DRIVER" default:"postgres"`
	Host         string        `envconfig:"DB_HOST" default:"localhost"`
	Port         string        `envconfig:"DB_PORT" default:"5432"`
	User         string        `envconfig:"DB_USER" default:"postgres"`
	Password     string        `envconfig:"DB_PASSWORD" default:"postgres"`
	Name         string        `envconfig:"DB_NAME" default:"coreagenda"`
	SSLMode      string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns     int           `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns     int           `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate  bool          `envconfig:"DB_AUTO_MIGRATE" default:"false"`
	MigrationDir string        `envconfig:"DB_MIGRATION_DIR" default:"migrations"`
	ConnectRetry time.Duration `envconfig:"DB_CONNECT_RETRY" default:"30s"`
}

// RedisConfig holds Redis configuration. An empty host disables Redis and the
// agenda cache falls back to process memory.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" default:"your-secret-change-in-production"`
	Issuer string        `envconfig:"JWT_ISSUER" default:"coreagenda"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"15m"`
	// DevTTL is the lifetime of tokens printed by the seed command
	DevTTL time.Duration `envconfig:"JWT_DEV_TTL" default:"720h"`
}

// StorageConfig holds minutes archive configuration
type StorageConfig struct {
	Type            string        `envconfig:"STORAGE_TYPE" default:"minio"` // "minio" or "memory"
	Endpoint        string        `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string        `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string        `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string        `envconfig:"STORAGE_BUCKET" default:"coreagenda-minutes"`
	UseSSL          bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string        `envconfig:"STORAGE_PUBLIC_URL"`
	URLExpiry       time.Duration `envconfig:"STORAGE_URL_EXPIRY" default:"1h"`
}

// WorkflowConfig holds tunables of the workflow engine
type WorkflowConfig struct {
	AttendanceGrace time.Duration `envconfig:"ATTENDANCE_GRACE_PERIOD" default:"5m"`
	AgendaCacheTTL  time.Duration `envconfig:"AGENDA_CACHE_TTL" default:"5m"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads configuration from the process environment without validating it
func FromEnv() (*Config, error) {
	cfg := &Config{}
	sections := []interface{}{&cfg.Server, &cfg.Database, &cfg.Redis, &cfg.JWT, &cfg.Storage, &cfg.Workflow}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or memory, got %q", c.Database.Driver)
	}
	switch c.Storage.Type {
	case "minio", "memory":
	default:
		return fmt.Errorf("STORAGE_TYPE must be minio or memory, got %q", c.Storage.Type)
	}
	if c.Workflow.AttendanceGrace < 0 {
		return fmt.Errorf("ATTENDANCE_GRACE_PERIOD must not be negative")
	}

	if c.IsProduction() {
		if c.JWT.Secret == "" || strings.Contains(c.JWT.Secret, "change-in-production") {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.AutoMigrate {
			return fmt.Errorf("DB_AUTO_MIGRATE must be disabled in production")
		}
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
