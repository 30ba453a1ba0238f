package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRemote   = "remote"
	DriverPostgres = "postgres"
)

// MinSecretLength is the minimum length of the JWT signing secret outside development
const MinSecretLength = 32

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`
	StaticDir       string        `json:"static_dir"`
	CORSOrigins     string        `json:"cors_origins"`

	// Entity store
	StoreDriver string `json:"store_driver"`
	StoragePath string `json:"storage_path"`
	StoreURL    string `json:"store_url"`
	StoreAPIKey string `json:"-"`
	DatabaseURL string `json:"-"`

	// Redis configuration
	RedisURL    string        `json:"redis_url"`
	RedisPrefix string        `json:"redis_prefix"`
	CacheTTL    time.Duration `json:"cache_ttl"`

	// CloudFlare R2 Configuration
	R2Endpoint  string `json:"r2_endpoint"`
	R2AccessKey string `json:"-"`
	R2SecretKey string `json:"-"`
	R2Bucket    string `json:"r2_bucket"`
	R2AccountID string `json:"r2_account_id"`
	R2PublicURL string `json:"r2_public_url"`
	MaxFileSize int64  `json:"max_file_size"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Security
	AdminSecret    string        `json:"-"`
	JWTSecret      string        `json:"-"`
	UserTokenTTL   time.Duration `json:"user_token_ttl"`
	AdminTokenTTL  time.Duration `json:"admin_token_ttl"`
	GoogleClientID string        `json:"google_client_id"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// LoadFromEnv is Load without the fatal exit
func LoadFromEnv() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		StaticDir:       getEnv("STATIC_DIR", ""),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),

		// Entity store
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
		StoragePath: getEnv("STORAGE_PATH", "./data"),
		StoreURL:    getEnv("STORE_URL", ""),
		StoreAPIKey: getEnv("STORE_API_KEY", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		// Redis configuration; empty URL selects the in-process cache
		RedisURL:    getEnv("REDIS_URL", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "peacenet:"),
		CacheTTL:    getEnvAsDuration("CACHE_TTL", 5*time.Minute),

		// CloudFlare R2 Configuration
		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", "peacenet"),
		R2AccountID: getEnv("CLOUDFLARE_ACCOUNT_ID", ""),
		R2PublicURL: getEnv("R2_PUBLIC_URL", ""),
		MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 5<<20), // 5MB

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		// Security
		AdminSecret:    getEnv("ADMIN_SECRET", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		UserTokenTTL:   getEnvAsDuration("USER_TOKEN_TTL", 24*time.Hour),
		AdminTokenTTL:  getEnvAsDuration("ADMIN_TOKEN_TTL", 30*time.Minute),
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UseRedis reports whether a Redis cache is configured
func (c *Config) UseRedis() bool {
	return c.RedisURL != ""
}

// UploadsEnabled reports whether image uploads can be stored
func (c *Config) UploadsEnabled() bool {
	return c.R2Bucket != "" && c.R2AccessKey != "" && c.R2SecretKey != "" &&
		(c.R2Endpoint != "" || c.R2AccountID != "")
}

// R2EndpointURL returns the S3 API endpoint of the R2 account
func (c *Config) R2EndpointURL() string {
	if c.R2Endpoint != "" {
		return c.R2Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.R2AccountID)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverMemory, DriverFile:
	case DriverRemote:
		if c.StoreURL == "" {
			errs = append(errs, errors.New("STORE_URL is required for the remote store"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.AdminSecret == "" {
		errs = append(errs, errors.New("ADMIN_SECRET is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if !c.IsDevelopment() && len(c.JWTSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes long", MinSecretLength))
	}
	if c.AdminTokenTTL <= 0 || c.UserTokenTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, errors.New("MAX_FILE_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(name string, defaultVal int64) int64 {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
