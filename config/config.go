package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment
	LogLevel    string

	// Server configuration
	ServerPort     string
	ServerHost     string
	CORSOrigins    []string
	MaxUploadBytes int64

	// Storage backend
	StoreDriver string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// MongoDB configuration
	MongoURI      string
	MongoDatabase string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	PageCacheTTL  time.Duration

	// Auth configuration
	JWTSecret          string
	TokenTTL           time.Duration
	FederatedProviders map[string]FederatedProvider

	// Language model configuration
	LLMAPIKey  string
	LLMAPIURL  string
	LLMModel   string
	LLMTimeout time.Duration

	// Object storage configuration
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicBaseURL   string

	// Requests per minute per client on the scaling endpoint
	ScaleRateLimit int
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Environment: GetEnvironment(),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		ServerPort:  getEnv("SERVER_PORT", "8080"),
		ServerHost:  getEnv("SERVER_HOST", "0.0.0.0"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreSQLite)),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: secret("DB_PASSWORD", "db_password"),
		DBName:     getEnv("DB_NAME", "recipeshare"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "recipeshare.db"),

		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "recipeshare"),

		RedisURL:      secret("REDIS_URL", "redis_url"),
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: secret("REDIS_PASSWORD", "redis_password"),

		JWTSecret: secret("JWT_SECRET", "jwt_secret"),

		LLMAPIKey: secret("LLM_API_KEY", "llm_api_key"),
		LLMAPIURL: getEnv("LLM_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		LLMModel:  getEnv("LLM_MODEL", "deepseek-chat"),

		S3Bucket:          getEnv("S3_BUCKET_NAME", ""),
		S3Region:          getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: secret("S3_SECRET_ACCESS_KEY", "s3_secret_access_key"),
		S3PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),

		FederatedProviders: make(map[string]FederatedProvider),
	}

	// older deployments set the DeepSeek variables directly
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = secret("DEEPSEEK_API_KEY", "deepseek_api_key")
	}
	if v := os.Getenv("DEEPSEEK_API_URL"); v != "" && os.Getenv("LLM_API_URL") == "" {
		cfg.LLMAPIURL = v
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.ScaleRateLimit, err = getInt("SCALE_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	maxUpload, err := getInt("MAX_UPLOAD_MB", 10)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload) << 20

	if cfg.PageCacheTTL, err = getDuration("PAGE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.LLMTimeout, err = getDuration("LLM_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	for _, provider := range splitList(getEnv("FEDERATED_PROVIDERS", "")) {
		prefix := "FEDERATED_" + strings.ToUpper(provider) + "_"
		path := os.Getenv(prefix + "PUBLIC_KEY_FILE")
		if path == "" {
			continue
		}
		cfg.FederatedProviders[strings.ToLower(provider)] = FederatedProvider{
			KeyFile:  path,
			Audience: os.Getenv(prefix + "AUDIENCE"),
			Issuer:   os.Getenv(prefix + "ISSUER"),
		}
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FederatedProvider describes an identity provider whose RS256 ID tokens
// are accepted for sign-in. Tokens must carry Audience and Issuer.
type FederatedProvider struct {
	KeyFile  string
	Audience string
	Issuer   string
}

// PostgresDSN returns the connection string for the postgres store
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisEnabled reports whether a Redis server is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, ValidationError{Field: key, Message: "must be an integer"}
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, ValidationError{Field: key, Message: "must be a duration such as 30s or 5m"}
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// secret resolves a sensitive value from the environment, a file named by
// KEY_FILE, or a Docker secret, in that order.
func secret(envKey, secretName string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if path := os.Getenv(envKey + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
