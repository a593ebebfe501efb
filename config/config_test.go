package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CI", "ENV", "STORE_DRIVER", "JWT_SECRET", "LLM_API_KEY", "DEEPSEEK_API_KEY",
		"DEEPSEEK_API_URL", "LLM_API_URL", "DB_PASSWORD", "REDIS_URL", "REDIS_HOST",
		"SCALE_RATE_LIMIT", "PAGE_CACHE_TTL", "TOKEN_TTL", "FEDERATED_PROVIDERS",
		"S3_BUCKET_NAME", "MAX_UPLOAD_MB",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, 10, cfg.ScaleRateLimit)
	assert.Equal(t, 5*time.Minute, cfg.PageCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "https://api.deepseek.com/v1/chat/completions", cfg.LLMAPIURL)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("PAGE_CACHE_TTL", "30s")
	t.Setenv("FEDERATED_PROVIDERS", "google, microsoft")
	t.Setenv("FEDERATED_GOOGLE_PUBLIC_KEY_FILE", "/keys/google.pem")
	t.Setenv("FEDERATED_GOOGLE_AUDIENCE", "recipe-share-web")
	t.Setenv("FEDERATED_GOOGLE_ISSUER", "https://accounts.google.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 30*time.Second, cfg.PageCacheTTL)
	assert.Equal(t, map[string]FederatedProvider{
		"google": {KeyFile: "/keys/google.pem", Audience: "recipe-share-web", Issuer: "https://accounts.google.com"},
	}, cfg.FederatedProviders)
}

func TestLoadConfig_SecretsFromFiles(t *testing.T) {
	clearEnv(t)
	dir := os.Getenv("SECRETS_DIR")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))

	keyFile := filepath.Join(t.TempDir(), "llm")
	require.NoError(t, os.WriteFile(keyFile, []byte("  llm-key "), 0o600))
	t.Setenv("LLM_API_KEY_FILE", keyFile)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
	assert.Equal(t, "llm-key", cfg.LLMAPIKey)
}

func TestLoadConfig_DeepSeekFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEEPSEEK_API_KEY", "ds-key")
	t.Setenv("DEEPSEEK_API_URL", "http://llm.local/v1/chat/completions")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "ds-key", cfg.LLMAPIKey)
	assert.Equal(t, "http://llm.local/v1/chat/completions", cfg.LLMAPIURL)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCALE_RATE_LIMIT", "lots")

	_, err := LoadConfig()
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "SCALE_RATE_LIMIT", verr.Field)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "development accepts memory store",
			cfg:  Config{Environment: Development, StoreDriver: StoreMemory, ScaleRateLimit: 1},
		},
		{
			name:    "unknown driver",
			cfg:     Config{Environment: Development, StoreDriver: "cassandra", ScaleRateLimit: 1},
			wantErr: "STORE_DRIVER: must be one of",
		},
		{
			name:    "production requires jwt secret",
			cfg:     Config{Environment: Production, StoreDriver: StoreMongo, ScaleRateLimit: 1, LLMAPIKey: "k"},
			wantErr: "JWT_SECRET: is required",
		},
		{
			name:    "production rejects memory store",
			cfg:     Config{Environment: Production, StoreDriver: StoreMemory, ScaleRateLimit: 1, LLMAPIKey: "k", JWTSecret: "s"},
			wantErr: "memory store is not allowed",
		},
		{
			name:    "production postgres needs password",
			cfg:     Config{Environment: Production, StoreDriver: StorePostgres, ScaleRateLimit: 1, LLMAPIKey: "k", JWTSecret: "s"},
			wantErr: "DB_PASSWORD",
		},
		{
			name: "production complete",
			cfg:  Config{Environment: Production, StoreDriver: StoreMongo, ScaleRateLimit: 1, LLMAPIKey: "k", JWTSecret: "s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(&tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewS3Config(t *testing.T) {
	_, err := NewS3Config(context.Background(), &Config{})
	assert.ErrorIs(t, err, ErrStorageNotConfigured)

	s3cfg, err := NewS3Config(context.Background(), &Config{
		S3Bucket:          "images",
		S3Region:          "us-east-1",
		S3Endpoint:        "http://localhost:9000",
		S3AccessKeyID:     "minio",
		S3SecretAccessKey: "minio123",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/images/recipes/u/1_a.png", s3cfg.ObjectURL("recipes/u/1_a.png"))

	aws := &S3Config{BucketName: "images", Region: "eu-west-1"}
	assert.Equal(t, "https://images.s3.eu-west-1.amazonaws.com/k.png", aws.ObjectURL("k.png"))
}
