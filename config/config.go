package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	DBUrl    string

	// Auth
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	// How long an admin verdict may be served from cache before the
	// grant table is consulted again.
	AdminCacheTTL time.Duration

	AllowedOrigin string

	// DB pool
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration

	// R2 object storage (payment proofs, product images)
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string
	R2UploadTimeout   time.Duration
	// Expiry for presigned payment-proof URLs. Deployments have run
	// anywhere from 120s to 1h; this is policy, not contract.
	ProofURLExpiry time.Duration

	// Cache
	StatsCacheTTL time.Duration

	// Uploads
	MaxUploadSizeMB int64

	// Business rules
	LowStockThreshold int
}

func LoadConfig() *Config {
	// A specific config file can be requested via env var; otherwise fall
	// back to .env. Missing .env is fine in docker/prod where everything
	// comes from system env vars.
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DBUrl:    getEnv("DB_DSN", ""),

		JWTSecret:          getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AccessTokenExpiry:  getDurationEnv("ACCESS_TOKEN_EXPIRY", time.Hour*12),
		RefreshTokenExpiry: getDurationEnv("REFRESH_TOKEN_EXPIRY", time.Hour*24*7),
		AdminCacheTTL:      getDurationEnv("ADMIN_CACHE_TTL", 5*time.Minute),

		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 25),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 5),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		R2UploadTimeout:   getDurationEnv("R2_UPLOAD_TIMEOUT", 30*time.Second),
		ProofURLExpiry:    getDurationEnv("PROOF_URL_EXPIRY", time.Hour),

		StatsCacheTTL: getDurationEnv("STATS_CACHE_TTL", 5*time.Minute),

		MaxUploadSizeMB: getInt64Env("MAX_UPLOAD_SIZE_MB", 10),

		LowStockThreshold: getIntEnv("LOW_STOCK_THRESHOLD", 5),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN environment variable is required")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Do not run this in production.")
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
		log.Printf("Invalid int64 for %s, using fallback", key)
	}
	return fallback
}

func getInt32Env(key string, fallback int32) int32 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
		log.Printf("Invalid int32 for %s, using fallback", key)
	}
	return fallback
}
