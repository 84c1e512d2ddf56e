package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DBUrl       string
	FrontendURL string
	// Proxies allowed to set X-Forwarded-For; none by default
	TrustedProxies []string
	// Uploads
	UploadDir         string
	MaxUploadBytes    int64
	ImageMaxDimension int
	ClamAVAddress     string
	// S3-compatible storage (AWS or Wasabi); local disk when bucket is empty
	S3Provider        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	WasabiEndpoint    string
	// Admin authentication
	AdminUsername        string
	AdminPasswordHash    string
	AdminJWTSecret       string
	AdminTokenTTLMinutes int
	// SMTP Configuration (Brevo)
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string // Verified sender email (different from SMTP login)
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitIntakeThreshold int
	RateLimitLoginThreshold  int
	// API docs
	SwaggerEnabled bool
}

func LoadConfig() (*Config, error) {
	// Load .env file (only effective locally, ignored in production when missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		// Comma-separated IPs or CIDRs of the load balancer in front of the API
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
		// Uploads
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", 10<<20), // 10 MiB
		ImageMaxDimension: getEnvInt("IMAGE_MAX_DIMENSION", 2000),
		ClamAVAddress:     getEnv("CLAMAV_ADDRESS", ""),
		// S3
		S3Provider:        strings.ToLower(getEnv("S3_PROVIDER", "aws")),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:          getEnv("S3_REGION", "ap-southeast-1"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		WasabiEndpoint:    getEnv("WASABI_ENDPOINT", ""),
		// Admin
		AdminUsername:        getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash:    getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminJWTSecret:       getEnv("ADMIN_JWT_SECRET", ""),
		AdminTokenTTLMinutes: getEnvInt("ADMIN_TOKEN_TTL_MINUTES", 480),
		// SMTP Configuration
		SMTPHost:      getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", ""),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),   // 1 minute window
		RateLimitIntakeThreshold: getEnvInt("RATE_LIMIT_INTAKE_THRESHOLD", 10), // 10 submissions per window
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 5),   // 5 login attempts per window
		SwaggerEnabled:           getEnvBool("SWAGGER_ENABLED", true),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Records are kept in memory and lost on restart.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AdminAuthEnabled reports whether admin routes require a token.
func (c *Config) AdminAuthEnabled() bool {
	return c.AdminJWTSecret != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvInt64 returns an int64 environment variable or fallback if not set/invalid
func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil && intVal > 0 {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
