package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	JWTSecret   string
	CORSOrigin  string
	FrontendURL string

	// Geocoding (Nominatim) configuration
	Geocoding GeocodingConfig

	// Image storage (MinIO)
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	// Push notifications (Firebase)
	FirebaseCredentialsPath string
	FirebaseCredentialsJSON string

	// Email Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// GeocodingConfig holds the tunables of the reverse-geocoding gateway.
// The values are injected into the service so tests can shrink them.
type GeocodingConfig struct {
	BaseURL        string
	UserAgent      string
	Referer        string
	AcceptLanguage string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CacheCapacity  int
	MinInterval    time.Duration
	BlockDuration  time.Duration
}

func Load() *Config {
	// Missing .env is fine, real env vars still apply
	_ = godotenv.Load()

	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "2525"))
	minioUseSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/gogo?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		Geocoding: GeocodingConfig{
			BaseURL:        getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent:      getEnv("NOMINATIM_USER_AGENT", "GoGoApp/1.0 (https://github.com/yourusername/gogo; contact@yourdomain.com)"),
			Referer:        getEnv("NOMINATIM_REFERER", "https://yourdomain.com"),
			AcceptLanguage: getEnv("NOMINATIM_ACCEPT_LANGUAGE", "vi,en"),
			Timeout:        10 * time.Second,
			CacheTTL:       2 * time.Minute,
			CacheCapacity:  100,
			MinInterval:    2 * time.Second,
			BlockDuration:  time.Hour,
		},

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "gogo"),
		MinioUseSSL:    minioUseSSL,
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),

		FirebaseCredentialsPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),

		// Email settings
		SMTPHost:     getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:     smtpPort,
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@gogo.app"),
		FromName:     getEnv("FROM_NAME", "GoGo"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
