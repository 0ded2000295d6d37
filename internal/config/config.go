package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries all process-wide settings. It is loaded once in main and
// passed explicitly to the components that need it; nothing else reads the
// environment.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// Secret signs the session token. The process must not start without it.
	Secret    string
	JWTMaxAge time.Duration

	RedisURL string

	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
	S3Bucket     string

	// BaseURL and UploadDir back the local-storage fallback when AWS is not
	// configured.
	BaseURL   string
	UploadDir string

	CORSOrigins []string
}

// Load reads the configuration from the environment. A missing SECRET is an
// error; everything else falls back to a development default.
func Load() (*Config, error) {
	secret := os.Getenv("SECRET")
	if secret == "" {
		return nil, fmt.Errorf("config: SECRET is not set")
	}

	maxAgeSeconds := 172800 // two days, matching the default session lifetime
	if v := os.Getenv("JWT_MAX_AGE"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid JWT_MAX_AGE %q: %w", v, err)
		}
		maxAgeSeconds = parsed
	}

	origins := []string{"http://localhost:5173"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "rentals"),
		DBPort:     getEnv("DB_PORT", "5432"),

		Secret:    secret,
		JWTMaxAge: time.Duration(maxAgeSeconds) * time.Second,

		RedisURL: os.Getenv("REDIS_URL"),

		AWSRegion:    os.Getenv("AWS_REGION"),
		AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3Bucket:     os.Getenv("AWS_S3_BUCKET"),

		BaseURL:   getEnv("BASE_URL", "http://localhost:8080"),
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),

		CORSOrigins: origins,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
