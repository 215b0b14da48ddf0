package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	MongoURI string
	MongoDB  string

	JWTSecret string
	JWTTTL    time.Duration

	AllowedOrigins []string

	UploadDir string

	RedisAddr     string
	RedisPassword string

	OTLPEndpoint string

	AdminEmail    string
	AdminPassword string
	AdminName     string

	AuthRateLimit  int
	AuthRateWindow time.Duration
}

func Load() Config {
	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		MongoURI: getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:  getEnv("MONGO_DATABASE", "hospital"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		AllowedOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),

		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getEnvDuration("AUTH_RATE_WINDOW", time.Minute),
	}
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return d
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))

		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				out = append(out, t)
			}
		}

		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
