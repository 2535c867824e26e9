package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret signs tokens when JWT_SECRET is unset.
const DefaultJWTSecret = "secret"

type Config struct {
	Env           string
	AppPort       int
	BaseURL       string
	DBHost        string
	DBPort        int
	DBUser        string
	DBPassword    string
	DBName        string
	SeedStatuses  bool
	RedisEnabled  bool
	RedisHost     string
	RedisPort     int
	RedisPassword string
	CacheTTL      time.Duration
	JWTSecret     string
	TokenTTL      time.Duration
	LogDir        string
	RateLimitMax  int
	CORSOrigins   string
}

func LoadConfig() Config {
	// Muat file .env
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	return Config{
		Env:           getString("GO_ENV", "development"),
		AppPort:       getInt("APP_PORT", 3004),
		BaseURL:       strings.TrimRight(getString("BASE_URL", "/api"), "/"),
		DBHost:        getString("DB_HOST", "localhost"),
		DBPort:        getInt("DB_PORT", 5432),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		SeedStatuses:  getBool("SEED_STATUSES", false),
		RedisEnabled:  getBool("REDIS_ENABLED", false),
		RedisHost:     getString("REDIS_HOST", "localhost"),
		RedisPort:     getInt("REDIS_PORT", 6379),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      getDuration("CACHE_TTL", time.Hour),
		JWTSecret:     getString("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
		LogDir:        getString("LOG_DIR", "logs"),
		RateLimitMax:  getInt("RATE_LIMIT_MAX", 100),
		CORSOrigins:   getString("CORS_ORIGINS", "*"),
	}
}

// UsesDefaultSecret reports whether tokens would be signed with the built in
// secret outside of tests.
func (c Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret && c.Env != "test"
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
