package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Supabase  SupabaseConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SupabaseConfig covers both the data backend (PostgREST, service key) and the
// identity provider (GoTrue issuer under <URL>/auth/v1).
type SupabaseConfig struct {
	URL        string
	ServiceKey string
	AnonKey    string
	// JWTSecret, when set, pins token verification to a shared HS256 secret
	// instead of discovering the provider's JWKS.
	JWTSecret string
}

// DatabaseConfig holds the optional direct-Postgres connection. When URL is
// empty the repositories go through the Supabase REST backend instead.
type DatabaseConfig struct {
	URL     string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigin string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	WindowSeconds int
	UseRedis      bool
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("DATABASE_TIMEOUT", 10)
	viper.SetDefault("CORS_ALLOWED_ORIGIN", "*")
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("RATE_LIMIT_USE_REDIS", false)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Supabase: SupabaseConfig{
			URL:        getEnvOrFatal("SUPABASE_URL"),
			ServiceKey: getEnvOrFatal("SUPABASE_SERVICE_KEY"),
			AnonKey:    viper.GetString("SUPABASE_ANON_KEY"),
			JWTSecret:  os.Getenv("SUPABASE_JWT_SECRET"),
		},
		Database: DatabaseConfig{
			URL:     viper.GetString("DATABASE_URL"),
			Timeout: time.Duration(viper.GetInt("DATABASE_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		CORS: CORSConfig{
			AllowedOrigin: viper.GetString("CORS_ALLOWED_ORIGIN"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
		},
	}

	if cfg.Supabase.JWTSecret == "" {
		log.Println("SUPABASE_JWT_SECRET not set; token verification will use JWKS discovery")
	}

	return cfg, nil
}

func getEnvOrFatal(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("environment variable %s is required", key)
	}
	return v
}
