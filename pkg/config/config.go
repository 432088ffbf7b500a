package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App            AppConfig
	Server         ServerConfig
	Database       DatabaseConfig
	JWT            JWTConfig
	Redis          RedisConfig
	Gemini         GeminiConfig
	Recommendation RecommendationConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// GeminiConfig describes the generative-language service. An empty APIKey
// means the service is not configured and recommendations use the default criteria.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type RecommendationConfig struct {
	SavedWindow   int
	TripWindow    int
	RatingWindow  int
	MaxResultsCap int
	AssistTimeout time.Duration
	ConfigScope   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Travel Discovery API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "travel_discovery"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Enabled:       getEnvBool("REDIS_ENABLED", false),
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout: getEnvDuration("GEMINI_TIMEOUT", 15*time.Second),
		},
		Recommendation: RecommendationConfig{
			SavedWindow:   getEnvInt("RECO_SAVED_WINDOW", 100),
			TripWindow:    getEnvInt("RECO_TRIP_WINDOW", 10),
			RatingWindow:  getEnvInt("RECO_RATING_WINDOW", 50),
			MaxResultsCap: getEnvInt("RECO_MAX_RESULTS_CAP", 50),
			AssistTimeout: getEnvDuration("RECO_ASSIST_TIMEOUT", 8*time.Second),
			ConfigScope:   getEnv("RECO_CONFIG_SCOPE", "default"),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultVal
}

// comma separated
func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
