package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LiveLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string // empty disables the bearer guard
}

type DatabaseConfig struct {
	Connection   string
	MaxIdleConns int
	MaxOpenConns int
	LogLevel     string // silent, error, warn, info
}

type APIKeys struct {
	GoogleGemini       string
	ContactEventsTopic string
}

type AIConfig struct {
	LLMProvider     string // "gemini" or "ollama"
	LLMModel        string
	OllamaBaseURL   string
	SearchGrounding bool
	Temperature     float64
}

type TelemetryConfig struct {
	Enabled      bool
	OtlpEndpoint string
	ServiceName  string
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			LiveLogFilePath:    getEnv("LIVE_LOG_FILE_PATH", "live.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection:   getEnv("DB_CONNECTION_STRING", ""),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		},
		Keys: APIKeys{
			GoogleGemini:       getEnv("GOOGLE_GEMINI_API_KEY", ""),
			ContactEventsTopic: getEnv("CONTACT_EVENTS_TOPIC", "CONTACT_EVENTS"),
		},
		Ai: AIConfig{
			LLMProvider:     getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:        getEnv("LLM_MODEL", ""),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			SearchGrounding: getEnvAsBool("LLM_SEARCH_GROUNDING", true),
			Temperature:     getEnvAsFloat("LLM_TEMPERATURE", 0.1),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			OtlpEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "ai-crm-be"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
