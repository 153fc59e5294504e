package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	LogLevel string

	// MongoDB configuration
	MongoURI         string
	MongoDatabase    string
	MongoInsecureTLS bool

	// Redis configuration (optional, caching disabled when unreachable)
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Gemini configuration
	Gemini GeminiConfig

	// Crawler configuration
	Crawler CrawlerConfig

	// Dashboard configuration
	Dashboard DashboardConfig
}

// GeminiConfig holds generative-text API configuration
type GeminiConfig struct {
	Enabled        bool
	Endpoint       string
	APIKey         string
	Model          string
	TimeoutSeconds int
}

// CrawlerConfig holds crawl source parameters
type CrawlerConfig struct {
	PTTBoards           []string
	PTTPageLimit        int
	NewsQuery           string
	FetchTimeoutSeconds int
	KeywordsFile        string
}

// DashboardConfig pins the weekly dashboard to one store-day and controls
// whether demo fallback content is served when collections are empty.
type DashboardConfig struct {
	TargetDate string
	StoreID    string
	DemoMode   bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:     getEnvInt("PORT", 7860),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),

		MongoURI:         getEnvOrDefault("MONGODB_URL", "mongodb://localhost:27017"),
		MongoDatabase:    getEnvOrDefault("MONGODB_DATABASE", "medipoint"),
		MongoInsecureTLS: getEnvOrDefault("MONGODB_TLS_INSECURE", "false") == "true",

		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		Gemini: GeminiConfig{
			Enabled:        getEnvOrDefault("GEMINI_ENABLED", "true") == "true",
			Endpoint:       getEnvOrDefault("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com"),
			APIKey:         os.Getenv("GEMINI_API_KEY"),
			Model:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
			TimeoutSeconds: getEnvInt("GEMINI_TIMEOUT_SECONDS", 30),
		},

		Crawler: CrawlerConfig{
			PTTBoards:           getEnvList("CRAWLER_PTT_BOARDS", []string{"BabyMother", "Health", "Beauty", "Gossiping"}),
			PTTPageLimit:        getEnvInt("CRAWLER_PTT_PAGE_LIMIT", 1),
			NewsQuery:           getEnvOrDefault("CRAWLER_NEWS_QUERY", "流感 OR 腸病毒 OR 缺藥"),
			FetchTimeoutSeconds: getEnvInt("CRAWLER_FETCH_TIMEOUT_SECONDS", 10),
			KeywordsFile:        os.Getenv("CRAWLER_KEYWORDS_FILE"),
		},

		Dashboard: DashboardConfig{
			TargetDate: getEnvOrDefault("DASHBOARD_TARGET_DATE", "2025-10-30"),
			StoreID:    getEnvOrDefault("DASHBOARD_STORE_ID", "S001"),
			DemoMode:   getEnvOrDefault("DASHBOARD_DEMO_MODE", "true") == "true",
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvList gets a comma-separated environment variable or returns the default
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
