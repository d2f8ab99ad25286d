package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey   string
	DatabaseURL    string
	UploadDir      string
	HTTPPort       string
	LogLevel       string
	JWTSecret      string
	FrontendOrigin string
	MaxUploadMB    int
	DemoEmail      string
	DemoPassword   string
	// PlaceholderMode makes generate-pid answer 200 with a placeholder
	// document instead of a 5xx when the provider is unconfigured or
	// fails. Off by default; the mode is fixed for a deployment.
	PlaceholderMode bool
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:     getEnv("DATABASE_URL", "pid_backend.db"),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		FrontendOrigin:  getEnv("FRONTEND_ORIGIN", "*"),
		MaxUploadMB:     getEnvAsInt("MAX_UPLOAD_MB", 50),
		DemoEmail:       getEnv("DEMO_EMAIL", "demo@example.com"),
		DemoPassword:    getEnv("DEMO_PASSWORD", "password"),
		PlaceholderMode: getEnvAsBool("PLACEHOLDER_MODE", false),
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY is not set, PID generation will run degraded")
	}

	if AppConfig.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET is not set, using an insecure development secret")
		AppConfig.JWTSecret = "insecure-dev-secret"
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
