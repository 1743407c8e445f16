package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	JWTSecret     string
	DBPath        string
	SkipAuth      bool
	Environment   string
	AppId         string
	BaleToken     string
	TelegramToken string
	RenderURL     string // Base URL of the card render service
	RemindSpec    string // Cron expression for the pending-approval digest
	Company       string // Default sequence scope for documents created via chat
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		DBPath:        getEnv("DB_PATH", "./data/erp.json"),
		SkipAuth:      getEnv("SKIP_AUTH", "false") == "true",
		Environment:   getEnv("ENVIRONMENT", "development"),
		AppId:         getEnv("APP_ID", "go-erp"),
		BaleToken:     getEnv("BALE_TOKEN", ""),
		TelegramToken: getEnv("TELEGRAM_TOKEN", ""),
		RenderURL:     getEnv("RENDER_URL", "http://localhost:3030"),
		RemindSpec:    getEnv("REMIND_SPEC", "0 8 * * *"),
		Company:       getEnv("DEFAULT_COMPANY", "main"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
