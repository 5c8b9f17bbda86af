package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBName    string
	JWTKey    string
	SaltRound int

	EmailSender string
	Password    string // SMTP Password

	NotifyWebhookURL string // Optional webhook endpoint for pushed notifications
	NotifyWebhookKey string

	ExpiryLookbackDays int // Access-history window for expiry notifications
	ExpiryReminderDays int // "Expiring soon" reminder window
	ExpiryPageSize     int // Scan page size for the expiry job
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		DBName:    getEnv("DB_NAME", "lmsPortal"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("PASSWORD", "defaultSecret"),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		NotifyWebhookKey: getEnv("NOTIFY_WEBHOOK_KEY", ""),

		ExpiryLookbackDays: getEnvInt("EXPIRY_LOOKBACK_DAYS", 30),
		ExpiryReminderDays: getEnvInt("EXPIRY_REMINDER_DAYS", 2),
		ExpiryPageSize:     getEnvInt("EXPIRY_PAGE_SIZE", 200),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
