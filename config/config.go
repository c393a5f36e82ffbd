package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port    string
	LogMode string

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTKey    string
	SaltRound int

	// Signing up with this address grants the ADMIN role
	AdminEmail string

	// Bounded retries for optimistic enrollment/attempt updates
	UpdateRetryLimit int

	SendgridAPIKey  string
	EmailSender     string
	EmailSenderName string

	CertificateRendererURL     string
	CertificateRendererTimeout time.Duration

	ReconcileSchedule string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:    getEnv("PORT", "3000"),
		LogMode: getEnv("LOG_MODE", "dev"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "coursetrack"),
		DBPort:     getEnv("DB_PORT", "5432"),

		JWTKey:     getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound:  getEnvInt("SALT_ROUND", 10),
		AdminEmail: strings.ToLower(getEnv("ADMIN_EMAIL", "")),

		UpdateRetryLimit: getEnvInt("UPDATE_RETRY_LIMIT", 5),

		SendgridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@coursetrack.local"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "CourseTrack"),

		CertificateRendererURL:     getEnv("CERTIFICATE_RENDERER_URL", "http://localhost:4000"),
		CertificateRendererTimeout: getEnvDuration("CERTIFICATE_RENDERER_TIMEOUT", 30*time.Second),

		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "0 2 * * *"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendgridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY is empty. Emails will not be delivered.")
	}
	if AppConfig.UpdateRetryLimit < 1 {
		AppConfig.UpdateRetryLimit = 1
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
