package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port string

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	SQLitePath string
	DBLogSQL   bool

	JWTKey      string
	SaltRound   int
	AdminEmails []string // signups with these emails get the ADMIN role

	CourseCompletionBonus int

	SendgridAPIKey string
	EmailSender    string

	BadgeWebhookURL    string
	BadgeReconcileCron string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = FromEnv()

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("[CONFIG] Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendgridAPIKey == "" {
		log.Println("[CONFIG] SENDGRID_API_KEY not set, certificate emails are disabled.")
	}
}

// FromEnv builds a Config from the current process environment without touching AppConfig.
func FromEnv() *Config {
	return &Config{
		Port: getEnv("PORT", "3000"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "learnsphere"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "learnsphere.db"),
		DBLogSQL:   getEnvBool("DB_LOG_SQL", false),

		JWTKey:      getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound:   getEnvInt("SALT_ROUND", 10),
		AdminEmails: getEnvList("ADMIN_EMAILS"),

		CourseCompletionBonus: getEnvInt("COURSE_COMPLETION_BONUS", 100),

		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@learnsphere.app"),

		BadgeWebhookURL:    getEnv("BADGE_WEBHOOK_URL", ""),
		BadgeReconcileCron: getEnv("BADGE_RECONCILE_CRON", "0 3 * * *"),
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
		log.Printf("[CONFIG] Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("[CONFIG] Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return b
}

// getEnvList splits a comma separated variable, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range c.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}
