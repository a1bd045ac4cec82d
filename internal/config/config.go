package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort             string // Application port
	DBUser              string // Database user
	DBPassword          string // Database password
	DBHost              string // Database host
	DBPort              string // Database port
	DBName              string // Database name
	JWTSecret           string // JWT secret key
	RedisAddr           string // Redis server address
	RedisPass           string // Redis password
	RedisDB             int    // Redis database number
	IsProd              bool   // Is production environment
	AdminEmail          string // Recipient of payment screenshots
	UseSMTP             bool   // Use real SMTP transport instead of console mode
	SMTPHost            string // SMTP server host
	SMTPPort            int    // SMTP server port
	SMTPUsername        string // SMTP username (also the sender address)
	SMTPPassword        string // SMTP password
	UploadDir           string // Directory for uploaded screenshots
	MaxUploadBytes      int64  // Upper bound on an upload request body
	ClearOnRelayFailure bool   // Proceed to checkout completion even when the relay fails
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587 // Default SMTP submission port
	}
	maxUpload, err := strconv.ParseInt(os.Getenv("MAX_UPLOAD_BYTES"), 10, 64)
	if err != nil || maxUpload <= 0 {
		maxUpload = 10 << 20 // Default upload cap: 10 MiB
	}
	return &Config{
		AppPort:             getEnv("APP_PORT", "8080"),                                  // Application port
		DBUser:              os.Getenv("DB_USER"),                                        // Database user
		DBPassword:          os.Getenv("DB_PASSWORD"),                                    // Database password
		DBHost:              os.Getenv("DB_HOST"),                                        // Database host
		DBPort:              os.Getenv("DB_PORT"),                                        // Database port
		DBName:              os.Getenv("DB_NAME"),                                        // Database name
		JWTSecret:           getEnv("JWT_SECRET", "dev-secret-key"),                      // JWT secret key
		RedisAddr:           os.Getenv("REDIS_ADDR"),                                     // Redis server address
		RedisPass:           os.Getenv("REDIS_PASS"),                                     // Redis password
		RedisDB:             redisDB,                                                     // Redis database number
		IsProd:              os.Getenv("IS_PROD") == "true",                              // Is production environment
		AdminEmail:          getEnv("ADMIN_EMAIL", "admin@example.com"),                  // Screenshot recipient
		UseSMTP:             os.Getenv("USE_SMTP") == "true",                             // Real SMTP or console stand-in
		SMTPHost:            getEnv("SMTP_HOST", "smtp.gmail.com"),                       // SMTP server host
		SMTPPort:            smtpPort,                                                    // SMTP server port
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),                                  // SMTP username / sender
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),                                  // SMTP password
		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),                             // Upload directory
		MaxUploadBytes:      maxUpload,                                                   // Upload cap
		ClearOnRelayFailure: getEnv("CHECKOUT_CLEAR_ON_RELAY_FAILURE", "true") == "true", // Checkout policy
	}
}

// getEnv returns the value of an environment variable or a fallback
func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v // Use the configured value
	}
	return fallback // Fallback when unset
}
