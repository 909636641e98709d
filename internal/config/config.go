package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort   string // Application port
	MongoURI  string // MongoDB connection URI
	MongoDB   string // MongoDB database name
	UploadDir string // Directory for uploaded files and CSV exports
	RedisAddr string // Redis server address
	RedisPass string // Redis password
	RedisDB   int    // Redis database number
	AuthMode  string // Identity mode: "header" or "jwt"
	JWTSecret string // JWT secret key (jwt mode only)
	IsProd    bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:   getEnv("APP_PORT", "8000"),                       // Application port
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"), // MongoDB URI
		MongoDB:   getEnv("MONGO_DB", "invoiceflow"),                // MongoDB database name
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),                  // Upload directory
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),           // Redis server address
		RedisPass: os.Getenv("REDIS_PASS"),                          // Redis password
		RedisDB:   redisDB,                                          // Redis database number
		AuthMode:  getEnv("AUTH_MODE", "header"),                    // Identity mode
		JWTSecret: os.Getenv("JWT_SECRET"),                          // JWT secret key
		IsProd:    os.Getenv("IS_PROD") == "true",                   // Is production environment
	}
}

// getEnv returns the value of key, or fallback when unset or empty
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v // Use the configured value
	}
	return fallback // Fall back to the default
}
