package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	Environment string

	// Extract source
	DataDir     string
	DataFormat  string // csv | xlsx | db
	DatabaseURL string

	// Pipeline
	OutputFile     string
	StrictPipeline bool
	ServeDashboard bool

	// GCP Storage
	GCPBucketName string

	// Allowed Origins
	AllowedOrigins string
}

var AppConfig *Config

// LoadConfig loads environment variables into Config struct
func LoadConfig() {
	// Load .env file if it exists (optional in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:           getEnv("PORT", "5500"),
		Environment:    getEnv("APP_ENV", "development"),
		DataDir:        getEnv("ROS_DATA_DIR", "."),
		DataFormat:     getEnv("ROS_DATA_FORMAT", "csv"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		OutputFile:     getEnv("ROS_OUTPUT_FILE", "ros_dashboard_data.json"),
		StrictPipeline: getEnv("ROS_STRICT_PIPELINE", "false") == "true",
		ServeDashboard: getEnv("ROS_SERVE", "false") == "true",
		GCPBucketName:  getEnv("GCP_BUCKET_NAME", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
	}

	// Validate required config
	switch AppConfig.DataFormat {
	case "csv", "xlsx":
	case "db":
		if AppConfig.DatabaseURL == "" {
			log.Fatal("DATABASE_URL is required when ROS_DATA_FORMAT=db")
		}
	default:
		log.Fatalf("Unsupported ROS_DATA_FORMAT %q (expected csv, xlsx or db)", AppConfig.DataFormat)
	}

	log.Println("✅ Configuration loaded successfully")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsProduction returns true if running in production mode
func IsProduction() bool {
	return AppConfig.Environment == "production"
}

// IsDevelopment returns true if running in development mode
func IsDevelopment() bool {
	return AppConfig.Environment == "development" || AppConfig.Environment == ""
}
