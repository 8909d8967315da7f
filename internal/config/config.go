package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	Analysis AnalysisConfig
	LinkedIn LinkedInConfig
	Storage  StorageConfig
	MinIO    MinIOConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32
}

// AnalysisConfig controls how the orchestrator treats an unavailable upstream.
type AnalysisConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

type LinkedInConfig struct {
	APIURL  string
	Timeout time.Duration
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

// MinIOConfig is optional; an empty Endpoint disables upload archiving.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
	Location        string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

// Load reads the process environment, optionally seeded from a .env file.
// The returned bool reports whether a .env file was found.
func Load() (*Config, bool) {
	envLoaded := godotenv.Load() == nil

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			Env:            getEnv("ENV", "development"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cv_tailor"),
		},
		Gemini: GeminiConfig{
			APIKey:      strings.TrimSpace(getEnv("GEMINI_API_KEY", "")),
			Model:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", "30s"),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.3),
		},
		Analysis: AnalysisConfig{
			MaxRetries: getEnvAsInt("ANALYSIS_MAX_RETRIES", 1),
			RetryDelay: getEnvAsDuration("ANALYSIS_RETRY_DELAY", "2s"),
		},
		LinkedIn: LinkedInConfig{
			APIURL:  getEnv("LINKEDIN_API_URL", "https://api.linkedin.com/v2"),
			Timeout: getEnvAsDuration("LINKEDIN_TIMEOUT", "15s"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		MinIO: MinIOConfig{
			Endpoint:        getEnv("MINIO_ENDPOINT", ""),
			AccessKeyID:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretAccessKey: getEnv("MINIO_SECRET_KEY", ""),
			UseSSL:          getEnvAsBool("MINIO_USE_SSL", false),
			Bucket:          getEnv("MINIO_BUCKET", "cv-tailor"),
			Location:        getEnv("MINIO_LOCATION", ""),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}, envLoaded
}

// AnalysisEnabled reports whether the completion service has credentials.
func (c *Config) AnalysisEnabled() bool {
	return c.Gemini.APIKey != ""
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
