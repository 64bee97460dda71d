package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort  string `yaml:"APP_PORT"`
	AppURL   string `yaml:"APP_URL"`
	PageSize string `yaml:"PAGE_SIZE"`
	LogFile  string `yaml:"LOG_FILE"`
	// comma-separated, "*" when empty
	CORSAllowOrigins string `yaml:"CORS_ALLOW_ORIGINS"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	// JWT
	JWTSecret     string `yaml:"JWT_SECRET"`
	JWTTTLMinutes string `yaml:"JWT_TTL_MINUTES"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// Image storage
	StorageDriver string `yaml:"STORAGE_DRIVER"`
	MediaRoot     string `yaml:"MEDIA_ROOT"`
	MediaURL      string `yaml:"MEDIA_URL"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config = defaults()

func defaults() Config {
	return Config{
		AppPort:       "8080",
		AppURL:        "http://localhost:8080",
		PageSize:      "6",
		LogFile:       "./logs/app.log",
		DBSSLMode:     "disable",
		JWTTTLMinutes: "1440",
		StorageDriver: "local",
		MediaRoot:     "./media",
		MediaURL:      "/media",
	}
}

// keys maps every config key to its field so env overrides and lookups
// share one table.
func (c *Config) keys() map[string]*string {
	return map[string]*string{
		"APP_PORT":           &c.AppPort,
		"APP_URL":            &c.AppURL,
		"PAGE_SIZE":          &c.PageSize,
		"LOG_FILE":           &c.LogFile,
		"CORS_ALLOW_ORIGINS": &c.CORSAllowOrigins,
		"DB_USER":            &c.DBUser,
		"DB_NAME":            &c.DBName,
		"DB_PASSWORD":        &c.DBPassword,
		"DB_PORT":            &c.DBPort,
		"DB_HOST":            &c.DBHost,
		"DB_SSLMODE":         &c.DBSSLMode,
		"JWT_SECRET":         &c.JWTSecret,
		"JWT_TTL_MINUTES":    &c.JWTTTLMinutes,
		"SMTP_HOST":          &c.SMTPHost,
		"SMTP_PORT":          &c.SMTPPort,
		"SMTP_SENDER_NAME":   &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":    &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD": &c.SMTPAuthPassword,
		"STORAGE_DRIVER":     &c.StorageDriver,
		"MEDIA_ROOT":         &c.MediaRoot,
		"MEDIA_URL":          &c.MediaURL,
		"AWS_S3_BUCKET":      &c.AWSS3Bucket,
		"AWS_S3_REGION":      &c.AWSS3Region,
		"AWS_ACCESS_KEY":     &c.AWSAccessKey,
		"AWS_SECRET_KEY":     &c.AWSSecretKey,
	}
}

func LoadConfig() {
	if err := LoadConfigFrom("config.yaml", ".env"); err != nil {
		log.Errorf("error loading config: %v", err)
	}
}

// LoadConfigFrom reads the dotenv file, then the YAML file, then lets
// environment variables override YAML values. Missing files are skipped.
func LoadConfigFrom(yamlPath, envPath string) error {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading env file: %w", err)
	}

	cfg := defaults()
	file, err := os.ReadFile(yamlPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Warnf("%s not found, using environment only", yamlPath)
	case err != nil:
		return fmt.Errorf("error reading YAML file: %w", err)
	default:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return fmt.Errorf("error parsing YAML file: %w", err)
		}
	}

	for key, field := range cfg.keys() {
		if v, ok := os.LookupEnv(key); ok {
			*field = v
		}
	}

	config = cfg
	return nil
}

func GetConfig(key string) string {
	if field, ok := config.keys()[key]; ok {
		return *field
	}
	return ""
}

// GetConfigInt parses key as an int, falling back to def when it is unset
// or malformed.
func GetConfigInt(key string, def int) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
