package utils

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds every setting the application needs. It is loaded once at
// startup and passed explicitly to the components that need it; nothing
// reads configuration through a global.
type Config struct {
	// Application
	AppPort string `yaml:"APP_PORT"`
	AppURL  string `yaml:"APP_URL"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Gemini API configuration
	GeminiAPIKey string `yaml:"GEMINI_API_KEY"`
	GeminiModel  string `yaml:"GEMINI_MODEL"`

	// Uploads
	MaxUploadSize int64 `yaml:"MAX_UPLOAD_SIZE"`
}

const defaultMaxUploadSize = 10 << 20 // 10MB

// LoadConfig reads config.yaml (when present) and applies environment
// variable overrides, so a container can run without the file at all.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return Config{}, err
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	overrideString(&cfg.AppPort, "APP_PORT")
	overrideString(&cfg.AppURL, "APP_URL")
	overrideString(&cfg.DBUser, "DB_USER")
	overrideString(&cfg.DBName, "DB_NAME")
	overrideString(&cfg.DBPassword, "DB_PASSWORD")
	overrideString(&cfg.DBPort, "DB_PORT")
	overrideString(&cfg.DBHost, "DB_HOST")
	overrideString(&cfg.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.SMTPHost, "SMTP_HOST")
	overrideString(&cfg.SMTPPort, "SMTP_PORT")
	overrideString(&cfg.SMTPSenderName, "SMTP_SENDER_NAME")
	overrideString(&cfg.SMTPAuthEmail, "SMTP_AUTH_EMAIL")
	overrideString(&cfg.SMTPAuthPassword, "SMTP_AUTH_PASSWORD")
	overrideString(&cfg.AWSS3Bucket, "AWS_S3_BUCKET")
	overrideString(&cfg.AWSS3Region, "AWS_S3_REGION")
	overrideString(&cfg.AWSAccessKey, "AWS_ACCESS_KEY")
	overrideString(&cfg.AWSSecretKey, "AWS_SECRET_KEY")
	overrideString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	overrideString(&cfg.GeminiModel, "GEMINI_MODEL")

	if cfg.AppPort == "" {
		cfg.AppPort = "8000"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.5-flash"
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = defaultMaxUploadSize
	}

	return cfg, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
