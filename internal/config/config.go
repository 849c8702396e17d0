package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port             string
	MongoDBURI       string
	MongoDBName      string
	JWTSecret        string
	UploadDir        string
	FrontendURL      string
	CloudinaryURL    string
	CloudinaryName   string
	CloudinaryAPIKey string
	CloudinarySecret string
	Environment      string
	LogLevel         string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnvWithDefault("PORT", "8080"),
		MongoDBURI:       os.Getenv("MONGODB_URI"),
		MongoDBName:      getEnvWithDefault("MONGODB_DB", "chartsheet"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		UploadDir:        getEnvWithDefault("UPLOAD_DIR", "uploads"),
		FrontendURL:      getEnvWithDefault("FRONTEND_URL", "http://localhost:5173"),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		CloudinaryName:   os.Getenv("CLOUDINARY_NAME"),
		CloudinaryAPIKey: os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySecret: os.Getenv("CLOUDINARY_SECRET"),
		Environment:      getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:         getEnvWithDefault("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// CloudinaryConfigured reports whether either credential form is present;
// without it avatar uploads fall back to local disk.
func (c *Config) CloudinaryConfigured() bool {
	if c.CloudinaryURL != "" {
		return true
	}
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinarySecret != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
