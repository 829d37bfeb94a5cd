package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration for the classroom client.
type Config struct {
	AppName                string
	AppEnv                 string
	APIBaseURL             string
	HTTPTimeout            time.Duration
	SessionFile            string
	AllowResubmission      bool
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CLASSROOM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Classroom Client")
	v.SetDefault("app.env", "development")
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("session.file", ".classroom-session")
	v.SetDefault("allow.resubmission", false)
	v.SetDefault("cloudinary.folder", "classroom/field-assignments")

	timeoutString := v.GetString("http.timeout")
	if timeoutString == "" {
		timeoutString = "30s"
	}

	timeout, err := time.ParseDuration(timeoutString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid http timeout: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		APIBaseURL:             strings.TrimRight(v.GetString("api.base_url"), "/"),
		HTTPTimeout:            timeout,
		SessionFile:            v.GetString("session.file"),
		AllowResubmission:      v.GetBool("allow.resubmission"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("api base url must be provided")
	}

	return cfg, nil
}
