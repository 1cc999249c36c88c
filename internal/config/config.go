package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName            string        `mapstructure:"app_name"`
	Env                string        `mapstructure:"app_env"`
	LogLevel           string        `mapstructure:"log_level"`
	APIBaseURL         string        `mapstructure:"api_base_url"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	StorageType string `mapstructure:"storage_type"`
	BBoltPath   string `mapstructure:"bbolt_path"`

	// PageBaseURL is the public site root used to derive shareable post URLs.
	PageBaseURL string `mapstructure:"page_base_url"`
	// ListingURL is where the not-found view points readers back to.
	ListingURL string `mapstructure:"listing_url"`

	PlaceholderPostImage   string `mapstructure:"placeholder_post_image"`
	PlaceholderAuthorImage string `mapstructure:"placeholder_author_image"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "blogpress-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "https://blog-blogapi-service.onrender.com")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/blogpress.db")
	v.SetDefault("page_base_url", "https://blogpress.example.com/details")
	v.SetDefault("listing_url", "https://blogpress.example.com/")
	v.SetDefault("placeholder_post_image", "https://via.placeholder.com/800x400/e2e8f0/64748b?text=Image+Not+Found")
	v.SetDefault("placeholder_author_image", "https://via.placeholder.com/48x48/e2e8f0/64748b?text=Author")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, fmt.Errorf("api_base_url must not be empty")
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	return &cfg, nil
}
