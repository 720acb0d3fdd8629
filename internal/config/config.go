package config

import (
	"errors"
	"fmt"
	"strings"

	"homedepot/scraper/internal/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig              `mapstructure:"server"`
	Site       SiteConfig                `mapstructure:"site"`
	HTTP       HTTPConfig                `mapstructure:"http"`
	Output     OutputConfig              `mapstructure:"output"`
	Database   DatabaseConfig            `mapstructure:"database"`
	Logging    LoggingConfig             `mapstructure:"logging"`
	Navigation []domain.TaxonomySelector `mapstructure:"navigation"`
}

// ServerConfig holds the read-back server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// SiteConfig describes the target retail site
type SiteConfig struct {
	BaseURL         string            `mapstructure:"base_url"`
	NavigationPath  string            `mapstructure:"navigation_path"`
	SearchPath      string            `mapstructure:"search_path"`
	ProductsPerPage int               `mapstructure:"products_per_page"`
	UserAgent       string            `mapstructure:"user_agent"`
	Accept          string            `mapstructure:"accept"`
	SearchHeaders   map[string]string `mapstructure:"search_headers"`
}

// HTTPConfig holds transport settings. Timeouts are in seconds, 0 disables.
type HTTPConfig struct {
	Timeout              int      `mapstructure:"timeout"`
	PostTimeout          int      `mapstructure:"post_timeout"`
	MaxRetries           int      `mapstructure:"max_retries"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	Proxies              []string `mapstructure:"proxies"`
}

type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig holds the optional Postgres mirror configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DSN returns the pgx connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// Load loads configuration from a YAML file with environment variable overrides.
// An empty path means config.yaml in the current directory.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks the invariants the pipeline relies on
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url is required")
	}
	if c.Site.ProductsPerPage <= 0 {
		return fmt.Errorf("site.products_per_page must be positive, got %d", c.Site.ProductsPerPage)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	for i, selector := range c.Navigation {
		if err := selector.Validate(); err != nil {
			return fmt.Errorf("navigation[%d]: %w", i, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")

	v.SetDefault("site.base_url", "https://www.homedepot.com")
	v.SetDefault("site.navigation_path", "/hdus/en_US/DTCCOMNEW/fetch/headerFooterFlyout-8.json")
	v.SetDefault("site.search_path", "/federation-gateway/graphql")
	v.SetDefault("site.products_per_page", 24)
	v.SetDefault("site.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.101 Safari/537.36")
	v.SetDefault("site.accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	v.SetDefault("site.search_headers", map[string]string{
		"apollographql-client-name":    "major-appliances",
		"apollographql-client-version": "0.0.0",
		"x-experience-name":            "major-appliances",
		"x-debug":                      "false",
		"accept":                       "*/*",
		"accept-language":              "en-US,en;q=0.9",
	})

	v.SetDefault("http.timeout", 30)
	v.SetDefault("http.post_timeout", 0)
	v.SetDefault("http.max_retries", 5)
	v.SetDefault("http.max_requests_per_second", 0)

	v.SetDefault("output.path", "data.json")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "homedepot")
	v.SetDefault("database.user", "homedepot_user")
	v.SetDefault("database.password", "homedepot_pass")

	v.SetDefault("logging.level", "info")
}
