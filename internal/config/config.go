package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Maps   MapsConfig   `yaml:"maps" mapstructure:"maps"`
	Slack  SlackConfig  `yaml:"slack" mapstructure:"slack"`
	Office OfficeConfig `yaml:"office" mapstructure:"office"`
	Layout LayoutConfig `yaml:"layout" mapstructure:"layout"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// MapsConfig holds Google Maps Platform settings.
type MapsConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SlackConfig holds the Slack bot settings used to post annotated listings.
type SlackConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Channel   string `yaml:"channel" mapstructure:"channel"`
	Username  string `yaml:"username" mapstructure:"username"`
	IconEmoji string `yaml:"icon_emoji" mapstructure:"icon_emoji"`
}

// OfficeConfig is the fixed commute destination.
type OfficeConfig struct {
	Address string `yaml:"address" mapstructure:"address"`
}

// LayoutConfig points at the geographic layout sources.
type LayoutConfig struct {
	Path               string `yaml:"path" mapstructure:"path"`
	Shapefile          string `yaml:"shapefile" mapstructure:"shapefile"`
	ShapefileNameField string `yaml:"shapefile_name_field" mapstructure:"shapefile_name_field"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentListings int `yaml:"max_concurrent_listings" mapstructure:"max_concurrent_listings"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("POI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "listings.db")
	v.SetDefault("maps.key", "")
	v.SetDefault("maps.base_url", "https://maps.googleapis.com/maps/api")
	v.SetDefault("maps.timeout_secs", 10)
	v.SetDefault("slack.token", "")
	v.SetDefault("slack.base_url", "https://slack.com/api")
	v.SetDefault("slack.channel", "#housing")
	v.SetDefault("slack.username", "pybot")
	v.SetDefault("slack.icon_emoji", ":robot_face:")
	v.SetDefault("office.address", "")
	v.SetDefault("layout.path", "layout.yaml")
	v.SetDefault("layout.shapefile", "")
	v.SetDefault("layout.shapefile_name_field", "NAME")
	v.SetDefault("batch.max_concurrent_listings", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings required by a command mode:
// "annotate", "run", "serve", "migrate" or "areas".
func (c *Config) Validate(mode string) error {
	var errs []string

	needStore := false
	switch mode {
	case "annotate", "areas":
	case "run", "migrate":
		needStore = true
	case "serve":
		needStore = true
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if mode != "migrate" && c.Layout.Path == "" && c.Layout.Shapefile == "" {
		errs = append(errs, "layout.path is required")
	}
	if c.Batch.MaxConcurrentListings < 1 || c.Batch.MaxConcurrentListings > 50 {
		errs = append(errs, "batch.max_concurrent_listings must be between 1 and 50")
	}

	if needStore {
		switch c.Store.Driver {
		case "sqlite", "postgres":
		default:
			errs = append(errs, fmt.Sprintf("store.driver %q is not supported", c.Store.Driver))
		}
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: invalid for %s: %s", mode, strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
