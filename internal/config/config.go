// Package config loads engine settings from an optional YAML file and
// IDEAS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/iudanet/ideacapsule/internal/models"
	"github.com/iudanet/ideacapsule/internal/validation"
)

// EnvPrefix is prepended to every environment override: IDEAS_DB_PATH, IDEAS_COLORS_TRASH ...
const EnvPrefix = "IDEAS"

// DefaultFileName is looked up in the working directory when no file is given
const DefaultFileName = "ideas"

// Config is the validated runtime configuration
type Config struct {
	Colors         models.Palette `mapstructure:"colors"`
	DBPath         string         `mapstructure:"db_path" validate:"required"`
	SettingsPath   string         `mapstructure:"settings_path" validate:"required"`
	LogLevel       string         `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat      string         `mapstructure:"log_format" validate:"oneof=text json"`
	InboxDir       string         `mapstructure:"inbox_dir"`
	PageSize       int            `mapstructure:"page_size" validate:"min=1,max=1000"`
	DebounceWindow time.Duration  `mapstructure:"debounce_window" validate:"min=0"`
	InboxSettle    time.Duration  `mapstructure:"inbox_settle" validate:"gt=0"`
	DisableFTS     bool           `mapstructure:"disable_fts"`
}

func setDefaults(v *viper.Viper) {
	p := models.DefaultPalette()

	v.SetDefault("db_path", "ideas.db")
	v.SetDefault("settings_path", "ideas-settings.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("inbox_dir", "")
	v.SetDefault("page_size", 20)
	v.SetDefault("debounce_window", 500*time.Millisecond)
	v.SetDefault("inbox_settle", 300*time.Millisecond)
	v.SetDefault("disable_fts", false)
	v.SetDefault("colors.bookmark", p.Bookmark)
	v.SetDefault("colors.trash", p.Trash)
	v.SetDefault("colors.uncategorized", p.Uncategorized)
	v.SetDefault("colors.categories", p.Categories)
}

// Load reads path, or ./ideas.yaml when path is empty and the file exists,
// then applies environment overrides and validates the result
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize lower-cases colours and validates every field
func (c *Config) normalize() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	c.Colors.Bookmark = strings.ToLower(strings.TrimSpace(c.Colors.Bookmark))
	c.Colors.Trash = strings.ToLower(strings.TrimSpace(c.Colors.Trash))
	c.Colors.Uncategorized = strings.ToLower(strings.TrimSpace(c.Colors.Uncategorized))
	for i, color := range c.Colors.Categories {
		c.Colors.Categories[i] = strings.ToLower(strings.TrimSpace(color))
	}

	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
