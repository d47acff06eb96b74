package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/artur/tunegrab/internal/downloader"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName   = "tunegrab"
	envPrefix = "TUNEGRAB"
)

type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Bot      BotConfig      `mapstructure:"bot"`
	Log      LogConfig      `mapstructure:"log"`
	Result   ResultConfig   `mapstructure:"result"`
}

type StorageConfig struct {
	// Dir is the application files dir. Audio lands in Dir/Subdir.
	Dir    string `mapstructure:"dir"`
	Subdir string `mapstructure:"subdir"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type BotConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ResultConfig struct {
	Format string `mapstructure:"format"`
}

// PayloadFormat returns the configured result shape.
func (c *Config) PayloadFormat() downloader.PayloadFormat {
	f, _ := downloader.ParsePayloadFormat(c.Result.Format)
	return f
}

// Load reads configuration from file (if any), TUNEGRAB_* environment variables
// and defaults. An explicit configFile must exist. A .env file in the working
// directory fills in environment variables that are not already set.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy variable names
	if err := v.BindEnv("telegram.token", envPrefix+"_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind TELEGRAM_BOT_TOKEN: %w", err)
	}
	if err := v.BindEnv("database.path", envPrefix+"_DATABASE_PATH", "DB_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PATH: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(appName)
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	dataDir := defaultDataDir()
	v.SetDefault("storage.dir", dataDir)
	v.SetDefault("storage.subdir", downloader.DefaultSubdir)
	v.SetDefault("database.path", filepath.Join(dataDir, "library.db"))
	v.SetDefault("telegram.token", "")
	v.SetDefault("bot.poll_interval", 2*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("result.format", string(downloader.PayloadFull))
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", appName)
	}
	return filepath.Join(os.TempDir(), appName)
}

// Validate checks values that would otherwise fail deep inside a download.
func (c *Config) Validate() error {
	if c.Storage.Dir == "" {
		return errors.New("storage.dir must not be empty")
	}
	if c.Storage.Subdir == "" || c.Storage.Subdir != filepath.Base(c.Storage.Subdir) || c.Storage.Subdir == ".." {
		return fmt.Errorf("storage.subdir must be a single directory name, got %q", c.Storage.Subdir)
	}
	if c.Database.Path == "" {
		return errors.New("database.path must not be empty")
	}
	if c.Bot.PollInterval <= 0 {
		return fmt.Errorf("bot.poll_interval must be positive, got %s", c.Bot.PollInterval)
	}
	if _, ok := downloader.ParsePayloadFormat(c.Result.Format); !ok {
		return fmt.Errorf("result.format must be one of full, path, status, got %q", c.Result.Format)
	}
	return nil
}
