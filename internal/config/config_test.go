package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/artur/tunegrab/internal/downloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "DB_PATH",
		"TUNEGRAB_TELEGRAM_TOKEN", "TUNEGRAB_DATABASE_PATH", "TUNEGRAB_STORAGE_DIR",
		"TUNEGRAB_LOG_LEVEL", "TUNEGRAB_RESULT_FORMAT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	// Keep "." lookups away from any tunegrab.yaml in the package dir
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	dataDir := filepath.Join(os.Getenv("XDG_DATA_HOME"), "tunegrab")
	assert.Equal(t, dataDir, cfg.Storage.Dir)
	assert.Equal(t, downloader.DefaultSubdir, cfg.Storage.Subdir)
	assert.Equal(t, filepath.Join(dataDir, "library.db"), cfg.Database.Path)
	assert.Equal(t, 2*time.Second, cfg.Bot.PollInterval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, downloader.PayloadFull, cfg.PayloadFormat())
	assert.Empty(t, cfg.Telegram.Token)
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("TUNEGRAB_STORAGE_DIR", "/srv/audio")
	t.Setenv("TUNEGRAB_LOG_LEVEL", "debug")
	t.Setenv("TUNEGRAB_RESULT_FORMAT", "path")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/audio", cfg.Storage.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, downloader.PayloadPath, cfg.PayloadFormat())
}

func TestLoad_LegacyEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("DB_PATH", "/data/bot.db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, "/data/bot.db", cfg.Database.Path)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("TELEGRAM_BOT_TOKEN=from-dotenv\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Telegram.Token)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	isolate(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	require.NoError(t, os.WriteFile(".env", []byte("TELEGRAM_BOT_TOKEN=from-dotenv\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "tunegrab.yaml")
	content := `
storage:
  dir: /var/lib/tunegrab
  subdir: songs
bot:
  poll_interval: 500ms
result:
  format: status
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/tunegrab", cfg.Storage.Dir)
	assert.Equal(t, "songs", cfg.Storage.Subdir)
	assert.Equal(t, 500*time.Millisecond, cfg.Bot.PollInterval)
	assert.Equal(t, downloader.PayloadStatus, cfg.PayloadFormat())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage:  StorageConfig{Dir: "/data", Subdir: "media_cache"},
			Database: DatabaseConfig{Path: "/data/library.db"},
			Bot:      BotConfig{PollInterval: time.Second},
			Result:   ResultConfig{Format: "full"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty storage dir", func(c *Config) { c.Storage.Dir = "" }, true},
		{"nested subdir", func(c *Config) { c.Storage.Subdir = "a/b" }, true},
		{"parent subdir", func(c *Config) { c.Storage.Subdir = ".." }, true},
		{"empty database path", func(c *Config) { c.Database.Path = "" }, true},
		{"zero poll interval", func(c *Config) { c.Bot.PollInterval = 0 }, true},
		{"unknown result format", func(c *Config) { c.Result.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
