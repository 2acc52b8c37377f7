package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lov3b/irc-render/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, `
page_size = "Letter"
font_size = 10
log_level = "debug"
no_images = true

[fetch]
timeout = "3s"
max_bytes = 1048576

[cache]
enabled = true
ttl = "24h"
redis_addr = "localhost:6379"
redis_db = 2
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.PageSize != "Letter" || cfg.FontSize != 10 || cfg.LogLevel != "debug" || !cfg.NoImages {
		t.Errorf("top level = %+v", cfg)
	}
	if cfg.Fetch.Timeout.Duration != 3*time.Second || cfg.Fetch.MaxBytes != 1<<20 {
		t.Errorf("fetch = %+v", cfg.Fetch)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL.Duration != 24*time.Hour || cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "page_size = ", errors.ErrCodeInvalidConfig},
		{"unknown key", "colour = \"red\"", errors.ErrCodeInvalidConfig},
		{"bad duration", "[fetch]\ntimeout = \"soon\"", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			writeFile(t, path, tt.content)
			if _, err := loadConfig(path); !errors.Is(err, tt.code) {
				t.Errorf("loadConfig() error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := loadConfig(filepath.Join(dir, "absent.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file: error = %v", err)
	}
}

func TestLoadConfigDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	cfg, err := loadConfig("")
	if err != nil || cfg != (fileConfig{}) {
		t.Fatalf("absent default config: cfg=%+v err=%v", cfg, err)
	}

	writeFile(t, filepath.Join(home, appName, configFileName), `margin = 20`)
	cfg, err = loadConfig("")
	if err != nil || cfg.Margin != 20 {
		t.Errorf("default config: cfg=%+v err=%v", cfg, err)
	}
}

func TestResolveLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		env     string
		file    string
		verbose bool
		want    log.Level
		wantErr bool
	}{
		{name: "default", want: log.InfoLevel},
		{name: "file", file: "warn", want: log.WarnLevel},
		{name: "env beats file", env: "error", file: "warn", want: log.ErrorLevel},
		{name: "flag beats env", flag: "debug", env: "error", want: log.DebugLevel},
		{name: "verbose beats all", flag: "error", verbose: true, want: log.DebugLevel},
		{name: "case insensitive", flag: "WARN", want: log.WarnLevel},
		{name: "invalid", flag: "chatty", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(envLogLevel, tt.env)
			c := &CLI{logLevel: tt.flag, verbose: tt.verbose}
			c.config.LogLevel = tt.file

			got, err := c.resolveLogLevel()
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveLogLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("resolveLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
