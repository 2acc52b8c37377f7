package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lov3b/irc-render/pkg/errors"
)

// configFileName is looked up in configDir when --config is not given.
const configFileName = "config.toml"

// fileConfig mirrors config.toml. Zero values mean "not set".
//
//	page_size = "Letter"
//	font_size = 10
//	log_level = "debug"
//
//	[fetch]
//	timeout = "5s"
//
//	[cache]
//	enabled = true
//	redis_addr = "localhost:6379"
type fileConfig struct {
	PageSize       string  `toml:"page_size"`
	FontSize       float64 `toml:"font_size"`
	Margin         float64 `toml:"margin"`
	MaxImageWidth  float64 `toml:"max_image_width"`
	MaxImageHeight float64 `toml:"max_image_height"`
	LogLevel       string  `toml:"log_level"`
	Font           string  `toml:"font"`
	Format         string  `toml:"format"`
	NoImages       bool    `toml:"no_images"`

	Fetch fetchConfig `toml:"fetch"`
	Cache cacheConfig `toml:"cache"`
}

type fetchConfig struct {
	Timeout   duration `toml:"timeout"`
	MaxBytes  int64    `toml:"max_bytes"`
	MaxPixels int      `toml:"max_pixels"`
	UserAgent string   `toml:"user_agent"`
}

type cacheConfig struct {
	Enabled       bool     `toml:"enabled"`
	Dir           string   `toml:"dir"`
	TTL           duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

// duration decodes Go duration strings such as "7s" or "168h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// loadConfig reads the config file. An explicit path must exist; the
// default location may be absent.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file")
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
