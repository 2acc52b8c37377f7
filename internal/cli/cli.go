// Package cli implements the irc-render command-line interface.
//
// # Commands
//
//   - render: Render an IRC transcript to PDF (or a JSON layout dump)
//   - cache: Inspect and clear the image response cache
//
// # Configuration
//
// Settings come from flags, the IRC_RENDER_LOG_LEVEL environment variable,
// and an optional TOML file at $XDG_CONFIG_HOME/irc-render/config.toml, in
// that order of precedence.
//
// # Logging
//
// Logs go to stderr through charmbracelet/log. --verbose (-v) forces debug
// level. The logger travels in the command context (see loggerFromContext).
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lov3b/irc-render/pkg/buildinfo"
	"github.com/lov3b/irc-render/pkg/cache"
	"github.com/lov3b/irc-render/pkg/errors"
)

const (
	// appName is the application name used for directories and display.
	appName = "irc-render"

	// envLogLevel overrides the configured log level.
	envLogLevel = "IRC_RENDER_LOG_LEVEL"

	// redisPrefix namespaces cache keys in a shared Redis.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	logLevel   string
	verbose    bool

	// config is loaded before any command runs.
	config fileConfig
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "irc-render typesets IRC logs as paginated PDFs",
		Long:         `irc-render reads plain-text IRC transcripts and lays them out as paginated PDF documents, with colored nicknames and inline images.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/irc-render/config.toml)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error (default $"+envLogLevel+" or info)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// setup loads the config file, settles the log level and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg

	level, err := c.resolveLogLevel()
	if err != nil {
		return err
	}
	c.SetLogLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// resolveLogLevel applies flag > env > file > info.
func (c *CLI) resolveLogLevel() (log.Level, error) {
	if c.verbose {
		return log.DebugLevel, nil
	}
	name := "info"
	for _, candidate := range []string{c.logLevel, os.Getenv(envLogLevel), c.config.LogLevel} {
		if candidate != "" {
			name = candidate
			break
		}
	}
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "log level %q", name)
	}
	return level, nil
}

// openCache opens the configured response cache. Redis is used when an
// address is configured, the file cache otherwise.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	if addr := c.config.Cache.RedisAddr; addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     addr,
			Password: c.config.Cache.RedisPassword,
			DB:       c.config.Cache.RedisDB,
			Prefix:   redisPrefix,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", addr)
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// cacheDir is the file cache directory: the configured one, or the XDG
// default.
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/irc-render/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory (~/.config/irc-render/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
