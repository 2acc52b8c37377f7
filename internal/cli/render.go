package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lov3b/irc-render/pkg/cache"
	"github.com/lov3b/irc-render/pkg/errors"
	"github.com/lov3b/irc-render/pkg/layout"
	"github.com/lov3b/irc-render/pkg/pipeline"
	"github.com/lov3b/irc-render/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
// Only flags the user actually set override the config file.
type renderOpts struct {
	title          string  // document title, defaults to the input stem
	pageSize       string  // A4 or Letter
	fontSize       float64 // body font size in points
	margin         float64 // page margin in points
	maxImageWidth  float64 // image box width in points
	maxImageHeight float64 // image box height in points
	format         string  // pdf or json
	font           string  // TrueType font name or path, "core" for Courier
	noImages       bool    // render image URLs as text
	cache          bool    // enable the response cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		pageSize:       render.A4.Name,
		fontSize:       layout.DefaultFontSize,
		margin:         layout.DefaultMargin,
		maxImageWidth:  layout.DefaultMaxImageWidth,
		maxImageHeight: layout.DefaultMaxImageHeight,
		format:         pipeline.FormatPDF,
	}

	cmd := &cobra.Command{
		Use:   "render <input> [output]",
		Short: "Render an IRC log to PDF",
		Long: `Render a plain-text IRC transcript to a paginated PDF.

The output defaults to the input path with a .pdf (or .json) extension and
the title to the input file name without extension. Image URLs in messages
are downloaded and embedded unless --no-images is given.`,
		Example: `  irc-render render go-nuts.log
  irc-render render go-nuts.log out.pdf --page-size Letter -t "#go-nuts"
  irc-render render go-nuts.log --format json --no-images`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) > 1 {
				output = args[1]
			}
			return c.runRender(cmd, args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "document title (default: input file name)")
	cmd.Flags().StringVar(&opts.pageSize, "page-size", opts.pageSize, "page size: A4, Letter")
	cmd.Flags().Float64Var(&opts.fontSize, "font-size", opts.fontSize, "font size in points")
	cmd.Flags().Float64Var(&opts.margin, "margin", opts.margin, "page margin in points")
	cmd.Flags().Float64Var(&opts.maxImageWidth, "max-image-width", opts.maxImageWidth, "maximum image width in points")
	cmd.Flags().Float64Var(&opts.maxImageHeight, "max-image-height", opts.maxImageHeight, "maximum image height in points")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: pdf, json")
	cmd.Flags().StringVar(&opts.font, "font", "", "TrueType font to embed, or \"core\" for Courier (default: first installed monospace font)")
	cmd.Flags().BoolVar(&opts.noImages, "no-images", false, "do not download images")
	cmd.Flags().BoolVar(&opts.cache, "cache", false, "cache downloaded images")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input, output string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	popts, err := c.renderOptions(cmd, input, opts)
	if err != nil {
		return err
	}
	if output == "" {
		output = defaultOutput(input, popts.Format)
	}

	runner := c.newRunner(ctx, c.config.Cache.Enabled || opts.cache)
	defer runner.Close()

	prog := newProgress(logger)
	stats, err := runner.RenderFile(ctx, input, output, popts)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("render %s: %s", input, errors.UserMessage(err))
	}
	prog.done("Rendered " + filepath.Base(input))

	printSuccess("Rendered %d lines on %d pages", stats.Lines, stats.Pages)
	printFile(output)
	if stats.Images > 0 {
		printDetail("%d images embedded", stats.Images)
	}
	if stats.ImageFailures > 0 {
		printWarning("%d images could not be embedded and were left as links", stats.ImageFailures)
	}
	return nil
}

// renderOptions merges defaults, the config file and the flags that were
// set, in increasing order of precedence.
func (c *CLI) renderOptions(cmd *cobra.Command, input string, opts renderOpts) (pipeline.Options, error) {
	fc := c.config
	set := cmd.Flags().Changed

	pageSize := pick(set("page-size"), opts.pageSize, fc.PageSize, render.A4.Name)
	size, err := render.ParsePageSize(pageSize)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "page size")
	}

	cfg := layout.DefaultConfig()
	cfg.PageSize = size
	cfg.Title = pick(set("title"), opts.title, "", stem(input))
	cfg.FontSize = pick(set("font-size"), opts.fontSize, fc.FontSize, cfg.FontSize)
	cfg.Margin = pick(set("margin"), opts.margin, fc.Margin, cfg.Margin)
	cfg.MaxImageWidth = pick(set("max-image-width"), opts.maxImageWidth, fc.MaxImageWidth, cfg.MaxImageWidth)
	cfg.MaxImageHeight = pick(set("max-image-height"), opts.maxImageHeight, fc.MaxImageHeight, cfg.MaxImageHeight)

	popts := pipeline.Options{
		Layout:    cfg,
		Format:    strings.ToLower(pick(set("format"), opts.format, fc.Format, pipeline.FormatPDF)),
		Font:      pick(set("font"), opts.font, fc.Font, ""),
		NoImages:  pick(set("no-images"), opts.noImages, fc.NoImages, false),
		MaxPixels: fc.Fetch.MaxPixels,
		UserAgent: fc.Fetch.UserAgent,
		CacheTTL:  fc.Cache.TTL.Duration,
		Logger:    loggerFromContext(cmd.Context()),
	}
	popts.Limits.MaxBytes = fc.Fetch.MaxBytes
	popts.Limits.Timeout = fc.Fetch.Timeout.Duration

	if err := popts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return popts, nil
}

// pick returns the flag value when the flag was set, else the file value
// when it is non-zero, else def.
func pick[T comparable](flagSet bool, flag, file, def T) T {
	var zero T
	switch {
	case flagSet:
		return flag
	case file != zero:
		return file
	}
	return def
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// defaultOutput swaps the input's extension for the format's. An input that
// already carries that extension gets a second one instead.
func defaultOutput(input, format string) string {
	ext := filepath.Ext(input)
	if strings.EqualFold(ext, "."+format) {
		return input + "." + format
	}
	return strings.TrimSuffix(input, ext) + "." + format
}

// newRunner creates a pipeline runner for CLI use. A cache that cannot be
// opened is logged and rendering continues without it.
func (c *CLI) newRunner(ctx context.Context, useCache bool) *pipeline.Runner {
	logger := loggerFromContext(ctx)
	var rc cache.Cache
	if useCache {
		var err error
		rc, err = c.openCache(ctx)
		if err != nil {
			logger.Warn("image cache disabled", "err", err)
			rc = nil
		}
	}
	return pipeline.NewRunner(rc, nil, logger)
}
