// Package pipeline turns an IRC transcript into a rendered document.
//
// The pipeline reads the transcript line by line, classifies each line
// ([irclog.Classify]) and hands it to a [layout.Engine], which draws onto a
// [render.Surface]. Image URLs are resolved through a fetcher that can be
// backed by a response cache.
//
// # Usage
//
// Render a file to PDF:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	opts := pipeline.Options{Layout: layout.DefaultConfig()}
//	opts.Layout.Title = "#go-nuts"
//	stats, err := runner.RenderFile(ctx, "go-nuts.log", "go-nuts.pdf", opts)
//
// Render into any surface:
//
//	rec := sink.NewRecorder(render.A4)
//	stats, err := runner.Render(ctx, strings.NewReader(log), rec, opts)
//
// Opening the input and creating the output are the only fatal failures.
// Lines that cannot be classified render as plain text, and images that
// cannot be fetched or decoded render as their URL.
package pipeline

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lov3b/irc-render/pkg/buildinfo"
	"github.com/lov3b/irc-render/pkg/errors"
	"github.com/lov3b/irc-render/pkg/images"
	"github.com/lov3b/irc-render/pkg/layout"
)

// Output formats.
const (
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultCacheTTL is how long fetched images stay in the response cache.
const DefaultCacheTTL = 7 * 24 * time.Hour

// EnvSourceDateEpoch is the reproducible-builds variable that pins
// document timestamps.
const EnvSourceDateEpoch = "SOURCE_DATE_EPOCH"

// cacheSchema versions cached image entries. Bump it when the stored
// payload changes shape.
const cacheSchema = "v1:"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: pdf, json)", format)
	}
	return nil
}

// Options configures a render.
type Options struct {
	// Layout is the page geometry and title.
	Layout layout.Config

	// Format selects the output written by RenderFile.
	Format string

	// Font names a TrueType font to embed. Empty picks an installed
	// monospace font, "core" forces Courier.
	Font string

	// NoImages renders every URL as text without fetching.
	NoImages bool

	// Created pins the PDF creation and modification dates. RenderFile
	// fills a zero value from SOURCE_DATE_EPOCH, or else from the input
	// file's modification time.
	Created time.Time

	Limits    images.Limits
	MaxPixels int
	UserAgent string

	// CacheTTL applies to the runner's response cache.
	CacheTTL time.Duration

	// Runtime options
	Logger     *log.Logger
	HTTPClient *http.Client
	// Fetcher replaces the HTTP fetcher.
	Fetcher images.Fetcher

	validated bool
}

// ValidateAndSetDefaults checks the options and fills zero values.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = FormatPDF
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Limits.MaxBytes <= 0 {
		o.Limits.MaxBytes = images.DefaultMaxBytes
	}
	if o.Limits.Timeout <= 0 {
		o.Limits.Timeout = images.DefaultTimeout
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = images.DefaultMaxPixels
	}
	if o.UserAgent == "" {
		o.UserAgent = buildinfo.UserAgent()
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Stats describes a finished render.
type Stats struct {
	// Session identifies the render in logs and hooks.
	Session string

	Lines         int
	Pages         int
	Images        int
	ImageFailures int

	Duration time.Duration
}
