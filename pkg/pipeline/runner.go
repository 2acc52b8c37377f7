package pipeline

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/lov3b/irc-render/pkg/buildinfo"
	"github.com/lov3b/irc-render/pkg/cache"
	"github.com/lov3b/irc-render/pkg/errors"
	"github.com/lov3b/irc-render/pkg/fonts"
	"github.com/lov3b/irc-render/pkg/images"
	"github.com/lov3b/irc-render/pkg/irclog"
	"github.com/lov3b/irc-render/pkg/layout"
	"github.com/lov3b/irc-render/pkg/observability"
	"github.com/lov3b/irc-render/pkg/render"
	"github.com/lov3b/irc-render/pkg/render/sink"
)

// Runner executes renders. It holds the response cache and logger and no
// per-render state, so one Runner can serve several renders in turn.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If cache is nil, a NullCache is used (caching disabled).
// If keyer is nil, image URLs are hashed with the fetch byte cap.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Render reads a transcript from in and draws it onto surface, closing the
// surface when done.
func (r *Runner) Render(ctx context.Context, in io.Reader, surface render.Surface, opts Options) (Stats, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Stats{}, err
	}
	return r.render(ctx, "", in, surface, opts)
}

// RenderFile renders the transcript at inPath into outPath in opts.Format.
// A render that fails after the output was created removes it.
func (r *Runner) RenderFile(ctx context.Context, inPath, outPath string, opts Options) (stats Stats, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Stats{}, err
	}
	for _, p := range []string{inPath, outPath} {
		if err := errors.ValidatePath(p); err != nil {
			return Stats{}, err
		}
	}

	in, err := os.Open(inPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Stats{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open input")
		}
		return Stats{}, errors.Wrap(errors.ErrCodeIO, err, "open input")
	}
	defer in.Close()

	if err := checkDistinct(in, outPath); err != nil {
		return Stats{}, err
	}
	if opts.Created.IsZero() {
		opts.Created = documentTime(in, opts.Logger)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return Stats{}, errors.Wrap(errors.ErrCodeIO, err, "create output")
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeIO, cerr, "write output")
		}
		if err != nil {
			_ = os.Remove(outPath)
		}
	}()

	surface, err := r.newSurface(out, opts)
	if err != nil {
		return Stats{}, err
	}
	return r.render(ctx, inPath, in, surface, opts)
}

func (r *Runner) newSurface(w io.Writer, opts Options) (render.Surface, error) {
	size := opts.Layout.PageSize
	if opts.Format == FormatJSON {
		return sink.NewRecorder(size, sink.WithOutput(w)), nil
	}

	pdfOpts := []sink.PDFOption{
		sink.WithTitle(opts.Layout.Title),
		sink.WithCreator(buildinfo.Creator()),
	}
	if !opts.Created.IsZero() {
		pdfOpts = append(pdfOpts, sink.WithCreationDate(opts.Created))
	}
	face, err := fonts.Lookup(opts.Font)
	if err != nil {
		opts.Logger.Warn("font not available, using Courier", "font", opts.Font, "err", err)
		face = fonts.Core()
	}
	pdf, err := sink.NewPDF(w, size, append(pdfOpts, sink.WithFont(face))...)
	if err != nil && !face.IsCore() {
		opts.Logger.Warn("font could not be embedded, using Courier", "font", face.Path, "err", err)
		pdf, err = sink.NewPDF(w, size, append(pdfOpts, sink.WithFont(fonts.Core()))...)
	}
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("pdf surface ready", "font", face.Name, "page_size", size.Name)
	return pdf, nil
}

// checkDistinct refuses an output path that names the input file, which
// os.Create would truncate before the first line is read.
func checkDistinct(in *os.File, outPath string) error {
	inInfo, err := in.Stat()
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "stat input")
	}
	outInfo, err := os.Stat(outPath)
	if err != nil {
		return nil
	}
	if os.SameFile(inInfo, outInfo) {
		return errors.New(errors.ErrCodeInvalidInput, "output %s would overwrite the input", outPath)
	}
	return nil
}

// documentTime picks the timestamp stamped into the document.
func documentTime(in *os.File, logger *log.Logger) time.Time {
	if v := os.Getenv(EnvSourceDateEpoch); v != "" {
		sec, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return time.Unix(sec, 0).UTC()
		}
		logger.Warn("ignoring invalid "+EnvSourceDateEpoch, "value", v, "err", err)
	}
	info, err := in.Stat()
	if err != nil {
		return time.Time{}
	}
	return info.ModTime().UTC().Truncate(time.Second)
}

func (r *Runner) render(ctx context.Context, input string, in io.Reader, surface render.Surface, opts Options) (stats Stats, err error) {
	start := time.Now()
	stats.Session = uuid.NewString()
	logger := opts.Logger.With("session", stats.Session[:8])
	hooks := observability.Render()

	hooks.OnRenderStart(ctx, stats.Session, input)
	defer func() {
		stats.Duration = time.Since(start)
		hooks.OnRenderComplete(ctx, stats.Session, observability.RenderSummary{
			Lines:         stats.Lines,
			Pages:         stats.Pages,
			Images:        stats.Images,
			ImageFailures: stats.ImageFailures,
		}, stats.Duration, err)
	}()

	engine, err := layout.New(surface, r.resolver(opts, logger), opts.Layout, layout.WithLogger(logger))
	if err != nil {
		return stats, err
	}
	record := func() {
		s := engine.Stats()
		stats.Lines, stats.Pages = s.Lines, s.Pages
		stats.Images, stats.ImageFailures = s.Images, s.ImageFailures
	}

	lines := bufio.NewReader(transform.NewReader(in, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	for {
		line, rerr := lines.ReadString('\n')
		if line != "" {
			if err := engine.Place(ctx, irclog.Classify(line)); err != nil {
				record()
				return stats, err
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			record()
			return stats, errors.Wrap(errors.ErrCodeIO, rerr, "read input")
		}
	}

	err = engine.Finish()
	record()
	if err != nil {
		return stats, errors.Wrap(errors.ErrCodeIO, err, "finish document")
	}

	logger.Info("rendered transcript",
		"lines", stats.Lines,
		"pages", stats.Pages,
		"images", stats.Images,
		"image_failures", stats.ImageFailures,
		"duration", time.Since(start))
	return stats, nil
}

// resolver builds the image resolver for one render; nil disables images.
func (r *Runner) resolver(opts Options, logger *log.Logger) layout.Resolver {
	if opts.NoImages {
		return nil
	}
	f := opts.Fetcher
	if f == nil {
		f = images.NewHTTPFetcher(opts.HTTPClient, opts.UserAgent)
	}
	if _, off := r.Cache.(*cache.NullCache); r.Cache != nil && !off {
		keyer := r.Keyer
		if keyer == nil {
			keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(opts.Limits.MaxBytes), cacheSchema)
		}
		f = images.NewCachedFetcher(f, r.Cache, keyer, opts.CacheTTL, logger)
	}
	return images.NewResolver(f,
		images.WithLimits(opts.Limits),
		images.WithMaxPixels(opts.MaxPixels),
		images.WithLogger(logger))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
