package images

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/lov3b/irc-render/pkg/errors"
	"github.com/lov3b/irc-render/pkg/render"
)

// DefaultMaxPixels rejects images whose decoded size would exceed roughly
// 160 MB of RGBA.
const DefaultMaxPixels = 40_000_000

// InlineImage is a resolved image ready to embed.
type InlineImage struct {
	Data []byte
	// Format is "png", "jpeg" or "gif" after transcoding.
	Format string
	Width  int
	Height int
	URL    string
}

// Image returns the payload in the form a render.Surface draws.
func (i InlineImage) Image() render.Image {
	return render.Image{Data: i.Data, Format: i.Format, Width: i.Width, Height: i.Height}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLimits sets the download bounds. The default is DefaultLimits.
func WithLimits(l Limits) Option { return func(r *Resolver) { r.limits = l } }

// WithMaxPixels sets the decompression-bomb guard; 0 disables it.
func WithMaxPixels(n int) Option { return func(r *Resolver) { r.maxPixels = n } }

// WithLogger sets the logger. Failures are logged at info level.
func WithLogger(l *log.Logger) Option { return func(r *Resolver) { r.logger = l } }

// Resolver turns URLs into inline images. It holds no per-URL state; a URL
// that appears twice is fetched twice unless the Fetcher caches.
type Resolver struct {
	fetcher   Fetcher
	limits    Limits
	maxPixels int
	logger    *log.Logger
}

// NewResolver creates a resolver fetching through f.
func NewResolver(f Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:   f,
		limits:    DefaultLimits(),
		maxPixels: DefaultMaxPixels,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve downloads and decodes url. URLs without an image extension are
// never fetched. Any failure returns false.
func (r *Resolver) Resolve(ctx context.Context, url string) (InlineImage, bool) {
	if !LooksLikeImageURL(url) {
		return InlineImage{}, false
	}

	r.logger.Debug("downloading image", "url", url)
	data, err := r.fetcher.Fetch(ctx, url, r.limits)
	if err != nil {
		r.logger.Info("image download failed", "url", url, "err", err)
		return InlineImage{}, false
	}

	img, err := Decode(data, r.maxPixels)
	if err != nil {
		r.logger.Info("image rejected", "url", url, "bytes", len(data), "err", err)
		return InlineImage{}, false
	}
	img.URL = url

	r.logger.Debug("image resolved", "url", url, "format", img.Format,
		"width", img.Width, "height", img.Height, "bytes", len(img.Data))
	return img, true
}

// Decode sniffs the payload type, reads its dimensions and transcodes
// formats a PDF cannot embed to PNG. maxPixels of 0 disables the size guard.
func Decode(data []byte, maxPixels int) (InlineImage, error) {
	format, transcode := "", false
	mt := mimetype.Detect(data)
	for m := mt; m != nil && format == ""; m = m.Parent() {
		switch m.String() {
		case "image/png":
			format = "png"
		case "image/jpeg":
			format = "jpeg"
		case "image/gif":
			format = "gif"
		case "image/webp", "image/bmp", "image/tiff":
			format, transcode = "png", true
		}
	}
	if format == "" {
		return InlineImage{}, errors.New(errors.ErrCodeUnsupported, "unsupported content type %s", mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return InlineImage{}, errors.Wrap(errors.ErrCodeDecode, err, "read %s header", mt.String())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return InlineImage{}, errors.New(errors.ErrCodeDecode, "invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if maxPixels > 0 && cfg.Width*cfg.Height > maxPixels {
		return InlineImage{}, errors.New(errors.ErrCodeTooLarge, "%dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxPixels)
	}

	if transcode {
		data, err = toPNG(data)
		if err != nil {
			return InlineImage{}, errors.Wrap(errors.ErrCodeDecode, err, "transcode %s", mt.String())
		}
	}
	return InlineImage{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func toPNG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
