package layout

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lov3b/irc-render/pkg/errors"
	"github.com/lov3b/irc-render/pkg/images"
	"github.com/lov3b/irc-render/pkg/irclog"
	"github.com/lov3b/irc-render/pkg/nickcolor"
	"github.com/lov3b/irc-render/pkg/observability"
	"github.com/lov3b/irc-render/pkg/render"
)

const (
	lineSpacing = 1.4
	// imageLift raises an image above the current baseline, in font sizes.
	imageLift = 0.3
	// minTextColumn is the narrowest body column a line prefix may leave.
	minTextColumn = 50
)

func grey(v uint8) colorful.Color {
	f := float64(v) / 255
	return colorful.Color{R: f, G: f, B: f}
}

var (
	inkBlack     = colorful.Color{}
	inkTimestamp = grey(0x66)
	inkSystem    = grey(0x66)
	inkAction    = grey(0x44)
	inkMarker    = grey(0x88)
	inkFooter    = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
)

// Resolver turns an image URL into an embeddable image.
type Resolver interface {
	Resolve(ctx context.Context, url string) (images.InlineImage, bool)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Page breaks are logged at debug level and
// images that cannot be embedded at info.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// Engine places classified lines onto a surface page by page. It is not
// safe for concurrent use; lines must be placed in input order.
type Engine struct {
	surface  render.Surface
	resolver Resolver
	cfg      Config
	logger   *log.Logger
	ctx      context.Context

	st    State
	stats Stats

	// rowDrawn is set once the current line has put something on a row
	// below its prefix; later rows may then break the page.
	rowDrawn bool
}

// New creates an engine and opens the first page. A nil resolver renders
// every URL as text.
func New(s render.Surface, r Resolver, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		surface:  s,
		resolver: r,
		cfg:      cfg,
		logger:   log.Default(),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}

	fs := cfg.FontSize
	e.st = State{
		Left:   cfg.Margin,
		Right:  cfg.PageSize.Width - cfg.Margin,
		Top:    cfg.PageSize.Height - cfg.Margin,
		Bottom: cfg.Margin,
	}
	e.st.ContentTop = contentTop(e.st.Top, fs)
	e.st.TimestampWidth = s.StringWidth("[00:00] ", fs) * 1.1
	e.st.NickWidth = s.StringWidth("<nick> ", fs)
	e.st.NickCap = e.st.Right - e.st.Left - e.st.TimestampWidth - minTextColumn
	if e.st.NickWidth > e.st.NickCap {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"page is too narrow for a nick column: %.1f pt available, %.1f pt needed", e.st.NickCap, e.st.NickWidth)
	}

	e.openPage()
	return e, nil
}

// State returns a snapshot of the cursor and geometry.
func (e *Engine) State() State { return e.st }

// Stats returns counters for the lines placed so far.
func (e *Engine) Stats() Stats { return e.stats }

// Place lays out one line. The page is broken before the line when fewer
// than two rows remain, so a line's prefix is never split from its first
// row. Image downloads block; ctx bounds them.
func (e *Engine) Place(ctx context.Context, line irclog.Line) error {
	if e.st.Phase == PhaseDone {
		return errors.New(errors.ErrCodeInternal, "place after finish")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.ctx = ctx
	e.stats.Lines++
	e.rowDrawn = false

	fs := e.cfg.FontSize
	if line.HasAuthor() {
		e.growNick(line.Author)
	}
	if e.st.Y < e.st.Bottom+2*fs {
		e.breakPage()
	}

	x := e.st.Left
	if line.Timestamp != "" {
		ts := "[" + line.Timestamp + "] "
		e.surface.DrawText(x, e.st.Y, ts, fs, inkTimestamp)
		x += e.width(ts)
	} else {
		x += e.st.TimestampWidth * 0.4
	}
	x = e.placePrefix(line, x)

	e.placeBody(line.Body, x, e.st.Right-x, bodyInk(line.Kind))
	if !e.rowDrawn {
		e.st.Y -= lineSpacing * fs
	}
	return nil
}

// placePrefix draws the author label or kind marker and returns where the
// body starts. The label gets the nick column, shortened when a wide
// timestamp or the action star would leave less than minTextColumn for
// the body.
func (e *Engine) placePrefix(line irclog.Line, x float64) float64 {
	fs := e.cfg.FontSize
	column := func(x float64) float64 {
		return max(0, min(e.st.NickWidth, e.st.Right-minTextColumn-x))
	}
	switch line.Kind {
	case irclog.KindMessage:
		if line.HasAuthor() {
			w := column(x)
			label := truncate(line.Author, w, e.width, func(n string) string { return "<" + n + "> " })
			e.surface.DrawText(x, e.st.Y, label, fs, nickcolor.Of(line.Author))
			return x + w
		}
	case irclog.KindAction:
		if line.HasAuthor() {
			const star = "* "
			e.surface.DrawText(x, e.st.Y, star, fs, inkAction)
			x += e.width(star)
			w := column(x)
			label := truncate(line.Author, w, e.width, func(n string) string { return n + " " })
			e.surface.DrawText(x, e.st.Y, label, fs, nickcolor.Of(line.Author))
			return x + w
		}
	case irclog.KindSystem, irclog.KindRaw:
	}
	const marker = "— "
	e.surface.DrawText(x, e.st.Y, marker, fs, inkMarker)
	return x + e.width(marker)
}

func bodyInk(k irclog.Kind) colorful.Color {
	switch k {
	case irclog.KindSystem:
		return inkSystem
	case irclog.KindAction:
		return inkAction
	case irclog.KindMessage, irclog.KindRaw:
		return inkBlack
	}
	return inkBlack
}

func (e *Engine) growNick(author string) {
	w := e.width("<" + author + "> ")
	if w > e.st.NickWidth {
		e.st.NickWidth = min(w, e.st.NickCap)
	}
}

// Finish draws the last footer and closes the surface. The engine accepts
// no lines afterwards.
func (e *Engine) Finish() error {
	if e.st.Phase == PhaseDone {
		return errors.New(errors.ErrCodeInternal, "finish called twice")
	}
	e.closePage()
	e.st.Phase = PhaseDone
	e.stats.Pages = e.st.Page
	return e.surface.Close()
}

func (e *Engine) openPage() {
	e.surface.NewPage()
	e.st.Page++
	e.st.Phase = PhaseOpen
	e.stats.Pages = e.st.Page

	size := e.cfg.FontSize + 3
	if e.cfg.Title != "" {
		measure := func(s string) float64 { return e.surface.StringWidth(s, size) }
		title := truncate(e.cfg.Title, e.st.Right-e.st.Left, measure, func(s string) string { return s })
		e.surface.DrawText(e.st.Left, e.st.Top, title, size, inkBlack)
	}
	e.st.Y = e.st.ContentTop
}

func (e *Engine) closePage() {
	e.st.Phase = PhaseClosing
	size := e.cfg.FontSize - 2
	label := fmt.Sprintf("Page %d", e.st.Page)
	x := e.st.Right - e.surface.StringWidth(label, size)
	e.surface.DrawText(x, e.st.Bottom, label, size, inkFooter)

	e.logger.Debug("page finished", "page", e.st.Page)
	observability.Render().OnPageBreak(e.ctx, e.st.Page)
}

func (e *Engine) breakPage() {
	e.closePage()
	e.openPage()
}

// ensureSpace breaks the page unless need points remain above the bottom
// margin.
func (e *Engine) ensureSpace(need float64) {
	if e.st.Y < e.st.Bottom+need {
		e.breakPage()
	}
}

func (e *Engine) width(s string) float64 {
	return e.surface.StringWidth(s, e.cfg.FontSize)
}

// placeBody draws body text with inline images. Text between image URLs
// is collected, trimmed at segment edges and joined by single spaces, then
// wrapped into the column when an image or the end of the body is reached.
// Pending text is flushed only after an image URL resolves, so a URL that
// fails stays in the same run as the text around it. URLs that are not
// images, or fail to resolve, stay in the text.
func (e *Engine) placeBody(body string, x, avail float64, ink colorful.Color) {
	var pending []string
	flush := func() {
		if len(pending) > 0 {
			e.placeText(strings.Join(pending, " "), x, avail, ink)
			pending = pending[:0]
		}
	}

	for _, seg := range splitURLs(body) {
		if !seg.url || e.resolver == nil || !images.LooksLikeImageURL(seg.text) {
			if t := strings.TrimSpace(seg.text); t != "" {
				pending = append(pending, t)
			}
			continue
		}
		img, ok := e.resolver.Resolve(e.ctx, seg.text)
		if ok {
			flush()
			ok = e.placeImage(img, seg.text, x, avail)
		}
		if !ok {
			e.stats.ImageFailures++
			pending = append(pending, seg.text)
		}
	}
	flush()
}

func (e *Engine) placeText(text string, x, avail float64, ink colorful.Color) {
	fs := e.cfg.FontSize
	for _, row := range Wrap(text, avail, e.width) {
		if e.rowDrawn && e.st.Y < e.st.Bottom+fs {
			e.breakPage()
		}
		e.surface.DrawText(x, e.st.Y, row, fs, ink)
		e.st.Y -= lineSpacing * fs
		e.rowDrawn = true
	}
}

// placeImage draws img at x, scaled into the column, the configured box and
// the page's content height. It reports false when nothing was drawn.
func (e *Engine) placeImage(img images.InlineImage, url string, x, avail float64) bool {
	fs := e.cfg.FontSize
	lift := imageLift * fs
	maxH := min(e.cfg.MaxImageHeight, e.st.ContentTop-e.st.Bottom-fs-lift)
	w, h := Fit(img.Width, img.Height, min(avail, e.cfg.MaxImageWidth), maxH)
	if w <= 0 || h <= 0 {
		e.logger.Info("image does not fit the column", "url", url, "available", avail)
		return false
	}

	e.ensureSpace(h + fs + lift)
	bottom := e.st.Y - h + lift
	if err := e.surface.DrawImage(img.Image(), x, bottom, w, h); err != nil {
		e.logger.Info("image could not be embedded", "url", url, "err", err)
		return false
	}
	e.surface.Link(render.Rect{X: x, Y: bottom, W: w, H: h}, url)

	e.st.Y = bottom - fs
	e.rowDrawn = true
	e.stats.Images++
	return true
}

type segment struct {
	text string
	url  bool
}

// splitURLs cuts body into alternating text and URL segments.
func splitURLs(body string) []segment {
	var segs []segment
	last := 0
	for _, loc := range images.URLPattern.FindAllStringIndex(body, -1) {
		if loc[0] > last {
			segs = append(segs, segment{text: body[last:loc[0]]})
		}
		segs = append(segs, segment{text: body[loc[0]:loc[1]], url: true})
		last = loc[1]
	}
	if last < len(body) {
		segs = append(segs, segment{text: body[last:]})
	}
	return segs
}
