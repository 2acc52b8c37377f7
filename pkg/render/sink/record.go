package sink

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lov3b/irc-render/pkg/render"
)

// CourierAdvance is the advance width of every Courier glyph in em units.
const CourierAdvance = 0.6

// OpKind names a recorded drawing command.
type OpKind string

const (
	OpPage  OpKind = "page"
	OpText  OpKind = "text"
	OpImage OpKind = "image"
	OpLink  OpKind = "link"
)

// Op is one recorded drawing command. For text, (X, Y) is the baseline
// origin and W the measured width; for images and links it is the
// lower-left corner of the box.
type Op struct {
	Page   int     `json:"page"`
	Kind   OpKind  `json:"op"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w,omitempty"`
	H      float64 `json:"h,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Text   string  `json:"text,omitempty"`
	Color  string  `json:"color,omitempty"`
	URL    string  `json:"url,omitempty"`
	Format string  `json:"format,omitempty"`
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithOutput makes Close write the recording as JSON to w.
func WithOutput(w io.Writer) RecorderOption { return func(r *Recorder) { r.out = w } }

// WithImageError makes every DrawImage call fail with err.
func WithImageError(err error) RecorderOption { return func(r *Recorder) { r.imageErr = err } }

// Recorder is a render.Surface that keeps drawing commands in memory.
// Text is measured as Courier: every rune advances 0.6 em.
type Recorder struct {
	size     render.PageSize
	ops      []Op
	page     int
	closed   bool
	out      io.Writer
	imageErr error
}

// NewRecorder creates a recording surface of the given page size.
func NewRecorder(size render.PageSize, opts ...RecorderOption) *Recorder {
	r := &Recorder{size: size}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StringWidth implements render.Surface.
func (r *Recorder) StringWidth(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * CourierAdvance * size
}

// DrawText implements render.Surface.
func (r *Recorder) DrawText(x, y float64, text string, size float64, c colorful.Color) {
	r.ops = append(r.ops, Op{
		Page:  r.page,
		Kind:  OpText,
		X:     x,
		Y:     y,
		W:     r.StringWidth(text, size),
		Size:  size,
		Text:  text,
		Color: c.Clamped().Hex(),
	})
}

// DrawImage implements render.Surface.
func (r *Recorder) DrawImage(img render.Image, x, y, w, h float64) error {
	if r.imageErr != nil {
		return r.imageErr
	}
	r.ops = append(r.ops, Op{Page: r.page, Kind: OpImage, X: x, Y: y, W: w, H: h, Format: img.Format})
	return nil
}

// Link implements render.Surface.
func (r *Recorder) Link(rect render.Rect, url string) {
	r.ops = append(r.ops, Op{Page: r.page, Kind: OpLink, X: rect.X, Y: rect.Y, W: rect.W, H: rect.H, URL: url})
}

// NewPage implements render.Surface.
func (r *Recorder) NewPage() {
	r.page++
	r.ops = append(r.ops, Op{Page: r.page, Kind: OpPage, W: r.size.Width, H: r.size.Height})
}

// Close finalizes the recording and writes it when an output was given.
// Closing twice is an error.
func (r *Recorder) Close() error {
	if r.closed {
		return fmt.Errorf("recorder already closed")
	}
	r.closed = true
	if r.out == nil {
		return nil
	}
	data, err := RenderJSON(r)
	if err != nil {
		return err
	}
	_, err = r.out.Write(append(data, '\n'))
	return err
}

// Ops returns the recorded commands in drawing order.
func (r *Recorder) Ops() []Op { return r.ops }

// Pages returns the number of pages started.
func (r *Recorder) Pages() int { return r.page }

// Closed reports whether Close has been called.
func (r *Recorder) Closed() bool { return r.closed }

// Texts returns the text of every text command on page (all pages when
// page is 0), in drawing order.
func (r *Recorder) Texts(page int) []string {
	var out []string
	for _, op := range r.ops {
		if op.Kind == OpText && (page == 0 || op.Page == page) {
			out = append(out, op.Text)
		}
	}
	return out
}

// Filter returns the commands of the given kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

var _ render.Surface = (*Recorder)(nil)
