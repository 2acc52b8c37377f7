package render

import "github.com/lucasb-eyer/go-colorful"

// Surface is a page-oriented drawing target.
//
// NewPage must be called before the first drawing command. Close finalizes
// the document; no method may be called after it.
type Surface interface {
	// StringWidth returns the advance width of text at the given font size.
	StringWidth(text string, size float64) float64

	// DrawText draws text with its baseline starting at (x, y).
	DrawText(x, y float64, text string, size float64, c colorful.Color)

	// DrawImage draws img with its lower-left corner at (x, y), scaled to
	// w×h. An error means nothing was drawn and the surface is still usable.
	DrawImage(img Image, x, y, w, h float64) error

	// Link registers a clickable region pointing at url.
	Link(r Rect, url string)

	// NewPage starts a new page.
	NewPage()

	Close() error
}

// Image is an encoded raster image ready for embedding.
type Image struct {
	Data []byte
	// Format is "png", "jpeg" or "gif".
	Format string
	Width  int
	Height int
}

// Rect is an axis-aligned rectangle; (X, Y) is its lower-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether o lies entirely inside r, allowing eps slack.
func (r Rect) Contains(o Rect, eps float64) bool {
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.X+o.W <= r.X+r.W+eps && o.Y+o.H <= r.Y+r.H+eps
}
