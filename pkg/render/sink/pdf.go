package sink

import (
	"bytes"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lov3b/irc-render/pkg/cache"
	"github.com/lov3b/irc-render/pkg/errors"
	"github.com/lov3b/irc-render/pkg/fonts"
	"github.com/lov3b/irc-render/pkg/render"
)

// PDFOption configures a PDF surface.
type PDFOption func(*PDF)

// WithTitle sets the document title metadata.
func WithTitle(title string) PDFOption { return func(p *PDF) { p.title = title } }

// WithCreator sets the document creator metadata.
func WithCreator(creator string) PDFOption { return func(p *PDF) { p.creator = creator } }

// WithFont selects the text font. The default is core Courier.
func WithFont(face fonts.Face) PDFOption { return func(p *PDF) { p.face = face } }

// WithCreationDate pins the creation and modification timestamps. Without
// it fpdf stamps the current time and two renders of the same input differ.
func WithCreationDate(t time.Time) PDFOption { return func(p *PDF) { p.created = t } }

// PDF is a render.Surface backed by an fpdf document. The document is
// written to the underlying writer on Close.
type PDF struct {
	doc    *fpdf.Fpdf
	w      io.Writer
	height float64

	face    fonts.Face
	family  string
	tr      func(string) string
	size    float64
	title   string
	creator string
	created time.Time
}

// NewPDF creates a PDF surface of the given page size writing to w.
func NewPDF(w io.Writer, size render.PageSize, opts ...PDFOption) (*PDF, error) {
	p := &PDF{w: w, height: size.Height, face: fonts.Core()}
	for _, opt := range opts {
		opt(p)
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCatalogSort(true)
	if p.title != "" {
		doc.SetTitle(p.title, true)
	}
	if p.creator != "" {
		doc.SetCreator(p.creator, true)
	}
	if !p.created.IsZero() {
		doc.SetCreationDate(p.created)
		doc.SetModificationDate(p.created)
	}

	if p.face.IsCore() {
		p.family = "courier"
		p.tr = doc.UnicodeTranslatorFromDescriptor("")
	} else {
		p.family = "mono"
		p.tr = func(s string) string { return s }
		doc.AddUTF8FontFromBytes(p.family, "", p.face.Data)
	}
	p.size = 11
	doc.SetFont(p.family, "", p.size)
	if err := doc.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "load font %s", p.face.Name)
	}

	p.doc = doc
	return p, nil
}

func (p *PDF) setSize(size float64) {
	if size != p.size {
		p.doc.SetFontSize(size)
		p.size = size
	}
}

// StringWidth implements render.Surface.
func (p *PDF) StringWidth(text string, size float64) float64 {
	p.setSize(size)
	return p.doc.GetStringWidth(p.tr(text))
}

// DrawText implements render.Surface.
func (p *PDF) DrawText(x, y float64, text string, size float64, c colorful.Color) {
	p.setSize(size)
	r, g, b := c.Clamped().RGB255()
	p.doc.SetTextColor(int(r), int(g), int(b))
	p.doc.Text(x, p.height-y, p.tr(text))
}

// DrawImage implements render.Surface. Images are registered once per
// distinct payload. A payload fpdf cannot parse (interlaced or 16-bit PNG,
// for instance) is re-encoded as 8-bit PNG and tried once more; if that also
// fails the document error is cleared and nothing is drawn.
func (p *PDF) DrawImage(img render.Image, x, y, w, h float64) error {
	name := cache.Hash(img.Data)
	if p.doc.GetImageInfo(name) == nil {
		if err := p.register(name, img.Format, img.Data); err != nil {
			png, rerr := reencodePNG(img.Data)
			if rerr != nil {
				return errors.Wrap(errors.ErrCodeDecode, err, "embed %s image", img.Format)
			}
			if err := p.register(name, "png", png); err != nil {
				return errors.Wrap(errors.ErrCodeDecode, err, "embed re-encoded image")
			}
		}
	}
	p.doc.ImageOptions(name, x, p.height-y-h, w, h, false, fpdf.ImageOptions{}, 0, "")
	if err := p.doc.Error(); err != nil {
		p.doc.ClearError()
		return errors.Wrap(errors.ErrCodeDecode, err, "draw %s image", img.Format)
	}
	return nil
}

func (p *PDF) register(name, format string, data []byte) error {
	p.doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: format}, bytes.NewReader(data))
	if err := p.doc.Error(); err != nil {
		p.doc.ClearError()
		return err
	}
	return nil
}

func reencodePNG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Clone(img), imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Link implements render.Surface.
func (p *PDF) Link(r render.Rect, url string) {
	p.doc.LinkString(r.X, p.height-r.Y-r.H, r.W, r.H, url)
}

// NewPage implements render.Surface.
func (p *PDF) NewPage() {
	p.doc.AddPage()
}

// Pages returns the number of pages started so far.
func (p *PDF) Pages() int { return p.doc.PageNo() }

// Close writes the document.
func (p *PDF) Close() error {
	if err := p.doc.Output(p.w); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write pdf")
	}
	return nil
}

var _ render.Surface = (*PDF)(nil)
