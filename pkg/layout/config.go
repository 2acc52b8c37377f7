package layout

import (
	"github.com/lov3b/irc-render/pkg/errors"
	"github.com/lov3b/irc-render/pkg/render"
)

// Default values for Config.
const (
	DefaultFontSize       = 11
	DefaultMargin         = 36
	DefaultMaxImageWidth  = 360
	DefaultMaxImageHeight = 260
)

// Config holds page geometry and typography. All lengths are in points.
type Config struct {
	Title          string
	PageSize       render.PageSize
	FontSize       float64
	Margin         float64
	MaxImageWidth  float64
	MaxImageHeight float64
}

// DefaultConfig returns an A4 config with an 11pt font and 36pt margins.
func DefaultConfig() Config {
	return Config{
		PageSize:       render.A4,
		FontSize:       DefaultFontSize,
		Margin:         DefaultMargin,
		MaxImageWidth:  DefaultMaxImageWidth,
		MaxImageHeight: DefaultMaxImageHeight,
	}
}

// Validate checks that the config describes a page with room for the
// header and at least one line of text.
func (c Config) Validate() error {
	switch {
	case c.PageSize.Width <= 0 || c.PageSize.Height <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "page size must be positive, got %vx%v", c.PageSize.Width, c.PageSize.Height)
	case c.FontSize <= 2:
		return errors.New(errors.ErrCodeInvalidConfig, "font size must be greater than 2, got %v", c.FontSize)
	case c.Margin < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "margin must not be negative, got %v", c.Margin)
	case c.MaxImageWidth <= 0 || c.MaxImageHeight <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max image size must be positive, got %vx%v", c.MaxImageWidth, c.MaxImageHeight)
	case 2*c.Margin >= c.PageSize.Width:
		return errors.New(errors.ErrCodeInvalidConfig, "margin %v leaves no width on a %v pt page", c.Margin, c.PageSize.Width)
	}

	top := c.PageSize.Height - c.Margin
	if contentTop(top, c.FontSize)-2*c.FontSize < c.Margin {
		return errors.New(errors.ErrCodeInvalidConfig, "page height %v leaves no room for text at font size %v", c.PageSize.Height, c.FontSize)
	}
	return nil
}

// contentTop is the first baseline below the header.
func contentTop(top, fontSize float64) float64 {
	return top - (fontSize+8)*1.6
}
