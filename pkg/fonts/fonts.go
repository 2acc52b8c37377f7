// Package fonts locates the monospace font used for transcript text.
//
// PDF core fonts only cover Windows-1252, so the renderer prefers a
// TrueType monospace font installed on the system, which fpdf embeds with
// full Unicode coverage. When none is found it falls back to core Courier.
package fonts

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"

	"github.com/lov3b/irc-render/pkg/errors"
)

// CoreFamily is the built-in PDF font used when no TrueType font is found.
const CoreFamily = "Courier"

// Candidates are tried in order when no font is given explicitly.
var Candidates = []string{
	"DejaVuSansMono.ttf",
	"LiberationMono-Regular.ttf",
	"JetBrainsMono-Regular.ttf",
	"UbuntuMono-R.ttf",
}

// Face is a resolved font. A zero Data means the core Courier font.
type Face struct {
	Name string
	Path string
	Data []byte
}

// IsCore reports whether f is the built-in Courier fallback.
func (f Face) IsCore() bool { return len(f.Data) == 0 }

// Core returns the built-in Courier face.
func Core() Face { return Face{Name: CoreFamily} }

// finder is swapped in tests.
var finder = findfont.Find

// Lookup resolves a font face.
//
// A non-empty name is either a path or a font file name searched in the
// system font directories; failing to find it is an error. An empty name
// tries [Candidates] and returns [Core] when none is installed. "core" or
// "courier" select Courier explicitly.
func Lookup(name string) (Face, error) {
	name = strings.TrimSpace(name)
	switch strings.ToLower(name) {
	case "core", "courier":
		return Core(), nil
	case "":
		for _, c := range Candidates {
			if f, err := load(c); err == nil {
				return f, nil
			}
		}
		return Core(), nil
	}

	f, err := load(name)
	if err != nil {
		return Face{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "font %q", name)
	}
	return f, nil
}

func load(name string) (Face, error) {
	path, err := finder(name)
	if err != nil {
		return Face{}, err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".ttf" {
		return Face{}, errors.New(errors.ErrCodeUnsupported, "%s: only TrueType (.ttf) fonts can be embedded", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Face{}, err
	}
	base := filepath.Base(path)
	return Face{
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
		Path: path,
		Data: data,
	}, nil
}
