package images

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// URLPattern matches http and https URLs up to the next whitespace.
var URLPattern = regexp.MustCompile(`https?://\S+`)

// Extensions are the URL path suffixes treated as image candidates.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"}

// LooksLikeImageURL reports whether raw parses as a URL whose path ends in
// one of [Extensions], case-insensitively. Query and fragment are ignored.
func LooksLikeImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
