// Package nickcolor assigns each chat author a stable color.
//
// The hue comes from a djb2 hash of the lower-cased nick, so "Alice" and
// "alice" share a color and the mapping never changes between runs. Hues in
// the yellow band get lower saturation and value to stay readable on white.
package nickcolor

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	saturation = 0.55
	value      = 0.75

	yellowSaturation = 0.40
	yellowValue      = 0.70
	yellowFrom       = 45
	yellowTo         = 70
)

// Of returns the color for author.
func Of(author string) colorful.Color {
	hue := Hue(author)
	s, v := saturation, value
	if hue >= yellowFrom && hue < yellowTo {
		s, v = yellowSaturation, yellowValue
	}
	return colorful.Hsv(float64(hue), s, v)
}

// Hue returns the whole-degree hue in [0, 360) for author.
//
// djb2 is reduced modulo 360 at every step; because
// (a*33+c) mod m == ((a mod m)*33+c) mod m, the result equals the
// unbounded hash taken mod 360.
func Hue(author string) int {
	h := 5381 % 360
	for _, r := range strings.ToLower(author) {
		h = (h*33 + int(r)) % 360
	}
	return h
}
