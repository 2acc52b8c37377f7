package irclog

import (
	"regexp"
	"strings"
)

var (
	colorCodeRe    = regexp.MustCompile("\x03[0-9]{1,2}(?:,[0-9]{1,2})?")
	hexColorCodeRe = regexp.MustCompile("\x04[0-9A-Fa-f]{6}(?:,[0-9A-Fa-f]{6})?")
)

// StripFormatting removes mIRC formatting and non-printable control bytes.
// Color codes (\x03, \x04) are removed together with their fg[,bg]
// arguments; bold, italic, underline, reset, monospace and reverse markers
// fall under the general control-byte rule. Tabs survive.
func StripFormatting(s string) string {
	if !hasControl(s) {
		return s
	}
	s = colorCodeRe.ReplaceAllString(s, "")
	s = hexColorCodeRe.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return r
		case r < 0x20, r == 0x7f:
			return -1
		}
		return r
	}, s)
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; (c < 0x20 && c != '\t') || c == 0x7f {
			return true
		}
	}
	return false
}
