package irclog

import (
	"regexp"
	"strings"
)

const (
	timeRe   = `(\d{1,2}:\d{2}(?::\d{2})?)`
	noticeRe = `(?:\*\*\*|-->|<--|—>|<-)`
)

// pattern extracts a Line from a regexp match. Group indices are 1-based;
// zero means the field is absent for that pattern.
type pattern struct {
	re               *regexp.Regexp
	kind             Kind
	ts, author, body int
}

// patterns are tried in order; the first match wins.
var patterns = []pattern{
	{re: regexp.MustCompile(`^\s*\d{4}-\d{2}-\d{2}\s+` + timeRe + `\s+<([^>]+)>\s+(.*)$`), kind: KindMessage, ts: 1, author: 2, body: 3},
	{re: regexp.MustCompile(`^\s*\[?` + timeRe + `\]?\s+<([^>]+)>\s+(.*)$`), kind: KindMessage, ts: 1, author: 2, body: 3},
	{re: regexp.MustCompile(`^\s*\[?` + timeRe + `\]?\s+\*\s+(\S+)\s+(.*)$`), kind: KindAction, ts: 1, author: 2, body: 3},
	{re: regexp.MustCompile(`^\s*<([^>]+)>\s+(.*)$`), kind: KindMessage, author: 1, body: 2},
	{re: regexp.MustCompile(`^\s*` + noticeRe + `\s+(.*)$`), kind: KindSystem, body: 1},
	{re: regexp.MustCompile(`^\s*-{2,}\s+(.*)$`), kind: KindSystem, body: 1},
	{re: regexp.MustCompile(`^\s*\[?` + timeRe + `\]?\s+` + noticeRe + `\s+(.*)$`), kind: KindSystem, ts: 1, body: 2},
}

// Classify parses a single raw log line. It never fails: a line that matches
// no known form is returned as KindRaw with the stripped text as body.
func Classify(raw string) Line {
	s := StripFormatting(strings.TrimRight(raw, "\r\n"))

	for _, p := range patterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		l := Line{Kind: p.kind, Body: m[p.body]}
		if p.ts > 0 {
			l.Timestamp = m[p.ts]
		}
		if p.author > 0 {
			l.Author = m[p.author]
		}
		return l
	}
	return Line{Kind: KindRaw, Body: s}
}
