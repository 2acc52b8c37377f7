package irclog

// Kind is the layout class of a log line.
type Kind int

const (
	KindMessage Kind = iota // <nick> text
	KindAction              // * nick text
	KindSystem              // joins, parts, banners
	KindRaw                 // anything unrecognized
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindAction:
		return "action"
	case KindSystem:
		return "system"
	case KindRaw:
		return "raw"
	}
	return "unknown"
}

// Line is one classified transcript line.
// Timestamp and Author are empty when the line carries none.
type Line struct {
	Timestamp string
	Author    string
	Body      string
	Kind      Kind
}

// HasAuthor reports whether the line names an author.
func (l Line) HasAuthor() bool { return l.Author != "" }
