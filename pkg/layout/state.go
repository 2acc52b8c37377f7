package layout

// Phase is the engine's position in the page lifecycle.
type Phase int

const (
	// PhaseOpen means a page is open and its header drawn.
	PhaseOpen Phase = iota
	// PhaseClosing means the footer of the current page is being drawn.
	PhaseClosing
	// PhaseDone means Finish has run; no more lines are accepted.
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseClosing:
		return "closing"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// State is a snapshot of the engine's cursor and page geometry. Y is the
// baseline of the next row, measured from the bottom of the page.
type State struct {
	Phase Phase
	Page  int
	Y     float64

	// NickWidth is the width reserved for author labels. It only grows, up
	// to NickCap.
	NickWidth float64
	NickCap   float64

	// TimestampWidth is the reserved width of a "[00:00] " column.
	TimestampWidth float64

	Left, Right, Top, Bottom float64
	// ContentTop is where the first row of a page goes, below the header.
	ContentTop float64
}

// Stats counts what an engine has placed so far.
type Stats struct {
	Lines         int
	Pages         int
	Images        int
	ImageFailures int
}
