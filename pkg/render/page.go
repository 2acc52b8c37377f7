package render

import (
	"fmt"
	"strings"
)

// PageSize is a named paper size in points.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

var (
	A4     = PageSize{Name: "A4", Width: 595.28, Height: 841.89}
	Letter = PageSize{Name: "Letter", Width: 612, Height: 792}
)

// PageSizes lists the supported presets.
var PageSizes = []PageSize{A4, Letter}

// ParsePageSize resolves a preset name case-insensitively.
func ParsePageSize(name string) (PageSize, error) {
	for _, ps := range PageSizes {
		if strings.EqualFold(ps.Name, strings.TrimSpace(name)) {
			return ps, nil
		}
	}
	return PageSize{}, fmt.Errorf("unknown page size %q (want A4 or Letter)", name)
}

func (p PageSize) String() string { return p.Name }
