package sink

import "encoding/json"

type jsonOutput struct {
	PageSize string  `json:"page_size"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Pages    int     `json:"pages"`
	Ops      []Op    `json:"ops"`
}

// RenderJSON exports a recording as a pretty-printed JSON document: page
// geometry followed by every drawing command in order. It is a debugging aid
// for layout problems and is stable for identical input.
func RenderJSON(r *Recorder) ([]byte, error) {
	ops := r.ops
	if ops == nil {
		ops = []Op{}
	}
	return json.MarshalIndent(jsonOutput{
		PageSize: r.size.Name,
		Width:    r.size.Width,
		Height:   r.size.Height,
		Pages:    r.page,
		Ops:      ops,
	}, "", "  ")
}
