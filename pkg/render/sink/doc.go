// Package sink provides concrete [render.Surface] implementations.
//
// [PDF] writes a PDF document through codeberg.org/go-pdf/fpdf. [Recorder]
// keeps every drawing command in memory with fixed Courier metrics; it backs
// the JSON layout dump and the layout tests.
//
// [render.Surface]: github.com/lov3b/irc-render/pkg/render.Surface
package sink
