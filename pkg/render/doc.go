// Package render defines the drawing surface the layout engine paints on.
//
// # Coordinates
//
// All positions are in PDF points with the origin at the bottom-left corner
// of the page and y growing upward. A text baseline at y=800 on an A4 page
// is near the top. Implementations that use a top-left origin flip y
// themselves.
//
// # Implementations
//
// The [sink] subpackage provides two surfaces:
//
//   - sink.PDF draws into a PDF document via fpdf
//   - sink.Recorder records drawing commands and can dump them as JSON
//
// The layout engine only sees the [Surface] interface, so tests run against
// the recorder with fixed monospace metrics.
//
// [sink]: github.com/lov3b/irc-render/pkg/render/sink
package render
