// Package pkg provides the libraries behind irc-render.
//
// # Overview
//
// irc-render typesets plain-text IRC transcripts as paginated PDFs. The
// packages are organized by stage:
//
//  1. [irclog] - Line classification (timestamp, author, body, kind)
//  2. [nickcolor] - Deterministic per-author colors
//  3. [images] - Fetching, sniffing and decoding inline images
//  4. [layout] - Pagination, wrapping and image placement
//  5. [render] - Drawing surfaces (PDF, in-memory recorder, JSON dump)
//  6. [pipeline] - Orchestration (read → classify → lay out → write)
//
// Supporting packages: [cache] (response cache), [fonts] (font discovery),
// [errors] (coded errors), [observability] (hooks) and [buildinfo].
//
// # Architecture
//
//	transcript file
//	      ↓
//	[pipeline] decode UTF-8/UTF-16, split lines
//	      ↓
//	[irclog] classify
//	      ↓
//	[layout] engine ← [images] resolver ← [cache]
//	      ↓
//	[render] surface (PDF or JSON)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	opts := pipeline.Options{Layout: layout.DefaultConfig()}
//	stats, err := runner.RenderFile(ctx, "chat.log", "chat.pdf", opts)
package pkg
