// Package irclog classifies raw IRC log lines.
//
// # Overview
//
// [Classify] turns one line of a plain-text chat transcript into a [Line]:
// timestamp, author, body and [Kind]. It is a pure function with no state;
// every input, including binary noise, yields exactly one of the four kinds.
//
// # Formatting Codes
//
// mIRC formatting (color, bold, italic, underline, reset, monospace and
// reverse markers) is removed by [StripFormatting] before any pattern is
// tried, together with every other C0 control byte except tab.
//
// # Recognized Forms
//
// Patterns are tried in a fixed order and the first match wins:
//
//	2024-05-01 09:15 <alice> hello     Message (ISO date prefix)
//	[09:15] <alice> hello              Message (bracketed time)
//	[09:15] * alice waves              Action
//	<alice> hello                      Message (no timestamp)
//	*** bob has joined                 System
//	--> bob has joined                 System
//	----- Day changed -----            System (rule banner)
//
// Anything else is [KindRaw] with the stripped text as body.
//
// The order matters: some lines satisfy several patterns, and changing it
// changes how existing logs render.
package irclog
