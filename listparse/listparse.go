// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package listparse implements the shared rebuild/point-lookup
// skeleton for IMDb plain-text list files, plus one Parser
// implementation per list (movies, aka-titles, ratings, plot, the
// basic tab lists, and the cast/crew name lists).
package listparse

import "strings"

// Outcome classifies the result of parsing one line.
type Outcome int

const (
	// Record is a data record: Key/Offset/Payload are populated.
	Record Outcome = iota
	// Skip means this line carries no record (e.g. a continuation
	// or blank separator); keep reading.
	Skip
	// End means end-of-data has been reached; stop reading this source.
	End
)

// LineResult is the result of Parser.ParseLine.
type LineResult struct {
	Outcome Outcome
	Key     string
	Offset  int64
	Payload any
}

// Parser describes one IMDb list file and its line grammar. A Parser
// is stateful across ParseLine calls within a single rebuild or search
// pass (e.g. to remember "the title most recently seen"); Reset must
// be called before each pass.
type Parser interface {
	// ListName is this parser's sub-stream name within the archive.
	ListName() string
	// Sources lists the raw file base names (without ".list.gz")
	// this parser's data is rebuilt from.
	Sources() []string
	// SkipTVVG reports whether lines naming video games ("(VG)") or
	// TV episodes ("{...}") should be discarded before parsing.
	SkipTVVG() bool
	// NeedsIndex reports whether a secondary sorted index
	// sub-stream is required (the primary stream is not globally
	// sorted by key).
	NeedsIndex() bool
	// HeaderSentinel is the trimmed line marking the header/data
	// boundary, and the number of extra lines to skip after it.
	HeaderSentinel() (sentinel string, extraSkip int)
	// Reset clears any state carried between ParseLine calls,
	// readying the parser for a fresh pass over one or more sources.
	Reset()
	// ParseLine parses one ISO-8859-1-decoded, newline-stripped
	// line found at archive offset.
	ParseLine(line string, offset int64) (LineResult, error)
}

// Indexed reports whether a Parser requires a secondary index, purely
// as a free function for callers that only have a Parser value.
func Indexed(p Parser) bool { return p.NeedsIndex() }

// containsVGOrEpisode reports whether raw (not yet decoded) line bytes
// mark a video game entry or an individual TV episode, per SkipTVVG.
func containsVGOrEpisode(raw string) bool {
	return strings.Contains(raw, "(VG)") || strings.Contains(raw, "{")
}
