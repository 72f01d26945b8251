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

package listparse

import (
	"fmt"
	"strings"
)

// MoviesParser parses movies.list: one title per line, tab-separated
// from metadata this engine does not retain.
type MoviesParser struct{}

var _ Parser = (*MoviesParser)(nil)

func (*MoviesParser) ListName() string    { return "movies" }
func (*MoviesParser) Sources() []string   { return []string{"movies"} }
func (*MoviesParser) SkipTVVG() bool      { return true }
func (*MoviesParser) NeedsIndex() bool    { return false }
func (*MoviesParser) Reset()              {}
func (*MoviesParser) HeaderSentinel() (string, int) {
	return strings.Repeat("=", 11), 1
}

func (*MoviesParser) ParseLine(line string, offset int64) (LineResult, error) {
	if line == strings.Repeat("-", 80) {
		return LineResult{Outcome: End}, nil
	}
	title, _, ok := strings.Cut(line, "\t")
	if !ok {
		return LineResult{}, fmt.Errorf("listparse: movies: unparseable line %q", line)
	}
	return LineResult{Outcome: Record, Key: title, Offset: offset}, nil
}
