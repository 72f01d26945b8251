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
	"strconv"
	"strings"
)

// Rating is a title's IMDb rating-distribution record.
type Rating struct {
	Distribution string
	NRatings     int
	Score        string
}

// DefaultRating is substituted for titles with no rating on record.
var DefaultRating = Rating{Distribution: strings.Repeat(".", 10), NRatings: 0, Score: "0"}

// RatingsParser parses ratings.list. The file is already sorted by
// title, so no secondary index is required.
type RatingsParser struct{}

var _ Parser = (*RatingsParser)(nil)

func (*RatingsParser) ListName() string  { return "ratings" }
func (*RatingsParser) Sources() []string { return []string{"ratings"} }
func (*RatingsParser) SkipTVVG() bool    { return true }
func (*RatingsParser) NeedsIndex() bool  { return false }
func (*RatingsParser) Reset()            {}

func (*RatingsParser) HeaderSentinel() (string, int) {
	return "MOVIE RATINGS REPORT", 2
}

func (*RatingsParser) ParseLine(line string, offset int64) (LineResult, error) {
	if line == "" {
		return LineResult{Outcome: End}, nil
	}
	if len(line) < 6 {
		return LineResult{}, fmt.Errorf("listparse: ratings: short line %q", line)
	}
	fields := splitWhitespaceN(line[6:], 3)
	if len(fields) != 4 {
		return LineResult{}, fmt.Errorf("listparse: ratings: unparseable line %q", line)
	}
	distribution, nratingsStr, score, titleStr := fields[0], fields[1], fields[2], fields[3]

	nratings, err := strconv.Atoi(nratingsStr)
	if err != nil {
		return LineResult{}, fmt.Errorf("listparse: ratings: bad nratings %q: %w", nratingsStr, err)
	}
	return LineResult{
		Outcome: Record,
		Key:     titleStr,
		Offset:  offset,
		Payload: Rating{Distribution: distribution, NRatings: nratings, Score: score},
	}, nil
}
