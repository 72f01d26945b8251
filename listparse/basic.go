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

import "strings"

// basicLineFields splits a basic-list data line on tabs, dropping
// empty fields produced by runs of consecutive delimiters.
func basicLineFields(line string) []string {
	raw := strings.Split(line, "\t")
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basicParseLine implements the shared basic-list grammar: a line of
// 80 dashes (or any line with fewer than two tab-separated fields,
// which a bare dash line always is) carries no value and is skipped
// rather than ending the data, since a following source file's header
// still needs to be found by the rebuild driver.
func basicParseLine(line string, offset int64) (LineResult, error) {
	fields := basicLineFields(line)
	if len(fields) < 2 {
		return LineResult{Outcome: Skip}, nil
	}
	return LineResult{Outcome: Record, Key: fields[0], Offset: offset, Payload: fields[1]}, nil
}

// ColorInfoParser parses color-info.list. Last write for a title wins
// (no secondary index); not globally sorted enforcement is unnecessary
// since duplicates simply overwrite.
type ColorInfoParser struct{}

var _ Parser = (*ColorInfoParser)(nil)

func (*ColorInfoParser) ListName() string  { return "color-info" }
func (*ColorInfoParser) Sources() []string { return []string{"color-info"} }
func (*ColorInfoParser) SkipTVVG() bool    { return true }
func (*ColorInfoParser) NeedsIndex() bool  { return false }
func (*ColorInfoParser) Reset()            {}
func (*ColorInfoParser) HeaderSentinel() (string, int) {
	return strings.Repeat("-", 77), 3
}
func (*ColorInfoParser) ParseLine(line string, offset int64) (LineResult, error) {
	return basicParseLine(line, offset)
}

// GenresParser parses genres.list. A title may list several genres;
// each is indexed separately and engine.PopulateGenres accumulates and
// sorts them.
type GenresParser struct{}

var _ Parser = (*GenresParser)(nil)

func (*GenresParser) ListName() string  { return "genres" }
func (*GenresParser) Sources() []string { return []string{"genres"} }
func (*GenresParser) SkipTVVG() bool    { return true }
func (*GenresParser) NeedsIndex() bool  { return true }
func (*GenresParser) Reset()            {}
func (*GenresParser) HeaderSentinel() (string, int) {
	return "8: THE GENRES LIST", 2
}
func (*GenresParser) ParseLine(line string, offset int64) (LineResult, error) {
	return basicParseLine(line, offset)
}

// RunningTimeParser parses running-times.list. Durations are
// "[COUNTRY:]MINUTES[:trailing garbage]"; the engine reports the
// median across all entries for a title.
type RunningTimeParser struct{}

var _ Parser = (*RunningTimeParser)(nil)

func (*RunningTimeParser) ListName() string  { return "running-times" }
func (*RunningTimeParser) Sources() []string { return []string{"running-times"} }
func (*RunningTimeParser) SkipTVVG() bool    { return true }
func (*RunningTimeParser) NeedsIndex() bool  { return true }
func (*RunningTimeParser) Reset()            {}
func (*RunningTimeParser) HeaderSentinel() (string, int) {
	return strings.Repeat("-", 77), 3
}
func (*RunningTimeParser) ParseLine(line string, offset int64) (LineResult, error) {
	return basicParseLine(line, offset)
}

// ParseRunningTime decodes a running-times.list value field
// ("USA:30", "27 min.", "1:10:43", ...) into (minutes, country),
// returning ok=false if no leading digits could be found.
func ParseRunningTime(raw string) (minutes int, country string, ok bool) {
	duration := raw
	if len(duration) == 0 || duration[0] < '0' || duration[0] > '9' {
		before, after, found := strings.Cut(duration, ":")
		if !found {
			return 0, "", false
		}
		country = before
		duration = after
	}
	duration = strings.TrimSpace(duration)
	i := 0
	for i < len(duration) && duration[i] >= '0' && duration[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, country, false
	}
	n := 0
	for _, c := range duration[:i] {
		n = n*10 + int(c-'0')
	}
	return n, country, true
}

// CertificatesParser parses certificates.list, retaining only USA
// certifications.
type CertificatesParser struct{}

var _ Parser = (*CertificatesParser)(nil)

func (*CertificatesParser) ListName() string  { return "certificates" }
func (*CertificatesParser) Sources() []string { return []string{"certificates"} }
func (*CertificatesParser) SkipTVVG() bool    { return true }
func (*CertificatesParser) NeedsIndex() bool  { return false }
func (*CertificatesParser) Reset()            {}
func (*CertificatesParser) HeaderSentinel() (string, int) {
	return strings.Repeat("-", 77), 3
}

// Certificate is a title's national content rating.
type Certificate struct {
	Rating  string
	Country string
}

func (*CertificatesParser) ParseLine(line string, offset int64) (LineResult, error) {
	fields := basicLineFields(line)
	if len(fields) < 2 {
		return LineResult{Outcome: Skip}, nil
	}
	country, cert, ok := strings.Cut(fields[1], ":")
	if !ok || country != "USA" {
		return LineResult{Outcome: Skip}, nil
	}
	return LineResult{
		Outcome: Record,
		Key:     fields[0],
		Offset:  offset,
		Payload: Certificate{Rating: cert, Country: country},
	}, nil
}
