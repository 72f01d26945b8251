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

// Package title parses the IMDb title/name/cast-credit suffix grammar
// shared by the list parsers and the search ranker.
package title

import (
	"fmt"
	"regexp"
	"strconv"
)

// Regexp is the IMDb title regular expression from spec.md §6.
var Regexp = regexp.MustCompile(
	`^(?P<title>(?P<name>.+?)(?: \((?:(?P<TV>TV)|(?P<V>V)|(?P<VG>VG)|(?P<mini>mini)|(?P<year>\d{4}|\?{4})(?P<unique>/[IVXLCDM]+)?)\))+)(?P<trailing>(?:  .*)?)$`,
)

// Parsed is a parsed title: (raw, name, year?, unique?, category?).
type Parsed struct {
	Raw      string
	Name     string
	Year     string // empty if unknown ("????" in the source data)
	Unique   string // empty if absent
	Category string // "TV Show" or empty
}

var titleSub = submatcher(Regexp)

// Parse parses raw into its components. It returns an error if raw
// does not match the title grammar or has unexpected trailing text.
func Parse(raw string) (Parsed, error) {
	m := titleSub(raw)
	if m == nil || m["trailing"] != "" {
		return Parsed{}, fmt.Errorf("title: cannot parse %q as an IMDb title", raw)
	}
	name := m["name"]
	year := m["year"]
	if year == "????" {
		year = ""
	}
	cat := ""
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		name = name[1 : len(name)-1]
		cat = "TV Show"
	}
	return Parsed{Raw: raw, Name: name, Year: year, Unique: m["unique"], Category: cat}, nil
}

// submatcher returns a function mapping a matched string to its named
// capture groups, or nil if re does not match.
func submatcher(re *regexp.Regexp) func(string) map[string]string {
	names := re.SubexpNames()
	return func(s string) map[string]string {
		idx := re.FindStringSubmatchIndex(s)
		if idx == nil {
			return nil
		}
		groups := re.FindStringSubmatch(s)
		out := make(map[string]string, len(names))
		for i, name := range names {
			if name == "" || i >= len(groups) {
				continue
			}
			out[name] = groups[i]
		}
		return out
	}
}

// YearInt parses p.Year as an integer, returning ok=false if no year
// is known.
func (p Parsed) YearInt() (int, bool) {
	if p.Year == "" {
		return 0, false
	}
	y, err := strconv.Atoi(p.Year)
	if err != nil {
		return 0, false
	}
	return y, true
}

// RawName returns the matched "name" capture group verbatim — the
// portion of raw before its first "(...)" suffix, with any TV-show
// quoting left intact (unlike Parse, which strips it into Category).
func RawName(raw string) (name string, ok bool) {
	m := titleSub(raw)
	if m == nil || m["trailing"] != "" {
		return "", false
	}
	return m["name"], true
}

// TitlePrefix returns the matched "title" group: the name plus every
// trailing "(...)" suffix (year/unique/TV/V/VG/mini), without the
// cast-credit suffix that follows it on a names-database line.
func TitlePrefix(raw string) (title, trailing string, ok bool) {
	m := titleSub(raw)
	if m == nil {
		return "", "", false
	}
	return m["title"], m["trailing"], true
}

// NameRegexp is the IMDb person-name regular expression (last[, first]
// [(unique)]) from original_source's NAMERE.
var NameRegexp = regexp.MustCompile(
	`^(?P<name>(?P<last>.+?)(?:, (?P<first>.+?))?(?: \((?P<unique>[IVXLCDM]+)\))*)$`,
)

var nameSub = submatcher(NameRegexp)

// ParsedName is a parsed person name.
type ParsedName struct {
	Raw    string
	First  string // empty if absent
	Last   string
	Unique string // empty if absent
}

// ParseName parses a "Last, First (unique)" style person name.
func ParseName(raw string) (ParsedName, error) {
	m := nameSub(raw)
	if m == nil {
		return ParsedName{}, fmt.Errorf("title: cannot parse %q as an IMDb name", raw)
	}
	return ParsedName{Raw: raw, First: m["first"], Last: m["last"], Unique: m["unique"]}, nil
}

// CastSuffixRegexp matches the trailing "  (notes)  [character]  <order>"
// material that follows a title on a names-database credit line.
var CastSuffixRegexp = regexp.MustCompile(
	`^(?P<notes>(?:  \(.+?\))*)(?:  \[(?P<character>.+?)\])?(?:  <(?P<order>\d+)>)?(?P<trailing>.*)$`,
)

var castSuffixSub = submatcher(CastSuffixRegexp)

// CastSuffix is the parsed trailing material of a names-database credit.
type CastSuffix struct {
	Character string // empty if absent
	Order     int    // 0 if absent; see OrderOK
	OrderOK   bool
	Notes     string // raw concatenated "(...)" notes, empty if none
}

// ParseCastSuffix parses the material following a title on a credit
// line (the TITLERE match's "trailing" group).
func ParseCastSuffix(raw string) (CastSuffix, error) {
	m := castSuffixSub(raw)
	if m == nil {
		return CastSuffix{}, fmt.Errorf("title: cannot parse %q as a cast suffix", raw)
	}
	var cs CastSuffix
	cs.Character = m["character"]
	cs.Notes = m["notes"]
	if o := m["order"]; o != "" {
		n, err := strconv.Atoi(o)
		if err != nil {
			return CastSuffix{}, fmt.Errorf("title: bad cast order %q: %w", o, err)
		}
		cs.Order = n
		cs.OrderOK = true
	}
	return cs, nil
}
