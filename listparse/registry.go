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

// Entry describes one queryable per-title property and the Parser
// that rebuilds/looks it up. New returns a fresh Parser instance (a
// Parser carries rebuild/lookup state, so callers must not share one
// across concurrent rebuilds).
type Entry struct {
	Name string
	New  func() Parser
}

// Registry lists every per-title property parser, in the order
// original_source's parsers() enumerates them (alphabetically by
// attribute name).
var Registry = []Entry{
	{Name: "akaname", New: func() Parser { return &AkaParser{} }},
	{Name: "cast", New: func() Parser { return NewCastParser() }},
	{Name: "certificates", New: func() Parser { return &CertificatesParser{} }},
	{Name: "colorinfo", New: func() Parser { return &ColorInfoParser{} }},
	{Name: "directors", New: func() Parser { return NewDirectorsParser() }},
	{Name: "genres", New: func() Parser { return &GenresParser{} }},
	{Name: "plot", New: func() Parser { return &PlotParser{} }},
	{Name: "rating", New: func() Parser { return &RatingsParser{} }},
	{Name: "runningtime", New: func() Parser { return &RunningTimeParser{} }},
	{Name: "writers", New: func() Parser { return NewWritersParser() }},
}

// MoviesEntry is the movies list, handled outside Registry because it
// is never queried by title — it is only ever fully scanned to seed
// the search index (§4.E), unlike every Registry entry which supports
// point lookups by title.
var MoviesEntry = Entry{Name: "movies", New: func() Parser { return &MoviesParser{} }}
