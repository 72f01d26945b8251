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

	"github.com/screenlex/screenlex/title"
)

// Credit is one person's credit on a title.
type Credit struct {
	Person    string
	Character string // empty if absent
	Order     int
	OrderOK   bool
	Notes     string // empty if absent
}

// namesParser is the shared implementation behind cast/directors/writers:
// person blocks headed by a non-tab "person\tcredit" line, followed by
// tab-indented further credits for the same person.
type namesParser struct {
	listName     string
	sources      []string
	lastPerson   string
	personOffset int64
	havePerson   bool
}

func (p *namesParser) ListName() string  { return p.listName }
func (p *namesParser) Sources() []string { return p.sources }
func (p *namesParser) SkipTVVG() bool    { return false }
func (p *namesParser) NeedsIndex() bool  { return true }

func (p *namesParser) HeaderSentinel() (string, int) {
	return "----\t\t\t------", 0
}

func (p *namesParser) Reset() {
	p.lastPerson = ""
	p.personOffset = 0
	p.havePerson = false
}

func (p *namesParser) ParseLine(line string, offset int64) (LineResult, error) {
	if line == "" {
		p.havePerson = false
		return LineResult{Outcome: Skip}, nil
	}
	if !strings.HasPrefix(line, "\t") {
		if len(line) > 60 && strings.Trim(line, "-") == "" {
			return LineResult{Outcome: End}, nil
		}
		person, rest, ok := strings.Cut(line, "\t")
		if !ok {
			return LineResult{}, fmt.Errorf("listparse: %s: missing credit on %q", p.listName, line)
		}
		p.lastPerson = person
		p.personOffset = offset
		p.havePerson = true
		line = rest
	}
	line = strings.TrimSpace(line)
	if strings.Contains(line, "(VG)") || strings.Contains(line, "{") {
		return LineResult{Outcome: Skip}, nil
	}
	if !p.havePerson {
		return LineResult{}, fmt.Errorf("listparse: %s: credit before any person: %q", p.listName, line)
	}

	titlePart, trailing, ok := title.TitlePrefix(line)
	if !ok {
		return LineResult{}, fmt.Errorf("listparse: %s: cannot extract title from %q", p.listName, line)
	}
	suffix, err := title.ParseCastSuffix(trailing)
	if err != nil {
		return LineResult{}, fmt.Errorf("listparse: %s: %w", p.listName, err)
	}

	return LineResult{
		Outcome: Record,
		Key:     titlePart,
		Offset:  p.personOffset,
		Payload: Credit{
			Person:    p.lastPerson,
			Character: suffix.Character,
			Order:     suffix.Order,
			OrderOK:   suffix.OrderOK,
			Notes:     suffix.Notes,
		},
	}, nil
}

// CastParser parses actors.list and actresses.list, merged under a
// single "cast" sub-stream (both sources need a secondary index since
// their merge is not globally sorted).
type CastParser struct{ namesParser }

func NewCastParser() *CastParser {
	return &CastParser{namesParser{listName: "cast", sources: []string{"actors", "actresses"}}}
}

var _ Parser = (*CastParser)(nil)

// DirectorsParser parses directors.list.
type DirectorsParser struct{ namesParser }

func NewDirectorsParser() *DirectorsParser {
	return &DirectorsParser{namesParser{listName: "directors", sources: []string{"directors"}}}
}

var _ Parser = (*DirectorsParser)(nil)

// WritersParser parses writers.list.
type WritersParser struct{ namesParser }

func NewWritersParser() *WritersParser {
	return &WritersParser{namesParser{listName: "writers", sources: []string{"writers"}}}
}

var _ Parser = (*WritersParser)(nil)
