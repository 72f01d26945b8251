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

// AkaName is one alternate title for a movie.
type AkaName struct {
	Name   string
	Region string // empty if absent
}

// AkaParser parses aka-titles.list: blocks of one canonical title
// followed by zero or more "   (aka ...)" alternates.
type AkaParser struct {
	lastTitle   string
	titleOffset int64
	haveTitle   bool
}

var _ Parser = (*AkaParser)(nil)

func (*AkaParser) ListName() string  { return "aka-titles" }
func (*AkaParser) Sources() []string { return []string{"aka-titles"} }
func (*AkaParser) SkipTVVG() bool    { return true }
func (*AkaParser) NeedsIndex() bool  { return true }

func (*AkaParser) HeaderSentinel() (string, int) {
	return strings.Repeat("=", 15), 2
}

func (p *AkaParser) Reset() {
	p.lastTitle = ""
	p.titleOffset = 0
	p.haveTitle = false
}

func (p *AkaParser) ParseLine(line string, offset int64) (LineResult, error) {
	if line == "" {
		p.haveTitle = false
		return LineResult{Outcome: Skip}, nil
	}
	if strings.HasPrefix(line, "   (aka ") {
		if !p.haveTitle {
			return LineResult{}, fmt.Errorf("listparse: aka-titles: alternate before any title: %q", line)
		}
		info := strings.SplitN(line[8:], "\t", 2)
		name := info[0]
		if len(name) > 0 {
			name = name[:len(name)-1] // drop the matching ")" that closed the "(aka " open paren
		}
		region := ""
		if len(info) > 1 {
			region = info[1]
		}
		return LineResult{
			Outcome: Record,
			Key:     p.lastTitle,
			Offset:  p.titleOffset,
			Payload: AkaName{Name: name, Region: region},
		}, nil
	}
	if !strings.HasPrefix(line, " ") {
		p.lastTitle = line
		p.titleOffset = offset
		p.haveTitle = true
		return LineResult{Outcome: Skip}, nil
	}
	return LineResult{}, fmt.Errorf("listparse: aka-titles: unexpected line %q", line)
}
