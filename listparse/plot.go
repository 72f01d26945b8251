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
	"strings"
)

// Plot is a title's plot summary.
type Plot struct {
	Summary string
	Byline  string // reserved; original_source never populates this
}

// PlotParser parses plot.list. The file is not globally sorted by
// title, so a secondary index is required.
type PlotParser struct {
	lastTitle  string
	titleBegin int64
	haveTitle  bool
	plotLines  []string
}

var _ Parser = (*PlotParser)(nil)

func (*PlotParser) ListName() string  { return "plot" }
func (*PlotParser) Sources() []string { return []string{"plot"} }
func (*PlotParser) SkipTVVG() bool    { return false }
func (*PlotParser) NeedsIndex() bool  { return true }

func (*PlotParser) HeaderSentinel() (string, int) {
	return strings.Repeat("=", 19), 1
}

func (p *PlotParser) Reset() {
	p.lastTitle = ""
	p.haveTitle = false
	p.plotLines = nil
}

func (p *PlotParser) ParseLine(line string, offset int64) (LineResult, error) {
	var tag, data string
	if line != "" {
		if len(line) >= 2 {
			tag = line[0:2]
		}
		if len(line) >= 4 {
			data = line[4:]
		}
	} else {
		tag = "--"
	}

	switch {
	case tag == "MV":
		if strings.Contains(data, "(VG)") || strings.Contains(data, "{") {
			p.haveTitle = false
		} else {
			p.lastTitle = data
			p.titleBegin = offset
			p.haveTitle = true
			p.plotLines = nil
		}
		return LineResult{Outcome: Skip}, nil
	case !p.haveTitle:
		return LineResult{Outcome: Skip}, nil
	case tag == "PL":
		p.plotLines = append(p.plotLines, data)
		return LineResult{Outcome: Skip}, nil
	case len(p.plotLines) > 0:
		title := p.lastTitle
		plotOffset := p.titleBegin
		summary := strings.Join(p.plotLines, " ")
		p.plotLines = nil
		return LineResult{
			Outcome: Record,
			Key:     title,
			Offset:  plotOffset,
			Payload: Plot{Summary: summary},
		}, nil
	}
	return LineResult{Outcome: Skip}, nil
}
