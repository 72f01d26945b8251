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

// Package seekplan turns a set of query keys into an ordered list of
// byte ranges worth scanning in a listparse sub-stream, using either a
// sorted secondary index or the container's own bookmarks.
package seekplan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/screenlex/screenlex/chunkfile"
)

// Range is one read range: scan from Start until either End (if set)
// or N matching records have been consumed, whichever comes first.
// End == nil means "read until end-of-data".
type Range struct {
	Start int64
	End   *int64
	N     int
}

// Bookmarked computes a seek plan using only the primary sub-stream's
// own bookmarks (original_source's _find_seeks_bookmarks). fileobj is
// queried via FindBookmark for each key; overlapping/adjacent ranges
// are merged by ascending Start.
func Bookmarked(fileobj *chunkfile.Reader, queries []string) ([]Range, error) {
	type loc struct {
		start int64
		end   *int64
	}
	locs := make(map[int64]int) // start -> count
	endlocs := make(map[int64]*int64)
	haveEnd := make(map[int64]bool)

	for _, q := range queries {
		start, end, err := fileobj.FindBookmark([]byte(q), true)
		if err != nil {
			return nil, fmt.Errorf("seekplan: find bookmark for %q: %w", q, err)
		}
		if end == nil {
			endlocs[start] = nil
			haveEnd[start] = true
		} else if !haveEnd[start] || (endlocs[start] != nil && *endlocs[start] < *end) {
			e := *end
			endlocs[start] = &e
			haveEnd[start] = true
		}
		locs[start]++
	}

	var starts []int64
	for s := range locs {
		starts = append(starts, s)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	var out []Range
	var curStart, curEnd int64
	var curEndUnbounded bool
	var curN int
	haveCur := false
	for _, s := range starts {
		n := locs[s]
		var e *int64
		if haveEnd[s] {
			e = endlocs[s]
		}
		if !haveCur {
			curStart = s
			curEnd = 0
			curEndUnbounded = e == nil
			if e != nil {
				curEnd = *e
			}
			curN = n
			haveCur = true
			continue
		}
		// Does the next range overlap the running range?
		overlap := curEndUnbounded || s <= curEnd
		if overlap {
			if e == nil {
				curEndUnbounded = true
			} else if !curEndUnbounded && *e > curEnd {
				curEnd = *e
			}
			curN += n
			continue
		}
		out = append(out, rangeOf(curStart, curEnd, curEndUnbounded, curN))
		curStart = s
		curEndUnbounded = e == nil
		curEnd = 0
		if e != nil {
			curEnd = *e
		}
		curN = n
	}
	if haveCur && curN > 0 {
		out = append(out, rangeOf(curStart, curEnd, curEndUnbounded, curN))
	}
	return out, nil
}

func rangeOf(start, end int64, unbounded bool, n int) Range {
	r := Range{Start: start, N: n}
	if !unbounded {
		e := end
		r.End = &e
	}
	return r
}

// Indexed computes a seek plan using a sorted secondary index
// sub-stream of "key\toff1 off2 ...\n" lines (original_source's
// _find_seeks_index). One Range (with End == nil) is produced per
// distinct referenced primary-stream offset, N counting how many times
// that offset was referenced across all matching keys.
func Indexed(indexReader *chunkfile.Reader, queries []string) ([]Range, error) {
	sorted := append([]string(nil), queries...)
	sort.Strings(sorted)
	querySet := make(map[string]bool, len(sorted))
	for _, q := range sorted {
		querySet[q] = true
	}

	counts := make(map[int64]int)
	var lastBookmark int64
	first := true

	for _, q := range sorted {
		bookmark, _, err := indexReader.FindBookmark([]byte(q), false)
		if err != nil {
			return nil, fmt.Errorf("seekplan: find bookmark for %q: %w", q, err)
		}
		if first || bookmark != lastBookmark {
			if _, err := indexReader.Seek(bookmark, 0); err != nil {
				return nil, fmt.Errorf("seekplan: seek index to %d: %w", bookmark, err)
			}
			lastBookmark = bookmark
			first = false
		}
		for {
			line, err := indexReader.NextLine()
			if line == "" && err != nil {
				break
			}
			line = strings.TrimRight(line, "\n")
			title, nums, ok := strings.Cut(line, "\t")
			if !ok {
				break
			}
			if querySet[title] {
				for _, numStr := range strings.Fields(nums) {
					n, perr := strconv.ParseInt(numStr, 10, 64)
					if perr != nil {
						return nil, fmt.Errorf("seekplan: bad index offset %q: %w", numStr, perr)
					}
					counts[n]++
				}
			} else if title > q {
				break
			}
			if err != nil {
				break
			}
		}
	}

	var offsets []int64
	for off := range counts {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	out := make([]Range, 0, len(offsets))
	for _, off := range offsets {
		out = append(out, Range{Start: off, End: nil, N: counts[off]})
	}
	return out, nil
}
