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

// Package fingerprint normalizes title words into the cleaned,
// stemmed, substring-exploded form used both to build the search
// index's token column (searchindex) and to prefilter candidates
// during a search (search), per spec.md §4.E-§4.F.
package fingerprint

import (
	"regexp"
	"strconv"
	"strings"
)

var stripRe = regexp.MustCompile(`[^a-z0-9 ]+`)

// Clean lowercases word and removes every character that is not
// alphanumeric or a space (accents are dropped, not folded).
func Clean(word string) string {
	return stripRe.ReplaceAllString(strings.ToLower(word), "")
}

// stems are the four most common three-letter words in movie titles;
// dropped during stemming since they carry no discriminating power.
var stems = map[string]bool{"the": true, "and": true, "der": true, "for": true}

// CleanWords cleans every word and drops empties. If stripStems is set
// and more than one word was provided, it additionally drops words of
// length <= 2, the stems above, and 3-4 digit integers below 2100 —
// unless doing so would leave nothing, in which case the unstemmed
// list is kept.
func CleanWords(words []string, stripStems bool) []string {
	normed := make([]string, 0, len(words))
	for _, w := range words {
		if c := Clean(w); c != "" {
			normed = append(normed, c)
		}
	}
	if !stripStems || len(words) == 1 {
		return normed
	}
	var limited []string
	for _, w := range normed {
		if len(w) <= 2 || stems[w] {
			continue
		}
		if len(w) <= 4 {
			if n, err := strconv.Atoi(w); err == nil && n < 2100 {
				continue
			}
		}
		limited = append(limited, w)
	}
	if len(limited) == 0 {
		return normed
	}
	return limited
}

// Subwords explodes every word into its contiguous substrings of
// length size; a word shorter than size is yielded whole.
func Subwords(words []string, size int) []string {
	var out []string
	for _, w := range words {
		n := len(w) - size + 1
		if n <= 0 {
			out = append(out, w)
			continue
		}
		for i := 0; i < n; i++ {
			out = append(out, w[i:i+size])
		}
	}
	return out
}
