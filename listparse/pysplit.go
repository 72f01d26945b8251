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

// splitWhitespaceN reproduces Python's str.split(None, maxSplit):
// leading runs of whitespace are collapsed and skipped, the string is
// split on whitespace runs up to maxSplit times, and the final element
// is everything remaining (with only its own leading whitespace
// stripped) — preserving any internal multi-space runs in that last
// field verbatim. It returns at most maxSplit+1 elements, and fewer if
// s is exhausted first.
func splitWhitespaceN(s string, maxSplit int) []string {
	var parts []string
	i := 0
	for len(parts) < maxSplit {
		for i < len(s) && isPySpace(s[i]) {
			i++
		}
		if i >= len(s) {
			return parts
		}
		start := i
		for i < len(s) && !isPySpace(s[i]) {
			i++
		}
		parts = append(parts, s[start:i])
	}
	for i < len(s) && isPySpace(s[i]) {
		i++
	}
	if i < len(s) {
		parts = append(parts, s[i:])
	}
	return parts
}

func isPySpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
