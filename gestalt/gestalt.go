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

// Package gestalt implements Python difflib's SequenceMatcher "ratio"
// family of string-similarity measures: a gestalt pattern-matching
// algorithm that finds the longest matching block, then recurses on
// the unmatched left/right remainders. Go's teacher stack exercises
// approximate string matching with an edit-distance kernel
// (fuzzy.EditDistance); that kernel computes a different metric
// (weighted edit operations) and cannot reproduce SequenceMatcher's
// longest-matching-block recursion or its real_quick_ratio/quick_ratio
// short-circuit gates, so this package re-implements the gestalt
// algorithm directly instead of adapting the teacher's kernel — see
// DESIGN.md.
package gestalt

// Matcher compares two strings the way Python's
// difflib.SequenceMatcher(a=..., b=...) does, with autojunk disabled
// (IMDb titles are short enough that junk heuristics are unnecessary
// and would only suppress legitimate repeated characters).
type Matcher struct {
	a, b  string
	b2j   map[byte][]int
	lenA  int
	lenB  int
}

// NewMatcher creates a Matcher with a fixed second sequence b. Callers
// compare many candidate a strings against the same b (the query) by
// calling SetSeq1 repeatedly, exactly like Python code that does
// SequenceMatcher(b=query) once and calls set_seq1 per candidate.
func NewMatcher(b string) *Matcher {
	m := &Matcher{}
	m.SetSeq2(b)
	return m
}

// SetSeq2 changes the fixed comparison string and rebuilds its
// character index.
func (m *Matcher) SetSeq2(b string) {
	m.b = b
	m.lenB = len(b)
	m.b2j = make(map[byte][]int, len(b))
	for i := 0; i < len(b); i++ {
		c := b[i]
		m.b2j[c] = append(m.b2j[c], i)
	}
}

// SetSeq1 changes the variable comparison string.
func (m *Matcher) SetSeq1(a string) {
	m.a = a
	m.lenA = len(a)
}

// RealQuickRatio returns an upper bound on Ratio that is cheap to
// compute from the two lengths alone (difflib's real_quick_ratio).
func (m *Matcher) RealQuickRatio() float64 {
	la, lb := m.lenA, m.lenB
	if la+lb == 0 {
		return 1.0
	}
	minLen := la
	if lb < minLen {
		minLen = lb
	}
	return 2.0 * float64(minLen) / float64(la+lb)
}

// QuickRatio returns an upper bound on Ratio computed from character
// multiset overlap (difflib's quick_ratio), tighter than
// RealQuickRatio but still avoiding the full matching-blocks recursion.
func (m *Matcher) QuickRatio() float64 {
	fullBCount := make(map[byte]int, len(m.b2j))
	for c, idxs := range m.b2j {
		fullBCount[c] = len(idxs)
	}
	avail := make(map[byte]int, len(fullBCount))
	matches := 0
	for i := 0; i < m.lenA; i++ {
		c := m.a[i]
		numb, ok := avail[c]
		if !ok {
			numb = fullBCount[c]
		}
		avail[c] = numb - 1
		if numb > 0 {
			matches++
		}
	}
	return calcRatio(matches, m.lenA+m.lenB)
}

// Ratio returns 2*M/T where M is the total length of all matching
// blocks found by recursive longest-common-substring extraction and T
// is the combined length of both strings (difflib's ratio()).
func (m *Matcher) Ratio() float64 {
	matches := 0
	for _, blk := range m.MatchingBlocks() {
		matches += blk.Size
	}
	return calcRatio(matches, m.lenA+m.lenB)
}

func calcRatio(matches, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matches) / float64(total)
}

// Match is one maximal matching block: a[A:A+Size] == b[B:B+Size].
type Match struct {
	A, B, Size int
}

// MatchingBlocks returns the (non-overlapping, ascending) matching
// blocks between the current a and b, via difflib's recursive
// find-longest-match strategy.
func (m *Matcher) MatchingBlocks() []Match {
	var queue [][4]int
	queue = append(queue, [4]int{0, m.lenA, 0, m.lenB})
	var raw []Match
	for len(queue) > 0 {
		q := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		alo, ahi, blo, bhi := q[0], q[1], q[2], q[3]
		match := m.findLongestMatch(alo, ahi, blo, bhi)
		if match.Size > 0 {
			raw = append(raw, match)
			if alo < match.A && blo < match.B {
				queue = append(queue, [4]int{alo, match.A, blo, match.B})
			}
			if match.A+match.Size < ahi && match.B+match.Size < bhi {
				queue = append(queue, [4]int{match.A + match.Size, ahi, match.B + match.Size, bhi})
			}
		}
	}
	// Sort by (A, B) ascending, as difflib does, by insertion order via
	// stack traversal reversed; a stable sort keeps this simple and
	// correct regardless of push/pop order above.
	for i := 1; i < len(raw); i++ {
		for j := i; j > 0 && (raw[j-1].A > raw[j].A || (raw[j-1].A == raw[j].A && raw[j-1].B > raw[j].B)); j-- {
			raw[j-1], raw[j] = raw[j], raw[j-1]
		}
	}
	return raw
}

// findLongestMatch finds the longest matching block within
// a[alo:ahi] and b[blo:bhi], preferring (on ties) the match starting
// earliest in a, then earliest in b.
func (m *Matcher) findLongestMatch(alo, ahi, blo, bhi int) Match {
	besti, bestj, bestsize := alo, blo, 0
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return Match{A: besti, B: bestj, Size: bestsize}
}
