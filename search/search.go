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

// Package search implements the candidate scan and similarity-ranked
// scoring pipeline of spec.md §4.F: a substring-fingerprint prefilter
// over the <archive>.idx sidecar followed by a gestalt-ratio similarity
// score weighted by rating popularity and year proximity.
package search

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/screenlex/screenlex/fingerprint"
	"github.com/screenlex/screenlex/gestalt"
	"github.com/screenlex/screenlex/gzbridge"
	"github.com/screenlex/screenlex/ratelimit"
	"github.com/screenlex/screenlex/title"
)

// Result is one ranked search hit: a stored title (the canonical title
// for a primary hit, or the real title an aka name resolved to) and
// its similarity score, plus the matching aka name if the win came via
// an alternate title.
type Result struct {
	Title string
	Score float64
	Aka   string
}

// Options tunes the candidate scan. Query replaces any field that is
// zero or negative with its DefaultOptions value.
type Options struct {
	// Size is the fingerprint substring length.
	Size int
	// DeltaYear bounds the accepted year window around a query year.
	DeltaYear int
	// TopN bounds how many results Query returns.
	TopN int
}

// DefaultOptions returns spec.md's stated defaults (size=5,
// deltayear=8, top-N=30).
func DefaultOptions() Options {
	return Options{Size: 5, DeltaYear: 8, TopN: 30}
}

// candidate is one accepted line from the search index.
type candidate struct {
	title    string
	year     int
	hasYear  bool
	akaFor   string
	nratings int
}

// Query scans archivePath's search index sidecar for candidates whose
// fingerprint overlaps query's, optionally narrowed to a year window
// around year (year == 0 means no hint), ranks the survivors by
// gestalt similarity weighted by popularity and year proximity, and
// returns up to opts.TopN results sorted by descending score. timer
// may be nil to disable rate-limiting and timeout enforcement.
func Query(archivePath, query string, year int, timer *ratelimit.Timer, opts Options) ([]Result, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.DeltaYear <= 0 {
		opts.DeltaYear = DefaultOptions().DeltaYear
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultOptions().TopN
	}

	candidates, err := scanIndex(archivePath, query, year, opts, timer)
	if err != nil {
		return nil, err
	}

	scores, akas := rank(candidates, query, year)
	return topN(scores, akas, opts.TopN), nil
}

// scanIndex reads <archivePath>.idx line by line, keeping only lines
// that contain at least one query fingerprint as a substring and
// (when year != 0) whose year column falls within
// [year-deltayear, year+deltayear].
func scanIndex(archivePath, query string, year int, opts Options, timer *ratelimit.Timer) ([]candidate, error) {
	words := fingerprint.CleanWords(strings.Fields(query), true)
	wordlist := fingerprint.Subwords(words, opts.Size)

	rc, err := gzbridge.Open(archivePath + ".idx")
	if err != nil {
		return nil, fmt.Errorf("search: open index: %w", err)
	}
	defer rc.Close()

	hasYearWindow := year != 0
	validMin, validMax := year-opts.DeltaYear, year+opts.DeltaYear

	var out []candidate
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	i := 0
	for sc.Scan() {
		line := sc.Text()
		matched := false
		for _, w := range wordlist {
			if strings.Contains(line, w) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		fields := strings.SplitN(line, "\t", 5)
		if len(fields) != 5 {
			continue
		}
		ryearStr, titleStr, akaFor, nratingsStr := fields[1], fields[2], fields[3], fields[4]

		var c candidate
		c.title = titleStr
		c.akaFor = akaFor
		if n, cerr := strconv.Atoi(nratingsStr); cerr == nil {
			c.nratings = n
		}
		if ryearStr != "" {
			ry, cerr := strconv.Atoi(ryearStr)
			if cerr != nil {
				continue
			}
			if hasYearWindow && (ry < validMin || ry > validMax) {
				continue
			}
			c.year, c.hasYear = ry, true
		}
		out = append(out, c)

		i++
		if timer != nil && i%100 == 0 {
			if err := timer.Step(); err != nil {
				return nil, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("search: read index: %w", err)
	}
	return out, nil
}

// rank scores each candidate against query (and, if year != 0, query
// plus a " (YYYY)" suffix), per spec.md §4.F's weighting rules.
func rank(candidates []candidate, query string, year int) (map[string]float64, map[string]string) {
	thisYear := time.Now().Year()
	lcQuery := strings.ToLower(query)

	type queryVariant struct {
		penalty float64
		matcher *gestalt.Matcher
	}
	variants := []queryVariant{{1.0, gestalt.NewMatcher(lcQuery)}}
	if year != 0 {
		yearStr := " (" + strconv.Itoa(year)
		if !strings.Contains(lcQuery, yearStr) {
			variants = append(variants, queryVariant{1.0, gestalt.NewMatcher(lcQuery + yearStr + ")")})
		}
	}

	const baseCutoff = 0.6
	scores := make(map[string]float64)
	akas := make(map[string]string)

	for _, c := range candidates {
		name, ok := title.RawName(c.title)
		if !ok {
			continue
		}
		lowerName := strings.ToLower(name)

		type titleVariant struct {
			penalty float64
			s       string
		}
		titles := []titleVariant{
			{1.0, strings.ToLower(c.title)},
			{1.0, lowerName},
		}
		if year != 0 {
			if idx := strings.Index(lowerName, ":"); idx >= 0 {
				titles = append(titles, titleVariant{0.95, lowerName[:idx]})
			}
		}

		score := 0.0
		cutoff := baseCutoff
		for _, qv := range variants {
			for _, tv := range titles {
				qv.matcher.SetSeq1(tv.s)
				if qv.matcher.RealQuickRatio() <= cutoff || qv.matcher.QuickRatio() <= cutoff {
					continue
				}
				ratio := qv.matcher.Ratio() * qv.penalty * tv.penalty
				if ratio > cutoff {
					if ratio > score {
						score = ratio
					}
					cutoff = score
				}
			}
		}
		if score <= 0 {
			continue
		}

		storedTitle := c.akaFor
		if storedTitle == "" {
			storedTitle = c.title
		}

		factor := 0.0205376*math.Pow(float64(c.nratings), 0.167496) + 0.9226
		if len(storedTitle) > 0 && storedTitle[0] == '"' {
			factor *= 0.95
		}
		if !c.hasYear {
			factor *= 0.90
		} else if year != 0 {
			if year == thisYear && c.year == thisYear {
				factor = math.Max(factor, 1)
			}
			delta := float64(year - c.year)
			factor *= math.Exp(-(delta * delta) / 160.0)
		}
		score *= factor

		if existing, ok := scores[storedTitle]; !ok || existing < score {
			scores[storedTitle] = score
			if c.akaFor != "" {
				akas[storedTitle] = c.title
			} else {
				delete(akas, storedTitle)
			}
		}
	}
	return scores, akas
}

func topN(scores map[string]float64, akas map[string]string, n int) []Result {
	results := make([]Result, 0, len(scores))
	for t, s := range scores {
		results = append(results, Result{Title: t, Score: s, Aka: akas[t]})
	}
	slices.SortFunc(results, func(a, b Result) bool {
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Title < b.Title
	})
	if len(results) > n {
		results = results[:n]
	}
	return results
}
