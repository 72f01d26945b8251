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

// Package searchindex builds the <archive>.idx search index sidecar
// from an already-rebuilt archive's movies, aka-titles and ratings
// sub-streams, per spec.md §4.E.
package searchindex

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/screenlex/screenlex/fingerprint"
	"github.com/screenlex/screenlex/gzbridge"
	"github.com/screenlex/screenlex/listparse"
	"github.com/screenlex/screenlex/title"
)

// Build scans archivePath's rebuilt movies, aka-titles and ratings
// sub-streams and (re)writes the gzip search index at
// archivePath+".idx".
func Build(archivePath string) error {
	ratings, err := loadRatings(archivePath)
	if err != nil {
		return err
	}

	out, err := gzbridge.Create(archivePath + ".idx")
	if err != nil {
		return fmt.Errorf("searchindex: create index: %w", err)
	}
	w := bufio.NewWriter(out)

	if err := indexMovies(archivePath, ratings, w); err != nil {
		out.Close()
		return err
	}
	if err := indexAkaNames(archivePath, ratings, w); err != nil {
		out.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("searchindex: flush index: %w", err)
	}
	return out.Close()
}

func loadRatings(archivePath string) (map[string]listparse.Rating, error) {
	recs, err := listparse.Lookup(archivePath, &listparse.RatingsParser{}, nil)
	if err != nil {
		return nil, fmt.Errorf("searchindex: load ratings: %w", err)
	}
	out := make(map[string]listparse.Rating, len(recs))
	for _, r := range recs {
		out[r.Key] = r.Payload.(listparse.Rating)
	}
	return out, nil
}

// indexMovies writes one index entry per primary movies.list title.
func indexMovies(archivePath string, ratings map[string]listparse.Rating, w *bufio.Writer) error {
	recs, err := listparse.Lookup(archivePath, &listparse.MoviesParser{}, nil)
	if err != nil {
		return fmt.Errorf("searchindex: scan movies: %w", err)
	}
	for _, rec := range recs {
		parsed, perr := title.Parse(rec.Key)
		if perr != nil {
			continue
		}
		nratings := 0
		if r, ok := ratings[parsed.Raw]; ok {
			nratings = r.NRatings
		}
		if err := writeEntry(w, parsed, "", nratings); err != nil {
			return err
		}
	}
	return nil
}

// indexAkaNames writes one index entry per aka-titles alternate name,
// deduplicating consecutive (real_title, aka_name) repeats.
func indexAkaNames(archivePath string, ratings map[string]listparse.Rating, w *bufio.Writer) error {
	recs, err := listparse.Lookup(archivePath, &listparse.AkaParser{}, nil)
	if err != nil {
		return fmt.Errorf("searchindex: scan aka-titles: %w", err)
	}
	var lastCanonical, lastAka string
	haveLast := false
	for _, rec := range recs {
		aka := rec.Payload.(listparse.AkaName)
		canonical := rec.Key
		if haveLast && lastCanonical == canonical && lastAka == aka.Name {
			continue
		}
		lastCanonical, lastAka, haveLast = canonical, aka.Name, true

		parsed, perr := title.Parse(aka.Name)
		if perr != nil {
			continue
		}
		nratings := 0
		if r, ok := ratings[canonical]; ok {
			nratings = r.NRatings
		}
		if err := writeEntry(w, parsed, canonical, nratings); err != nil {
			return err
		}
	}
	return nil
}

// writeEntry emits one "tokens\tyear\ttitle\taka_for\tnratings\n" line.
func writeEntry(w *bufio.Writer, parsed title.Parsed, akaFor string, nratings int) error {
	tokens := strings.ReplaceAll(fingerprint.Clean(parsed.Name), " ", "")
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", tokens, parsed.Year, parsed.Raw, akaFor, strconv.Itoa(nratings))
	return err
}
