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

package search

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/screenlex/screenlex/listparse"
	"github.com/screenlex/screenlex/searchindex"
)

func openerFor(files map[string]string) listparse.SourceOpener {
	return func(name string) (io.ReadCloser, error) {
		body, ok := files[name]
		if !ok {
			return nil, io.ErrUnexpectedEOF
		}
		return io.NopCloser(strings.NewReader(body)), nil
	}
}

func buildFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.zip")

	movies := "MOVIES LIST\n" + strings.Repeat("=", 11) + "\n\n" +
		"Spaceballs (1987)\t1987\n" +
		"The Matrix (1999)\t1999\n" +
		strings.Repeat("-", 80) + "\n"
	aka := "AKA TITLES LIST\n" + strings.Repeat("=", 15) + "\n\n\n" +
		"The Matrix (1999)\n" +
		"   (aka La Matrice (1999))\t(France)\n\n"
	ratings := "MOVIE RATINGS REPORT\n\nheader2\n" +
		"      0000000010   100   7.1  Spaceballs (1987)\n" +
		"      0000000010  5000   8.7  The Matrix (1999)\n"

	open := openerFor(map[string]string{"movies": movies, "aka-titles": aka, "ratings": ratings})
	if err := listparse.Rebuild(path, &listparse.MoviesParser{}, open, 64, nil); err != nil {
		t.Fatal(err)
	}
	if err := listparse.Rebuild(path, &listparse.AkaParser{}, open, 64, nil); err != nil {
		t.Fatal(err)
	}
	if err := listparse.Rebuild(path, &listparse.RatingsParser{}, open, 64, nil); err != nil {
		t.Fatal(err)
	}
	if err := searchindex.Build(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestQueryExactTitleWins(t *testing.T) {
	path := buildFixture(t)
	results, err := Query(path, "The Matrix", 1999, nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 || results[0].Title != "The Matrix (1999)" {
		t.Fatalf("got %+v", results)
	}
}

func TestQueryMatchesAkaName(t *testing.T) {
	path := buildFixture(t)
	results, err := Query(path, "La Matrice", 1999, nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatalf("expected at least one result")
	}
	if results[0].Title != "The Matrix (1999)" || results[0].Aka != "La Matrice (1999)" {
		t.Fatalf("got %+v", results[0])
	}
}

func TestQueryUnrelatedTermsScoreNothing(t *testing.T) {
	path := buildFixture(t)
	results, err := Query(path, "Completely Unrelated Nonsense Title", 0, nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("got %+v, want no matches", results)
	}
}

func TestQueryRanksHigherRatedAboveWeakerMatch(t *testing.T) {
	path := buildFixture(t)
	results, err := Query(path, "Matrix", 0, nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 || results[0].Title != "The Matrix (1999)" {
		t.Fatalf("got %+v", results)
	}
}
