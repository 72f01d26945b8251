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

package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/screenlex/screenlex/gzbridge"
)

func writeSource(t *testing.T, dir, name, body string) {
	t.Helper()
	w, err := gzbridge.Create(filepath.Join(dir, name+".list.gz"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func buildEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	srcDir := t.TempDir()

	writeSource(t, srcDir, "movies",
		"MOVIES LIST\n"+strings.Repeat("=", 11)+"\n\n"+
			"Spaceballs (1987)\t1987\n"+
			"The Matrix (1999)\t1999\n"+
			strings.Repeat("-", 80)+"\n")
	writeSource(t, srcDir, "ratings",
		"MOVIE RATINGS REPORT\n\nheader2\n"+
			"      0000000010   100   7.1  Spaceballs (1987)\n"+
			"      0000000010  5000   8.7  The Matrix (1999)\n")
	writeSource(t, srcDir, "aka-titles",
		"AKA TITLES LIST\n"+strings.Repeat("=", 15)+"\n\n\n"+
			"The Matrix (1999)\n"+
			"   (aka La Matrice (1999))\t(France)\n\n")
	writeSource(t, srcDir, "genres",
		"8: THE GENRES LIST\n\n\n"+
			"The Matrix (1999)\tSci-Fi\n"+
			"The Matrix (1999)\tAction\n")
	writeSource(t, srcDir, "plot",
		strings.Repeat("=", 19)+"\n\n"+
			"MV: The Matrix (1999)\n"+
			"PL: A hacker discovers reality is a simulation.\n\n")

	path := filepath.Join(t.TempDir(), "archive.zip")
	e, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Rebuild(srcDir); err != nil {
		t.Fatal(err)
	}
	return e, srcDir
}

func TestRebuildRejectsExistingArchive(t *testing.T) {
	e, srcDir := buildEngine(t)
	if err := e.Rebuild(srcDir); !errors.Is(err, ErrArchiveExists) {
		t.Fatalf("got %v, want ErrArchiveExists", err)
	}
}

func TestRebuildRequiresMovies(t *testing.T) {
	srcDir := t.TempDir()
	path := filepath.Join(t.TempDir(), "archive.zip")
	e, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Rebuild(srcDir); !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("got %v, want ErrSourceMissing", err)
	}
}

func TestSearchFindsTitleAndPopulatesAttributes(t *testing.T) {
	e, _ := buildEngine(t)

	results, err := e.Search("The Matrix", SearchOptions{Year: 1999})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 || results[0].Title.Raw != "The Matrix (1999)" {
		t.Fatalf("got %+v", results)
	}

	title := results[0].Title
	rating, err := title.Rating()
	if err != nil {
		t.Fatal(err)
	}
	if rating.NRatings != 5000 {
		t.Fatalf("got rating %+v", rating)
	}

	genres, err := title.Genres()
	if err != nil {
		t.Fatal(err)
	}
	if len(genres) != 2 || genres[0] != "Action" || genres[1] != "Sci-Fi" {
		t.Fatalf("got genres %+v", genres)
	}

	plot, err := title.Plot()
	if err != nil {
		t.Fatal(err)
	}
	if plot.Summary == "" {
		t.Fatalf("got empty plot")
	}

	akas, err := title.AkaNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(akas) != 1 || akas[0].Name != "La Matrice (1999)" {
		t.Fatalf("got akas %+v", akas)
	}
}

func TestSearchMatchViaAkaSetsAkaField(t *testing.T) {
	e, _ := buildEngine(t)
	results, err := e.Search("La Matrice", SearchOptions{Year: 1999})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 || results[0].Title.Aka != "La Matrice (1999)" {
		t.Fatalf("got %+v", results)
	}
}

func TestOpenRejectsCorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.zip")
	if err := os.WriteFile(path, []byte("not an archive"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, nil); !errors.Is(err, ErrArchiveInvalid) {
		t.Fatalf("got %v, want ErrArchiveInvalid", err)
	}
}
