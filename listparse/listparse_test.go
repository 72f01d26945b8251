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
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func openerFor(files map[string]string) SourceOpener {
	return func(name string) (io.ReadCloser, error) {
		body, ok := files[name]
		if !ok {
			return nil, io.ErrUnexpectedEOF
		}
		return io.NopCloser(strings.NewReader(body)), nil
	}
}

func TestMoviesRebuildAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.zip")
	src := "MOVIES LIST\n" + strings.Repeat("=", 11) + "\n\n" +
		"Spaceballs (1987)\t1987\n" +
		"The Matrix (1999)\t1999\n" +
		strings.Repeat("-", 80) + "\n"
	open := openerFor(map[string]string{"movies": src})

	if err := Rebuild(path, &MoviesParser{}, open, 64, nil); err != nil {
		t.Fatal(err)
	}
	got, err := Lookup(path, &MoviesParser{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(got), got)
	}
	if got[0].Key != "Spaceballs (1987)" || got[1].Key != "The Matrix (1999)" {
		t.Fatalf("got %+v", got)
	}
}

func TestRatingsRebuildAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.zip")
	src := "MOVIE RATINGS REPORT\n\nheader2\n" +
		"      0000000010  10   8.5  Alpha (2001)\n" +
		"      0000000001   1   5.0  Beta (2002)\n"
	open := openerFor(map[string]string{"ratings": src})

	if err := Rebuild(path, &RatingsParser{}, open, 64, nil); err != nil {
		t.Fatal(err)
	}
	got, err := Lookup(path, &RatingsParser{}, []string{"Beta (2002)"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Key != "Beta (2002)" {
		t.Fatalf("got %+v", got)
	}
	rating := got[0].Payload.(Rating)
	if rating.NRatings != 1 || rating.Score != "5.0" {
		t.Fatalf("got %+v", rating)
	}
}

func TestCastRebuildAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.zip")
	actors := "THE ACTORS LIST\n----\t\t\t------\n\n" +
		"Reeves, Keanu\tThe Matrix (1999)  [Neo]  <1>\n" +
		"\tSpeed (1994)  [Jack Traven]  <1>\n\n"
	actresses := "THE ACTRESSES LIST\n----\t\t\t------\n\n" +
		"Moss, Carrie-Anne\tThe Matrix (1999)  [Trinity]  <2>\n\n"
	open := openerFor(map[string]string{"actors": actors, "actresses": actresses})

	p := NewCastParser()
	if err := Rebuild(path, p, open, 64, nil); err != nil {
		t.Fatal(err)
	}
	got, err := Lookup(path, NewCastParser(), []string{"The Matrix (1999)"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(got), got)
	}
	for _, r := range got {
		c := r.Payload.(Credit)
		if c.Person != "Reeves, Keanu" && c.Person != "Moss, Carrie-Anne" {
			t.Fatalf("unexpected person %+v", c)
		}
	}
}

func TestPlotLookupReturnsEveryPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.zip")
	src := "PLOT SUMMARIES\n" + strings.Repeat("=", 19) + "\n\n" +
		"MV: Alpha (2001)\n\n" +
		"PL: A very long plot summary about Alpha.\n\n" +
		"BY: someone\n\n" +
		"MV: Alpha (2001)\n\n" +
		"PL: Short.\n\n" +
		"BY: someone\n\n"
	open := openerFor(map[string]string{"plot": src})

	if err := Rebuild(path, &PlotParser{}, open, 64, nil); err != nil {
		t.Fatal(err)
	}
	got, err := Lookup(path, &PlotParser{}, []string{"Alpha (2001)"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(got), got)
	}
}
