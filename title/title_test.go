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

package title

import "testing"

func TestParseMovie(t *testing.T) {
	p, err := Parse("The Matrix (1999)")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "The Matrix" || p.Year != "1999" || p.Category != "" {
		t.Fatalf("got %+v", p)
	}
}

func TestParseUnique(t *testing.T) {
	p, err := Parse("Hamlet (1996/I)")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Hamlet" || p.Year != "1996" || p.Unique != "/I" {
		t.Fatalf("got %+v", p)
	}
}

func TestParseTVShow(t *testing.T) {
	p, err := Parse(`"Breaking Bad" (2008)`)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Breaking Bad" || p.Category != "TV Show" {
		t.Fatalf("got %+v", p)
	}
}

func TestParseUnknownYear(t *testing.T) {
	p, err := Parse("Some Lost Film (????)")
	if err != nil {
		t.Fatal(err)
	}
	if p.Year != "" {
		t.Fatalf("got year %q, want unknown", p.Year)
	}
}

func TestParseVideoSuffix(t *testing.T) {
	p, err := Parse("Home Movie (2004) (V)")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Home Movie" {
		t.Fatalf("got %+v", p)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not a title at all"); err == nil {
		t.Fatal("expected error")
	}
}

func TestTitlePrefixSplitsCastSuffix(t *testing.T) {
	title, trailing, ok := TitlePrefix("The Matrix (1999)  [Neo]  <1>")
	if !ok {
		t.Fatal("expected match")
	}
	if title != "The Matrix (1999)" {
		t.Fatalf("got title %q", title)
	}
	if trailing != "  [Neo]  <1>" {
		t.Fatalf("got trailing %q", trailing)
	}
}

func TestParseName(t *testing.T) {
	n, err := ParseName("Doe, John (II)")
	if err != nil {
		t.Fatal(err)
	}
	if n.Last != "Doe" || n.First != "John" || n.Unique != "II" {
		t.Fatalf("got %+v", n)
	}
}

func TestParseNameNoFirst(t *testing.T) {
	n, err := ParseName("Cher")
	if err != nil {
		t.Fatal(err)
	}
	if n.Last != "Cher" || n.First != "" {
		t.Fatalf("got %+v", n)
	}
}

func TestParseCastSuffix(t *testing.T) {
	cs, err := ParseCastSuffix("  (uncredited)  [Neo]  <1>")
	if err != nil {
		t.Fatal(err)
	}
	if cs.Character != "Neo" || !cs.OrderOK || cs.Order != 1 {
		t.Fatalf("got %+v", cs)
	}
}

func TestParseCastSuffixEmpty(t *testing.T) {
	cs, err := ParseCastSuffix("")
	if err != nil {
		t.Fatal(err)
	}
	if cs.Character != "" || cs.OrderOK {
		t.Fatalf("got %+v", cs)
	}
}
