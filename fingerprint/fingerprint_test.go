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

package fingerprint

import (
	"reflect"
	"testing"
)

func TestCleanStripsAccentsAndPunctuation(t *testing.T) {
	if got := Clean("Die Hard: 4.0"); got != "die hard 40" {
		t.Fatalf("got %q", got)
	}
	if got := Clean("Amélie"); got != "amlie" {
		t.Fatalf("got %q", got)
	}
}

func TestCleanWordsDropsStemsAndSmallNumbers(t *testing.T) {
	got := CleanWords([]string{"The", "Matrix", "2"}, true)
	want := []string{"matrix"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCleanWordsKeepsUnstemmedWhenEmpty(t *testing.T) {
	got := CleanWords([]string{"The", "And"}, true)
	want := []string{"the", "and"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCleanWordsSingleWordNeverStemmed(t *testing.T) {
	got := CleanWords([]string{"The"}, true)
	want := []string{"the"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSubwordsShortWordYieldsWhole(t *testing.T) {
	got := Subwords([]string{"it"}, 5)
	want := []string{"it"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSubwordsExplodesLongWord(t *testing.T) {
	got := Subwords([]string{"miserables"}, 5)
	want := []string{"miser", "isera", "serab", "erabl", "rable", "ables"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
