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

package gzbridge

import (
	"io"
	"path/filepath"
	"testing"
)

func TestFallbackRoundTrip(t *testing.T) {
	old := Command
	Command = []string{"gzbridge-definitely-not-a-real-binary"}
	defer func() { Command = old }()

	path := filepath.Join(t.TempDir(), "movies.list.gz")
	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("MOVIES LIST\n===========\nTitle (2001)\t2001\n")
	if _, err := w.Write(want); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Fatalf("got %q want %q", got, want)
	}
}
