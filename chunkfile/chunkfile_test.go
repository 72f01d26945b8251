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

package chunkfile

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
)

func writeAll(t *testing.T, w *Writer, chunks [][]byte) {
	t.Helper()
	for _, c := range chunks {
		if _, err := w.Write(c); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	w, err := OpenWriter(path, "movies", Truncate, 16)
	if err != nil {
		t.Fatal(err)
	}
	want := bytes.Repeat([]byte("abcdefghij"), 50)
	writeAll(t, w, [][]byte{want[:30], want[30:137], want[137:]})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := OpenReader(path, "movies")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(want))
	}
}

func TestMissingSubStreamIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	w, err := OpenWriter(path, "present", Truncate, 16)
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("hello"))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	r, err := OpenReader(path, "absent")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.NextLine(); err != io.EOF {
		t.Fatalf("expected io.EOF for missing sub-stream, got %v", err)
	}
}

func TestAppendPreservesOtherSubStreams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	w1, err := OpenWriter(path, "a", Truncate, 16)
	if err != nil {
		t.Fatal(err)
	}
	w1.Write([]byte("first stream\n"))
	if err := w1.Close(); err != nil {
		t.Fatal(err)
	}

	w2, err := OpenWriter(path, "b", Append, 16)
	if err != nil {
		t.Fatal(err)
	}
	w2.Write([]byte("second stream\n"))
	if err := w2.Close(); err != nil {
		t.Fatal(err)
	}

	ra, err := OpenReader(path, "a")
	if err != nil {
		t.Fatal(err)
	}
	defer ra.Close()
	gotA, _ := io.ReadAll(ra)
	if string(gotA) != "first stream\n" {
		t.Fatalf("sub-stream a: got %q", gotA)
	}

	rb, err := OpenReader(path, "b")
	if err != nil {
		t.Fatal(err)
	}
	defer rb.Close()
	gotB, _ := io.ReadAll(rb)
	if string(gotB) != "second stream\n" {
		t.Fatalf("sub-stream b: got %q", gotB)
	}
}

func TestSeekDeterminism(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	w, err := OpenWriter(path, "", Truncate, 16)
	if err != nil {
		t.Fatal(err)
	}
	want := bytes.Repeat([]byte("0123456789"), 40)
	writeAll(t, w, [][]byte{want})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	for _, off := range []int64{0, 1, 15, 16, 17, 200, int64(len(want))} {
		r, err := OpenReader(path, "")
		if err != nil {
			t.Fatal(err)
		}
		pos, err := r.Seek(off, io.SeekStart)
		if err != nil {
			t.Fatalf("seek(%d): %v", off, err)
		}
		if pos != off {
			t.Fatalf("tell() after seek(%d) = %d", off, pos)
		}
		got := make([]byte, 5)
		n, _ := io.ReadFull(r, got)
		got = got[:n]
		want := want[off:]
		if len(want) > 5 {
			want = want[:5]
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("seek(%d) then read: got %q want %q", off, got, want)
		}
		r.Close()
	}
}

func TestBookmarkUpperBoundsSeek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	w, err := OpenWriter(path, "idx", Truncate, 64)
	if err != nil {
		t.Fatal(err)
	}
	keys := [][]byte{[]byte("aaa"), []byte("bbb"), []byte("ccc"), []byte("ddd")}
	var recordOffsets []int64
	for _, k := range keys {
		recordOffsets = append(recordOffsets, w.flushedOffset+int64(len(w.buf)))
		w.Write(append(append([]byte{}, k...), "\trecord\n"...))
		if err := w.Bookmark(k); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	for i, k := range keys {
		r, err := OpenReader(path, "idx")
		if err != nil {
			t.Fatal(err)
		}
		start, end, err := r.FindBookmark(k, true)
		if err != nil {
			t.Fatal(err)
		}
		if start > recordOffsets[i] {
			t.Fatalf("find_bookmark(%s) start %d > record offset %d", k, start, recordOffsets[i])
		}
		if end != nil && *end <= recordOffsets[i] {
			t.Fatalf("find_bookmark(%s) end %d <= record offset %d", k, *end, recordOffsets[i])
		}
		r.Close()
	}
}

func TestBookmarkOrderEnforced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	w, err := OpenWriter(path, "idx", Truncate, 64)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Bookmark([]byte("b")); err != nil {
		t.Fatal(err)
	}
	if err := w.Bookmark([]byte("a")); err == nil {
		t.Fatal("expected error for decreasing bookmark key")
	}
	w.Close()
}

func TestGzipTransparentRead(t *testing.T) {
	// A ChunkedFile that isn't a valid zip but is plain gzip degrades to
	// a single unseekable sub-stream (used to read raw *.list.gz inputs).
	path := filepath.Join(t.TempDir(), "raw.list.gz")
	if err := writeGzipFixture(path, []byte("line one\nline two\n")); err != nil {
		t.Fatal(err)
	}
	r, err := OpenReader(path, "")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	line1, err := r.NextLine()
	if err != nil || line1 != "line one\n" {
		t.Fatalf("line1 = %q, %v", line1, err)
	}
	if _, err := r.Seek(-1, io.SeekCurrent); err == nil {
		t.Fatal("expected backward seek on gzip to fail")
	}
}
