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
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/klauspost/compress/gzip"
)

type chunkEntry struct {
	offset   int64
	bookmark []byte
	zf       *zip.File
}

// Reader provides sequential, seekable (zip-backed) or sequential-only
// (gzip-backed) access to a sub-stream.
type Reader struct {
	file *os.File

	// zip-backed state
	chunks   []chunkEntry
	chunkIdx int // index of the last chunk handed to buf

	// gzip-backed state
	isGzip bool
	gz     *gzip.Reader

	buf    []byte // decompressed bytes not yet delivered to the caller
	pos    int64  // logical offset of the next byte Read/NextLine will deliver
	eof    bool
	closed bool
}

// OpenReader opens sub-stream sub of the archive at path for reading.
// If path is not a valid zip container but is a valid gzip stream, the
// reader degrades to a single unseekable sub-stream (sub is ignored in
// that case, matching spec.md's gzip-transparency rule). Opening a
// sub-stream absent from an otherwise-valid archive yields an empty,
// immediately-EOF stream rather than an error.
func OpenReader(path, sub string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chunkfile: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("chunkfile: stat %s: %w", path, err)
	}
	if zr, zerr := zip.NewReader(f, info.Size()); zerr == nil {
		prefix := subPrefix(sub)
		var chunks []chunkEntry
		for _, zf := range zr.File {
			if off, bm, ok := parseChunkName(zf.Name, prefix); ok {
				chunks = append(chunks, chunkEntry{offset: off, bookmark: bm, zf: zf})
			}
		}
		sort.Slice(chunks, func(i, j int) bool { return chunks[i].offset < chunks[j].offset })
		return &Reader{file: f, chunks: chunks, chunkIdx: -1}, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("chunkfile: rewind %s: %w", path, err)
	}
	gz, gerr := gzip.NewReader(f)
	if gerr != nil {
		f.Close()
		return nil, ErrInvalidArchive
	}
	return &Reader{file: f, isGzip: true, gz: gz}, nil
}

// more appends the next available segment of decompressed bytes to
// r.buf, returning io.EOF once no further data exists for this
// sub-stream.
func (r *Reader) more() error {
	if r.eof {
		return io.EOF
	}
	if r.isGzip {
		tmp := make([]byte, 64*1024)
		n, err := r.gz.Read(tmp)
		if n > 0 {
			r.buf = append(r.buf, tmp[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				r.eof = true
			}
			if n == 0 {
				return io.EOF
			}
		}
		return nil
	}
	r.chunkIdx++
	if r.chunkIdx >= len(r.chunks) {
		r.eof = true
		return io.EOF
	}
	c := r.chunks[r.chunkIdx]
	rc, err := c.zf.Open()
	if err != nil {
		return fmt.Errorf("chunkfile: open chunk %s: %w", c.zf.Name, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("chunkfile: read chunk %s: %w", c.zf.Name, err)
	}
	r.buf = append(r.buf, data...)
	return nil
}

// Read implements io.Reader over the decompressed sub-stream.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(r.buf) == 0 {
		if err := r.more(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	r.pos += int64(n)
	return n, nil
}

// NextLine returns the next '\n'-terminated line (terminator included)
// or, at end of stream, a final unterminated fragment exactly once. It
// returns io.EOF once the stream is fully consumed.
func (r *Reader) NextLine() (string, error) {
	for {
		if i := bytes.IndexByte(r.buf, '\n'); i >= 0 {
			line := r.buf[:i+1]
			r.buf = r.buf[i+1:]
			r.pos += int64(len(line))
			return string(line), nil
		}
		err := r.more()
		if err == nil {
			continue
		}
		if err != io.EOF {
			return "", err
		}
		if len(r.buf) == 0 {
			return "", io.EOF
		}
		line := r.buf
		r.buf = nil
		r.pos += int64(len(line))
		return string(line), nil
	}
}

// Tell returns the logical offset of the next byte to be delivered.
func (r *Reader) Tell() int64 { return r.pos }

// Seek repositions the reader. whence must be io.SeekStart or
// io.SeekCurrent; io.SeekEnd is unsupported. Backward seeks are
// rejected on gzip-backed readers.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += r.pos
	default:
		return r.pos, fmt.Errorf("%w: seek from end", ErrUnsupported)
	}
	if r.isGzip {
		if offset < r.pos {
			return r.pos, fmt.Errorf("%w: backward seek on gzip stream", ErrUnsupported)
		}
		if err := r.discard(offset - r.pos); err != nil && err != io.EOF {
			return r.pos, err
		}
		return r.pos, nil
	}

	idx := -1
	for i := range r.chunks {
		if r.chunks[i].offset <= offset {
			idx = i
		} else {
			break
		}
	}
	r.buf = nil
	r.eof = false
	if idx < 0 {
		r.chunkIdx = -1
		r.pos = 0
	} else {
		r.chunkIdx = idx - 1
		r.pos = r.chunks[idx].offset
	}
	if err := r.discard(offset - r.pos); err != nil && err != io.EOF {
		return r.pos, err
	}
	return r.pos, nil
}

func (r *Reader) discard(n int64) error {
	for n > 0 {
		if len(r.buf) == 0 {
			if err := r.more(); err != nil {
				return err
			}
			continue
		}
		k := n
		if int64(len(r.buf)) < k {
			k = int64(len(r.buf))
		}
		r.buf = r.buf[k:]
		r.pos += k
		n -= k
	}
	return nil
}

// FindBookmark returns the logical offset of the last chunk whose
// bookmark is less than key (or 0 if none). With giveRange, it
// additionally returns the logical offset of the chunk that follows the
// first chunk whose bookmark exceeds key, so that the bookmarked chunk
// itself lies inside the range (nil if unbounded). Only valid on
// zip-backed readers.
func (r *Reader) FindBookmark(key []byte, giveRange bool) (start int64, end *int64, err error) {
	if r.isGzip {
		return 0, nil, fmt.Errorf("%w: bookmark lookup on gzip stream", ErrUnsupported)
	}
	var pos int64
	for _, c := range r.chunks {
		if c.bookmark != nil && bytes.Compare(c.bookmark, key) < 0 {
			pos = c.offset
		}
	}
	if !giveRange {
		return pos, nil, nil
	}
	foundUpper := false
	for _, c := range r.chunks {
		if foundUpper {
			e := c.offset
			return pos, &e, nil
		}
		if c.bookmark != nil && bytes.Compare(c.bookmark, key) > 0 {
			foundUpper = true
		}
	}
	return pos, nil, nil
}

// Close releases resources held by the reader.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.gz != nil {
		r.gz.Close()
	}
	return r.file.Close()
}
