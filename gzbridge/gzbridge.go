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

// Package gzbridge reads IMDb's raw "*.list.gz" files through an
// external gzip-compatible decompressor subprocess, falling back to an
// in-process decoder when the subprocess cannot be started. Spawning a
// subprocess is purely a latency optimization over large files; both
// paths present the identical io.ReadCloser interface.
package gzbridge

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/klauspost/compress/gzip"
)

// Command is the external decompressor invoked by Open, in gzip(1)
// style: Open appends "-d" to it, feeds the opened file on stdin, and
// reads the decompressed bytes from its stdout.
var Command = []string{"gzip", "--quiet"}

type subprocessReader struct {
	cmd  *exec.Cmd
	in   *os.File
	pipe io.ReadCloser
}

func (s *subprocessReader) Read(p []byte) (int, error) { return s.pipe.Read(p) }

func (s *subprocessReader) Close() error {
	pipeErr := s.pipe.Close()
	waitErr := s.cmd.Wait()
	inErr := s.in.Close()
	if pipeErr != nil {
		return pipeErr
	}
	if waitErr != nil {
		return waitErr
	}
	return inErr
}

type fallbackReader struct {
	in *os.File
	gz *gzip.Reader
}

func (f *fallbackReader) Read(p []byte) (int, error) { return f.gz.Read(p) }

func (f *fallbackReader) Close() error {
	gzErr := f.gz.Close()
	inErr := f.in.Close()
	if gzErr != nil {
		return gzErr
	}
	return inErr
}

// Open returns a reader over the decompressed contents of the gzip
// file at path, preferring the external Command subprocess and
// falling back to an in-process decoder if the subprocess cannot be
// started (e.g. the binary is absent from PATH).
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gzbridge: open %s: %w", path, err)
	}

	args := append(append([]string{}, Command[1:]...), "-d")
	cmd := exec.Command(Command[0], args...)
	cmd.Stdin = f
	stdout, err := cmd.StdoutPipe()
	if err == nil {
		cmd.Stderr = nil
		if err = cmd.Start(); err == nil {
			return &subprocessReader{cmd: cmd, in: f, pipe: stdout}, nil
		}
	}

	// Subprocess unavailable: decode in-process instead.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("gzbridge: rewind %s: %w", path, err)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gzbridge: %s is not a valid gzip stream: %w", path, err)
	}
	return &fallbackReader{in: f, gz: gz}, nil
}

// Create returns a writer that compresses everything written to it
// and stores the gzip stream at path. Used to build test fixtures and
// by searchindex to write the "<archive>.idx" sidecar; the engine
// itself never writes "*.list.gz" inputs.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("gzbridge: create %s: %w", path, err)
	}
	gw := gzip.NewWriter(f)
	return &writeCloser{f: f, gw: gw}, nil
}

type writeCloser struct {
	f  *os.File
	gw *gzip.Writer
}

func (w *writeCloser) Write(p []byte) (int, error) { return w.gw.Write(p) }

func (w *writeCloser) Close() error {
	gwErr := w.gw.Close()
	fErr := w.f.Close()
	if gwErr != nil {
		return gwErr
	}
	return fErr
}
