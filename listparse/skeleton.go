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
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/screenlex/screenlex/chunkfile"
	"github.com/screenlex/screenlex/seekplan"
)

// SourceOpener opens one of a Parser's named raw sources for
// sequential reading. A source that cannot be opened (e.g. not
// present on disk) is reported to onSkip, if non-nil, and otherwise
// ignored rather than failing the whole rebuild.
type SourceOpener func(name string) (io.ReadCloser, error)

// Rebuild ingests every one of p's sources into sub-stream p.ListName()
// of the archive at archivePath, building a secondary index sub-stream
// if p.NeedsIndex(), per spec.md §4.C's rebuild protocol.
func Rebuild(archivePath string, p Parser, open SourceOpener, chunkSize int, onSkip func(source string, err error)) error {
	p.Reset()
	w, err := chunkfile.OpenWriter(archivePath, p.ListName(), chunkfile.Append, chunkSize)
	if err != nil {
		return fmt.Errorf("listparse: open %s writer: %w", p.ListName(), err)
	}

	var index map[string][]int64
	if p.NeedsIndex() {
		index = make(map[string][]int64)
	}
	sentinel, extraSkip := p.HeaderSentinel()

	for _, srcName := range p.Sources() {
		rc, openErr := open(srcName)
		if openErr != nil {
			if onSkip != nil {
				onSkip(srcName, openErr)
			}
			continue
		}
		err = rebuildSource(w, p, rc, sentinel, extraSkip, index)
		rc.Close()
		if err != nil {
			w.Close()
			return fmt.Errorf("listparse: rebuild %s from %s: %w", p.ListName(), srcName, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("listparse: close %s writer: %w", p.ListName(), err)
	}

	if index != nil {
		return writeIndex(archivePath, p.ListName(), index, chunkSize)
	}
	return nil
}

func rebuildSource(w *chunkfile.Writer, p Parser, rc io.ReadCloser, sentinel string, extraSkip int, index map[string][]int64) error {
	br := bufio.NewReader(rc)
	if err := skipHeader(br, sentinel, extraSkip); err != nil {
		return err
	}
	for {
		raw, rerr := br.ReadString('\n')
		if raw == "" && rerr != nil {
			return nil
		}
		if p.SkipTVVG() && containsVGOrEpisode(raw) {
			if rerr != nil {
				return nil
			}
			continue
		}
		offset := w.Tell()
		if _, werr := w.Write([]byte(raw)); werr != nil {
			return fmt.Errorf("copy line: %w", werr)
		}
		trimmed := strings.TrimRight(raw, "\r\n")
		decoded := decodeLatin1([]byte(trimmed))
		res, perr := p.ParseLine(decoded, offset)
		if perr != nil {
			return perr
		}
		switch res.Outcome {
		case End:
			return nil
		case Skip:
			// continue
		case Record:
			if index != nil {
				index[res.Key] = append(index[res.Key], res.Offset)
			} else if err := w.Bookmark([]byte(res.Key)); err != nil {
				return err
			}
		}
		if rerr != nil {
			return nil
		}
	}
}

func skipHeader(br *bufio.Reader, sentinel string, extraSkip int) error {
	for {
		line, err := br.ReadString('\n')
		if strings.TrimRight(line, "\r\n") == sentinel {
			break
		}
		if err != nil {
			return fmt.Errorf("header sentinel %q not found", sentinel)
		}
	}
	for i := 0; i < extraSkip; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			return fmt.Errorf("header skip %d/%d: %w", i+1, extraSkip, err)
		}
	}
	return nil
}

func writeIndex(archivePath, listName string, index map[string][]int64, chunkSize int) error {
	iw, err := chunkfile.OpenWriter(archivePath, listName+".index", chunkfile.Append, chunkSize)
	if err != nil {
		return fmt.Errorf("listparse: open %s index writer: %w", listName, err)
	}
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		offs := append([]int64(nil), index[k]...)
		sort.Slice(offs, func(i, j int) bool { return offs[i] < offs[j] })
		parts := make([]string, len(offs))
		for i, o := range offs {
			parts[i] = strconv.FormatInt(o, 10)
		}
		line := k + "\t" + strings.Join(parts, " ") + "\n"
		if _, err := iw.Write([]byte(line)); err != nil {
			iw.Close()
			return fmt.Errorf("listparse: write %s index entry: %w", listName, err)
		}
		if err := iw.Bookmark([]byte(k)); err != nil {
			iw.Close()
			return fmt.Errorf("listparse: bookmark %s index entry: %w", listName, err)
		}
	}
	return iw.Close()
}

// Lookup returns every record of p whose key is in queries, using
// §4.D's seek planner to avoid a full scan when possible. queries may
// be nil, meaning "every record" (a full unplanned scan).
func Lookup(archivePath string, p Parser, queries []string) ([]LineResult, error) {
	p.Reset()
	r, err := chunkfile.OpenReader(archivePath, p.ListName())
	if err != nil {
		return nil, fmt.Errorf("listparse: open %s: %w", p.ListName(), err)
	}
	defer r.Close()

	if len(queries) == 0 && queries != nil {
		return nil, nil
	}

	var results []LineResult
	if queries == nil {
		err := scanAll(r, p, &results)
		return results, err
	}

	querySet := make(map[string]bool, len(queries))
	for _, q := range queries {
		querySet[q] = true
	}

	var ranges []seekplan.Range
	if p.NeedsIndex() {
		ir, ierr := chunkfile.OpenReader(archivePath, p.ListName()+".index")
		if ierr != nil {
			return nil, fmt.Errorf("listparse: open %s index: %w", p.ListName(), ierr)
		}
		ranges, err = seekplan.Indexed(ir, queries)
		ir.Close()
	} else {
		ranges, err = seekplan.Bookmarked(r, queries)
	}
	if err != nil {
		return nil, err
	}

	var loc int64
	for _, rg := range ranges {
		if rg.Start > loc {
			if _, serr := r.Seek(rg.Start, io.SeekStart); serr != nil {
				return nil, serr
			}
			loc = r.Tell()
		} else if rg.Start < loc {
			continue
		}
		if err := runRange(r, p, rg, querySet, &loc, &results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func scanAll(r *chunkfile.Reader, p Parser, results *[]LineResult) error {
	for {
		line, err := r.NextLine()
		if err != nil {
			return nil
		}
		offset := r.Tell() - int64(len(line))
		if p.SkipTVVG() && containsVGOrEpisode(line) {
			continue
		}
		decoded := decodeLatin1([]byte(strings.TrimRight(line, "\r\n")))
		res, perr := p.ParseLine(decoded, offset)
		if perr != nil {
			return perr
		}
		switch res.Outcome {
		case End:
			return nil
		case Record:
			*results = append(*results, res)
		}
	}
}

func runRange(r *chunkfile.Reader, p Parser, rg seekplan.Range, querySet map[string]bool, loc *int64, results *[]LineResult) error {
outer:
	for i := 0; i < rg.N; i++ {
		for {
			if rg.End != nil && *loc >= *rg.End {
				return nil
			}
			offset := *loc
			line, err := r.NextLine()
			if line == "" && err != nil {
				return nil
			}
			*loc = r.Tell()
			if p.SkipTVVG() && containsVGOrEpisode(line) {
				continue
			}
			decoded := decodeLatin1([]byte(strings.TrimRight(line, "\r\n")))
			res, perr := p.ParseLine(decoded, offset)
			if perr != nil {
				return perr
			}
			switch res.Outcome {
			case End:
				return nil
			case Skip:
				continue
			case Record:
				if querySet[res.Key] {
					*results = append(*results, res)
					continue outer
				}
			}
		}
	}
	return nil
}
