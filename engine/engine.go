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

// Package engine is the public library API: it opens and rebuilds an
// IMDb archive, runs searches against it, and vends Title handles with
// on-demand attribute loading, per spec.md §6.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/screenlex/screenlex/compr"

	"github.com/screenlex/screenlex/chunkfile"
	"github.com/screenlex/screenlex/config"
	"github.com/screenlex/screenlex/gzbridge"
	"github.com/screenlex/screenlex/listparse"
	"github.com/screenlex/screenlex/ratelimit"
	"github.com/screenlex/screenlex/search"
	"github.com/screenlex/screenlex/searchindex"
)

// Error kinds surfaced by the core, per spec.md §7.
var (
	// ErrArchiveInvalid reports an archive that is neither a valid zip
	// nor a valid gzip stream, or one missing a required sub-stream.
	ErrArchiveInvalid = errors.New("engine: archive is not valid")
	// ErrArchiveExists reports a Rebuild target that already exists.
	ErrArchiveExists = errors.New("engine: archive already exists")
	// ErrUnsupported mirrors chunkfile.ErrUnsupported for callers that
	// only import engine.
	ErrUnsupported = chunkfile.ErrUnsupported
	// ErrParseError reports a line that did not match its expected
	// grammar; fatal during rebuild.
	ErrParseError = errors.New("engine: parse error")
	// ErrSourceMissing reports a raw ".list.gz" input absent from the
	// source directory. Logged and skipped for every list except
	// movies.list.gz, which is required.
	ErrSourceMissing = errors.New("engine: source file missing")
	// ErrTimeout mirrors ratelimit.ErrTimeout for callers that only
	// import engine.
	ErrTimeout = ratelimit.ErrTimeout
)

// Engine is a handle to one archive on disk.
type Engine struct {
	path   string
	cfg    config.Config
	logger *log.Logger
}

// Open prepares a handle for the archive at path. If the file exists
// it is validated as a readable archive; if absent, the handle is only
// usable via Rebuild. A nil cfg uses config.Default().
func Open(path string, cfg *config.Config) (*Engine, error) {
	c := config.Default()
	if cfg != nil {
		c = *cfg
	}
	e := &Engine{path: path, cfg: c}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return e, nil
		}
		return nil, fmt.Errorf("engine: stat %s: %w", path, err)
	}

	r, err := chunkfile.OpenReader(path, listparse.MoviesEntry.Name)
	if err != nil {
		if errors.Is(err, chunkfile.ErrInvalidArchive) {
			return nil, fmt.Errorf("%w: %s", ErrArchiveInvalid, path)
		}
		return nil, fmt.Errorf("engine: open %s: %w", path, err)
	}
	r.Close()
	return e, nil
}

// SetLogger installs a logger used to report non-fatal skip events
// (a missing optional source, skipped during rebuild). A nil logger
// (the default) silently discards them.
func (e *Engine) SetLogger(logger *log.Logger) { e.logger = logger }

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// Rebuild ingests every IMDb "*.list.gz" file found in sourceDir into
// a fresh archive at e's path, then builds the search index sidecar.
// It fails with ErrArchiveExists if the archive already exists, and
// with ErrSourceMissing if movies.list.gz is absent; every other list
// is optional and merely logged when missing, per spec.md §7's
// propagation policy.
func (e *Engine) Rebuild(sourceDir string) error {
	if _, err := os.Stat(e.path); err == nil {
		return fmt.Errorf("%w: %s", ErrArchiveExists, e.path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("engine: stat %s: %w", e.path, err)
	}
	if _, err := os.Stat(filepath.Join(sourceDir, "movies.list.gz")); err != nil {
		return fmt.Errorf("%w: movies.list.gz", ErrSourceMissing)
	}

	opener := e.sourceOpener(sourceDir)
	onSkip := func(source string, err error) {
		e.logf("rebuild: skipping source %q: %v", source, err)
	}

	if err := listparse.Rebuild(e.path, listparse.MoviesEntry.New(), opener, e.cfg.ChunkSize, onSkip); err != nil {
		return fmt.Errorf("engine: rebuild movies: %w", err)
	}

	for _, entry := range listparse.Registry {
		if err := listparse.Rebuild(e.path, entry.New(), opener, e.cfg.ChunkSize, onSkip); err != nil {
			return fmt.Errorf("engine: rebuild %s: %w", entry.Name, err)
		}
	}

	if err := searchindex.Build(e.path); err != nil {
		return fmt.Errorf("engine: build search index: %w", err)
	}
	return nil
}

// sourceOpener opens "<sourceDir>/<name>.list.gz" through gzbridge.
func (e *Engine) sourceOpener(sourceDir string) listparse.SourceOpener {
	return func(name string) (io.ReadCloser, error) {
		path := filepath.Join(sourceDir, name+".list.gz")
		rc, err := gzbridge.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return rc, nil
	}
}

// Result is one ranked search hit.
type Result struct {
	Title *Title
	Score float64
}

// SearchOptions tunes one Search call. The zero value searches with no
// year hint, no timeout, and the Engine's config defaults for the
// fingerprint size and year window.
type SearchOptions struct {
	Year      int
	Timeout   time.Duration
	DeltaYear int // 0 selects the Engine's config default
	Size      int // 0 selects the Engine's config default
}

// Search ranks titles in the archive against query and returns up to
// config.Config.TopN results sorted by descending score.
func (e *Engine) Search(query string, opts SearchOptions) ([]Result, error) {
	so := search.DefaultOptions()
	so.TopN = e.cfg.TopN
	so.DeltaYear = e.cfg.DeltaYear
	so.Size = e.cfg.FingerprintSize
	if opts.DeltaYear > 0 {
		so.DeltaYear = opts.DeltaYear
	}
	if opts.Size > 0 {
		so.Size = opts.Size
	}

	var timer *ratelimit.Timer
	if opts.Timeout > 0 {
		timer = ratelimit.NewTimer(
			ratelimit.WithRateLimit(e.cfg.RateLimitSlice, e.cfg.RateLimitSleep),
			ratelimit.WithTimeout(opts.Timeout),
		)
	}

	hits, err := search.Query(e.path, query, opts.Year, timer, so)
	if err != nil {
		if errors.Is(err, ratelimit.ErrTimeout) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("engine: search: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		t, err := newTitle(e, h.Title)
		if err != nil {
			continue
		}
		t.Aka = h.Aka
		results = append(results, Result{Title: t, Score: h.Score})
	}
	return results, nil
}
