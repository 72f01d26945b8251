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
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/screenlex/screenlex/listparse"
	"github.com/screenlex/screenlex/title"
)

// slotState tags a lazily-populated Title attribute, per spec.md §9's
// "auto-population getters" design note: an attribute is either never
// fetched, fetched and found, or fetched and defaulted because no
// record exists for the title.
type slotState int

const (
	slotUnset slotState = iota
	slotValue
	slotDefault
)

type slot[T any] struct {
	state slotState
	value T
}

func (s *slot[T]) setValue(v T)   { s.state = slotValue; s.value = v }
func (s *slot[T]) setDefault(v T) { s.state = slotDefault; s.value = v }
func (s *slot[T]) isUnset() bool  { return s.state == slotUnset }

// RunningTime is a title's running time in minutes, or OK=false if no
// parseable duration was on record (distinct from "not yet fetched").
type RunningTime struct {
	Minutes int
	OK      bool
}

// Title is a handle to one title in the archive. Rating, Plot, and the
// other on-demand attributes (spec.md §6) are fetched lazily on first
// access and cached on the handle; use Engine.PopulateX to batch-fetch
// an attribute across many Titles in one archive scan.
type Title struct {
	engine *Engine
	Raw    string // e.g. "The Matrix (1999)"
	Parsed title.Parsed

	// Aka is set directly by Engine.Search when the match came via an
	// alternate title rather than the canonical one; empty otherwise.
	// Unlike the slots below this is not lazily populated — it mirrors
	// a search result, not an archive lookup, so there is nothing to
	// fetch independently of Search itself.
	Aka string

	rating       slot[listparse.Rating]
	plot         slot[listparse.Plot]
	colorInfo    slot[string]
	genres       slot[[]string]
	runningTime  slot[RunningTime]
	certificates slot[listparse.Certificate]
	cast         slot[[]listparse.Credit]
	directors    slot[[]listparse.Credit]
	writers      slot[[]listparse.Credit]
	akaNames     slot[[]listparse.AkaName]
}

func newTitle(e *Engine, raw string) (*Title, error) {
	p, err := title.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParseError, raw)
	}
	return &Title{engine: e, Raw: raw, Parsed: p}, nil
}

// Rating returns the title's rating distribution, populating it on
// first access.
func (t *Title) Rating() (listparse.Rating, error) {
	if t.rating.isUnset() {
		if err := t.engine.PopulateRating([]*Title{t}); err != nil {
			return listparse.Rating{}, err
		}
	}
	return t.rating.value, nil
}

// Plot returns the title's plot summary, populating it on first access.
func (t *Title) Plot() (listparse.Plot, error) {
	if t.plot.isUnset() {
		if err := t.engine.PopulatePlot([]*Title{t}); err != nil {
			return listparse.Plot{}, err
		}
	}
	return t.plot.value, nil
}

// ColorInfo returns the title's color-info string ("Color", "Black and
// White", ...), populating it on first access.
func (t *Title) ColorInfo() (string, error) {
	if t.colorInfo.isUnset() {
		if err := t.engine.PopulateColorInfo([]*Title{t}); err != nil {
			return "", err
		}
	}
	return t.colorInfo.value, nil
}

// Genres returns the title's genres, sorted, populating them on first
// access.
func (t *Title) Genres() ([]string, error) {
	if t.genres.isUnset() {
		if err := t.engine.PopulateGenres([]*Title{t}); err != nil {
			return nil, err
		}
	}
	return t.genres.value, nil
}

// RunningTime returns the title's median running time, populating it
// on first access.
func (t *Title) RunningTime() (RunningTime, error) {
	if t.runningTime.isUnset() {
		if err := t.engine.PopulateRunningTime([]*Title{t}); err != nil {
			return RunningTime{}, err
		}
	}
	return t.runningTime.value, nil
}

// Certificates returns the title's USA content certification,
// populating it on first access.
func (t *Title) Certificates() (listparse.Certificate, error) {
	if t.certificates.isUnset() {
		if err := t.engine.PopulateCertificates([]*Title{t}); err != nil {
			return listparse.Certificate{}, err
		}
	}
	return t.certificates.value, nil
}

// Cast returns the title's cast credits, populating them on first access.
func (t *Title) Cast() ([]listparse.Credit, error) {
	if t.cast.isUnset() {
		if err := t.engine.PopulateCast([]*Title{t}); err != nil {
			return nil, err
		}
	}
	return t.cast.value, nil
}

// Directors returns the title's director credits, populating them on
// first access.
func (t *Title) Directors() ([]listparse.Credit, error) {
	if t.directors.isUnset() {
		if err := t.engine.PopulateDirectors([]*Title{t}); err != nil {
			return nil, err
		}
	}
	return t.directors.value, nil
}

// Writers returns the title's writer credits, populating them on first
// access.
func (t *Title) Writers() ([]listparse.Credit, error) {
	if t.writers.isUnset() {
		if err := t.engine.PopulateWriters([]*Title{t}); err != nil {
			return nil, err
		}
	}
	return t.writers.value, nil
}

// AkaNames returns every alternate title on record for t, supplementing
// the single Aka field Search may have set (spec.md §6 lists "aka"
// among the on-demand title_handle attributes; original_source only
// ever sets it as a direct side effect of search(), so this batch
// accessor is an addition rather than a literal port — see DESIGN.md).
func (t *Title) AkaNames() ([]listparse.AkaName, error) {
	if t.akaNames.isUnset() {
		if err := t.engine.PopulateAkaNames([]*Title{t}); err != nil {
			return nil, err
		}
	}
	return t.akaNames.value, nil
}

// titleKeys returns the distinct raw titles among titles whose slot
// matching need is still unset, preserving first-seen order.
func titleKeys(titles []*Title, unset func(*Title) bool) []string {
	seen := make(map[string]bool, len(titles))
	var keys []string
	for _, t := range titles {
		if !unset(t) || seen[t.Raw] {
			continue
		}
		seen[t.Raw] = true
		keys = append(keys, t.Raw)
	}
	return keys
}

// PopulateRating batch-fetches Rating for every title in titles whose
// rating has not yet been populated.
func (e *Engine) PopulateRating(titles []*Title) error {
	keys := titleKeys(titles, func(t *Title) bool { return t.rating.isUnset() })
	if len(keys) == 0 {
		return nil
	}
	results, err := listparse.Lookup(e.path, &listparse.RatingsParser{}, keys)
	if err != nil {
		return fmt.Errorf("engine: populate rating: %w", err)
	}
	byKey := make(map[string]listparse.Rating, len(results))
	for _, r := range results {
		byKey[r.Key] = r.Payload.(listparse.Rating)
	}
	for _, t := range titles {
		if !t.rating.isUnset() {
			continue
		}
		if v, ok := byKey[t.Raw]; ok {
			t.rating.setValue(v)
		} else {
			t.rating.setDefault(listparse.DefaultRating)
		}
	}
	return nil
}

// PopulatePlot batch-fetches Plot for every title in titles whose plot
// has not yet been populated.
func (e *Engine) PopulatePlot(titles []*Title) error {
	keys := titleKeys(titles, func(t *Title) bool { return t.plot.isUnset() })
	if len(keys) == 0 {
		return nil
	}
	results, err := listparse.Lookup(e.path, &listparse.PlotParser{}, keys)
	if err != nil {
		return fmt.Errorf("engine: populate plot: %w", err)
	}
	// A title may have several plots on record; the shortest is kept.
	byKey := make(map[string]listparse.Plot, len(results))
	for _, r := range results {
		p := r.Payload.(listparse.Plot)
		if old, ok := byKey[r.Key]; !ok || len(p.Summary) < len(old.Summary) {
			byKey[r.Key] = p
		}
	}
	for _, t := range titles {
		if !t.plot.isUnset() {
			continue
		}
		if v, ok := byKey[t.Raw]; ok {
			t.plot.setValue(v)
		} else {
			t.plot.setDefault(listparse.Plot{})
		}
	}
	return nil
}

// PopulateColorInfo batch-fetches ColorInfo for every title in titles
// whose color info has not yet been populated.
func (e *Engine) PopulateColorInfo(titles []*Title) error {
	keys := titleKeys(titles, func(t *Title) bool { return t.colorInfo.isUnset() })
	if len(keys) == 0 {
		return nil
	}
	results, err := listparse.Lookup(e.path, &listparse.ColorInfoParser{}, keys)
	if err != nil {
		return fmt.Errorf("engine: populate color info: %w", err)
	}
	byKey := make(map[string]string, len(results))
	for _, r := range results {
		byKey[r.Key] = r.Payload.(string)
	}
	for _, t := range titles {
		if !t.colorInfo.isUnset() {
			continue
		}
		if v, ok := byKey[t.Raw]; ok {
			t.colorInfo.setValue(v)
		} else {
			t.colorInfo.setDefault("")
		}
	}
	return nil
}

// PopulateGenres batch-fetches Genres for every title in titles whose
// genres have not yet been populated.
func (e *Engine) PopulateGenres(titles []*Title) error {
	keys := titleKeys(titles, func(t *Title) bool { return t.genres.isUnset() })
	if len(keys) == 0 {
		return nil
	}
	results, err := listparse.Lookup(e.path, &listparse.GenresParser{}, keys)
	if err != nil {
		return fmt.Errorf("engine: populate genres: %w", err)
	}
	byKey := make(map[string]map[string]bool, len(keys))
	for _, r := range results {
		set := byKey[r.Key]
		if set == nil {
			set = make(map[string]bool)
			byKey[r.Key] = set
		}
		set[r.Payload.(string)] = true
	}
	for _, t := range titles {
		if !t.genres.isUnset() {
			continue
		}
		set, ok := byKey[t.Raw]
		if !ok {
			t.genres.setDefault([]string{})
			continue
		}
		list := make([]string, 0, len(set))
		for g := range set {
			list = append(list, g)
		}
		slices.Sort(list)
		t.genres.setValue(list)
	}
	return nil
}

// PopulateRunningTime batch-fetches RunningTime for every title in
// titles whose running time has not yet been populated, taking the
// median of every duration on record per original_source's
// IMDbRunningTimeParser._make_result.
func (e *Engine) PopulateRunningTime(titles []*Title) error {
	keys := titleKeys(titles, func(t *Title) bool { return t.runningTime.isUnset() })
	if len(keys) == 0 {
		return nil
	}
	results, err := listparse.Lookup(e.path, &listparse.RunningTimeParser{}, keys)
	if err != nil {
		return fmt.Errorf("engine: populate running time: %w", err)
	}
	byKey := make(map[string][]int, len(keys))
	for _, r := range results {
		minutes, _, ok := listparse.ParseRunningTime(r.Payload.(string))
		if !ok {
			continue
		}
		byKey[r.Key] = append(byKey[r.Key], minutes)
	}
	for _, t := range titles {
		if !t.runningTime.isUnset() {
			continue
		}
		durations, ok := byKey[t.Raw]
		if !ok || len(durations) == 0 {
			t.runningTime.setDefault(RunningTime{})
			continue
		}
		slices.Sort(durations)
		t.runningTime.setValue(RunningTime{Minutes: median(durations), OK: true})
	}
	return nil
}

func median(sorted []int) int {
	return sorted[len(sorted)/2]
}

// PopulateCertificates batch-fetches Certificates for every title in
// titles whose certification has not yet been populated.
func (e *Engine) PopulateCertificates(titles []*Title) error {
	keys := titleKeys(titles, func(t *Title) bool { return t.certificates.isUnset() })
	if len(keys) == 0 {
		return nil
	}
	results, err := listparse.Lookup(e.path, &listparse.CertificatesParser{}, keys)
	if err != nil {
		return fmt.Errorf("engine: populate certificates: %w", err)
	}
	byKey := make(map[string]listparse.Certificate, len(results))
	for _, r := range results {
		byKey[r.Key] = r.Payload.(listparse.Certificate)
	}
	for _, t := range titles {
		if !t.certificates.isUnset() {
			continue
		}
		if v, ok := byKey[t.Raw]; ok {
			t.certificates.setValue(v)
		} else {
			t.certificates.setDefault(listparse.Certificate{})
		}
	}
	return nil
}

func populateCredits(e *Engine, titles []*Title, get func(*Title) *slot[[]listparse.Credit], p listparse.Parser) error {
	keys := titleKeys(titles, func(t *Title) bool { return get(t).isUnset() })
	if len(keys) == 0 {
		return nil
	}
	results, err := listparse.Lookup(e.path, p, keys)
	if err != nil {
		return fmt.Errorf("engine: populate %s: %w", p.ListName(), err)
	}
	byKey := make(map[string][]listparse.Credit, len(keys))
	for _, r := range results {
		byKey[r.Key] = append(byKey[r.Key], r.Payload.(listparse.Credit))
	}
	for _, t := range titles {
		s := get(t)
		if !s.isUnset() {
			continue
		}
		if credits, ok := byKey[t.Raw]; ok {
			s.setValue(credits)
		} else {
			s.setDefault([]listparse.Credit{})
		}
	}
	return nil
}

// PopulateCast batch-fetches Cast for every title in titles whose cast
// has not yet been populated.
func (e *Engine) PopulateCast(titles []*Title) error {
	return populateCredits(e, titles, func(t *Title) *slot[[]listparse.Credit] { return &t.cast }, listparse.NewCastParser())
}

// PopulateDirectors batch-fetches Directors for every title in titles
// whose directors have not yet been populated.
func (e *Engine) PopulateDirectors(titles []*Title) error {
	return populateCredits(e, titles, func(t *Title) *slot[[]listparse.Credit] { return &t.directors }, listparse.NewDirectorsParser())
}

// PopulateWriters batch-fetches Writers for every title in titles whose
// writers have not yet been populated.
func (e *Engine) PopulateWriters(titles []*Title) error {
	return populateCredits(e, titles, func(t *Title) *slot[[]listparse.Credit] { return &t.writers }, listparse.NewWritersParser())
}

// PopulateAkaNames batch-fetches AkaNames for every title in titles
// whose alternate-name list has not yet been populated.
func (e *Engine) PopulateAkaNames(titles []*Title) error {
	keys := titleKeys(titles, func(t *Title) bool { return t.akaNames.isUnset() })
	if len(keys) == 0 {
		return nil
	}
	results, err := listparse.Lookup(e.path, &listparse.AkaParser{}, keys)
	if err != nil {
		return fmt.Errorf("engine: populate aka names: %w", err)
	}
	byKey := make(map[string][]listparse.AkaName, len(keys))
	for _, r := range results {
		byKey[r.Key] = append(byKey[r.Key], r.Payload.(listparse.AkaName))
	}
	for _, t := range titles {
		if !t.akaNames.isUnset() {
			continue
		}
		if akas, ok := byKey[t.Raw]; ok {
			t.akaNames.setValue(akas)
		} else {
			t.akaNames.setDefault([]listparse.AkaName{})
		}
	}
	return nil
}
