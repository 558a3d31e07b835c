// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import "sync"

type consumesEntry struct {
	raw   string
	ctype ContentType
	child *producesLink
}

// consumesLink is the §4.5 Consumes Routing Link, matched against the
// request's `Content-Type`. A missing header always selects the default
// next-link; otherwise the single most-specific covering entry is chosen,
// or 415 is raised if at least one entry exists but none covers the
// request, or the default next-link is used if none exist at all.
type consumesLink struct {
	mu      sync.RWMutex
	entries []*consumesEntry
	def     *producesLink
}

func newConsumesLink() *consumesLink {
	return &consumesLink{}
}

func (l *consumesLink) setRoute(rt *Route) *handlerLink {
	if rt.criteria.consumes == "" {
		l.mu.Lock()
		if l.def == nil {
			l.def = newProducesLink()
		}
		def := l.def
		l.mu.Unlock()
		return def.setRoute(rt)
	}

	ct := parseMediaType(rt.criteria.consumes)
	l.mu.Lock()
	var existing *consumesEntry
	for _, e := range l.entries {
		if e.raw == rt.criteria.consumes {
			existing = e
			break
		}
	}
	if existing == nil {
		existing = &consumesEntry{raw: rt.criteria.consumes, ctype: ct, child: newProducesLink()}
		l.entries = append(l.entries, existing)
		sortConsumesEntries(l.entries)
	}
	l.mu.Unlock()
	return existing.child.setRoute(rt)
}

func sortConsumesEntries(entries []*consumesEntry) {
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && contentTypeSpecificity(entries[j].ctype) > contentTypeSpecificity(entries[j-1].ctype) {
			entries[j], entries[j-1] = entries[j-1], entries[j]
			j--
		}
	}
}

func contentTypeSpecificity(ct ContentType) int {
	score := len(ct.Params) * 1
	if ct.Type != "*" {
		score += 2
	}
	if ct.Subtype != "*" {
		score += 2
	}
	return score
}

func (l *consumesLink) handle(c *Context) *dispatchError {
	header := c.Request.Header.Get("Content-Type")

	l.mu.RLock()
	entries := l.entries
	def := l.def
	l.mu.RUnlock()

	if header == "" {
		if def != nil {
			return def.handle(c)
		}
		return &dispatchError{kind: errRouteNotFound}
	}

	requestCT := parseMediaType(header)
	for _, e := range entries {
		if mediaRangeFromContentType(e.ctype).covers(requestCT) {
			return e.child.handle(c)
		}
	}

	if len(entries) > 0 {
		return &dispatchError{kind: errUnsupportedMediaType}
	}
	if def != nil {
		return def.handle(c)
	}
	return &dispatchError{kind: errRouteNotFound}
}

func mediaRangeFromContentType(ct ContentType) MediaRange {
	return MediaRange{Type: ct.Type, Subtype: ct.Subtype, Params: ct.Params, Q: 1.0}
}

func (l *consumesLink) extract(partial routeCriteria, out *[]RouteInfo) {
	l.mu.RLock()
	entries := append([]*consumesEntry(nil), l.entries...)
	def := l.def
	l.mu.RUnlock()

	for _, e := range entries {
		p := partial
		p.consumes = e.raw
		e.child.extract(p, out)
	}
	if def != nil {
		def.extract(partial, out)
	}
}
