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

type producesEntry struct {
	raw   string
	ctype ContentType
	child *languageLink
}

// producesLink is the §4.6 Produces Routing Link (content negotiation on
// `Accept`). See DESIGN.md for the §9 Open Question (a) resolution this
// implements: NotAcceptable is raised whenever at least one enabled typed
// child exists and no candidate matched the request's Accept ranges —
// whether because none of them covered a range, or because every one that
// did turned out disabled. Only when no typed child is enabled at all does
// dispatch fall through to the default next-link instead.
type producesLink struct {
	mu      sync.RWMutex
	entries []*producesEntry
	def     *languageLink
}

func newProducesLink() *producesLink {
	return &producesLink{}
}

func (l *producesLink) setRoute(rt *Route) *handlerLink {
	if rt.criteria.produces == "" {
		l.mu.Lock()
		if l.def == nil {
			l.def = newLanguageLink()
		}
		def := l.def
		l.mu.Unlock()
		return def.setRoute(rt)
	}

	ct := parseMediaType(rt.criteria.produces)
	l.mu.Lock()
	var existing *producesEntry
	for _, e := range l.entries {
		if e.raw == rt.criteria.produces {
			existing = e
			break
		}
	}
	if existing == nil {
		existing = &producesEntry{raw: rt.criteria.produces, ctype: ct, child: newLanguageLink()}
		l.entries = append(l.entries, existing)
		sortProducesEntries(l.entries)
	}
	l.mu.Unlock()
	return existing.child.setRoute(rt)
}

func sortProducesEntries(entries []*producesEntry) {
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && contentTypeSpecificity(entries[j].ctype) > contentTypeSpecificity(entries[j-1].ctype) {
			entries[j], entries[j-1] = entries[j-1], entries[j]
			j--
		}
	}
}

// mergedAccept joins every `Accept` header line the request carries, per
// §4.6 "merges all Accept headers".
func mergedAccept(c *Context) string {
	values := c.Request.Header.Values("Accept")
	if len(values) == 0 {
		return ""
	}
	if len(values) == 1 {
		return values[0]
	}
	out := values[0]
	for _, v := range values[1:] {
		out += "," + v
	}
	return out
}

func (l *producesLink) handle(c *Context) *dispatchError {
	ranges := parseAcceptRanges(mergedAccept(c))

	l.mu.RLock()
	entries := l.entries
	def := l.def
	l.mu.RUnlock()

	var lastErr *dispatchError

	tryEntry := func(e *producesEntry) (*dispatchError, bool) {
		err := e.child.handle(c)
		if err == nil {
			return nil, true
		}
		lastErr = err
		return err, !err.recoverable()
	}

	for _, rng := range ranges {
		if rng.isWildcardAny() {
			if def != nil {
				if err := def.handle(c); err == nil || !err.recoverable() {
					return err
				}
				lastErr = err
			}
			for _, e := range entries {
				if err, stop := tryEntry(e); stop {
					return err
				}
			}
			continue
		}
		for _, e := range entries {
			if !rng.covers(e.ctype) {
				continue
			}
			if err, stop := tryEntry(e); stop {
				return err
			}
		}
	}

	if len(entries) > 0 {
		anyEnabled := false
		for _, e := range entries {
			if e.child.hasEnabledRoute() {
				anyEnabled = true
				break
			}
		}
		if anyEnabled {
			offered := make([]string, len(entries))
			for i, e := range entries {
				offered[i] = e.raw
			}
			return &dispatchError{kind: errNotAcceptable, offered: offered}
		}
	}
	if def != nil {
		return def.handle(c)
	}
	if lastErr != nil {
		return lastErr
	}
	return &dispatchError{kind: errRouteNotFound}
}

func (l *producesLink) extract(partial routeCriteria, out *[]RouteInfo) {
	l.mu.RLock()
	entries := append([]*producesEntry(nil), l.entries...)
	def := l.def
	l.mu.RUnlock()

	for _, e := range entries {
		p := partial
		p.produces = e.raw
		e.child.extract(p, out)
	}
	if def != nil {
		def.extract(partial, out)
	}
}
