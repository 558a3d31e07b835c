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

type languageEntry struct {
	raw   string
	lang  LanguageRange
	child *handlerLink
}

// languageLink is the §4.7 Language Routing Link, same shape as Produces
// but matched against `Accept-Language`. Absence of the header is treated
// as "*". Exhaustion without a match yields RouteNotFound rather than
// NotAcceptable, so Method/Consumes/Produces get the chance to report
// their own errors first (§4.7, §7).
type languageLink struct {
	mu      sync.RWMutex
	entries []*languageEntry
	def     *handlerLink
}

func newLanguageLink() *languageLink {
	return &languageLink{}
}

func (l *languageLink) setRoute(rt *Route) *handlerLink {
	if rt.criteria.language == "" {
		l.mu.Lock()
		if l.def == nil {
			l.def = newHandlerLink()
		}
		def := l.def
		l.mu.Unlock()
		def.setRoute(rt)
		return def
	}

	lang := parseLanguageRange(rt.criteria.language)
	l.mu.Lock()
	var existing *languageEntry
	for _, e := range l.entries {
		if e.raw == rt.criteria.language {
			existing = e
			break
		}
	}
	if existing == nil {
		existing = &languageEntry{raw: rt.criteria.language, lang: lang, child: newHandlerLink()}
		l.entries = append(l.entries, existing)
	}
	l.mu.Unlock()
	existing.child.setRoute(rt)
	return existing.child
}

func (l *languageLink) handle(c *Context) *dispatchError {
	ranges := parseLanguageHeader(c.Request.Header.Get("Accept-Language"))

	l.mu.RLock()
	entries := l.entries
	def := l.def
	l.mu.RUnlock()

	var lastErr *dispatchError
	for _, rng := range ranges {
		if rng.isWildcardAny() {
			if def != nil {
				if err := def.handle(c); err == nil || !err.recoverable() {
					return err
				}
				lastErr = err
			}
			for _, e := range entries {
				if err := e.child.handle(c); err == nil || !err.recoverable() {
					return err
				} else {
					lastErr = err
				}
			}
			continue
		}
		for _, e := range entries {
			if !rng.covers(e.lang) {
				continue
			}
			if err := e.child.handle(c); err == nil || !err.recoverable() {
				return err
			} else {
				lastErr = err
			}
		}
	}

	if lastErr != nil {
		return lastErr
	}
	return &dispatchError{kind: errRouteNotFound}
}

// hasEnabledRoute reports whether any entry or the default next-link under
// this Language link resolves to an enabled route, without dispatching.
func (l *languageLink) hasEnabledRoute() bool {
	l.mu.RLock()
	entries := l.entries
	def := l.def
	l.mu.RUnlock()

	if def != nil && def.hasEnabledRoute() {
		return true
	}
	for _, e := range entries {
		if e.child.hasEnabledRoute() {
			return true
		}
	}
	return false
}

func (l *languageLink) extract(partial routeCriteria, out *[]RouteInfo) {
	l.mu.RLock()
	entries := append([]*languageEntry(nil), l.entries...)
	def := l.def
	l.mu.RUnlock()

	for _, e := range entries {
		p := partial
		p.language = e.raw
		e.child.extract(p, out)
	}
	if def != nil {
		def.extract(partial, out)
	}
}
