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

import (
	"strings"
	"sync"

	"rivaas.dev/router/compiler"
)

// patternEntry pairs a compiled PathPattern with the sub-pipeline it leads
// to and its registration order (used to break specificity ties, §4.3).
type patternEntry struct {
	pattern *PathPattern
	method  *methodLink
	order   int
}

// patternLink is the §4.3 Path-Pattern Routing Link. Patterns are evaluated
// in full against the normalized path every dispatch (the bloom filter only
// short-circuits the common "first segment never registered" case on large
// route tables; it never substitutes for the regex scan).
type patternLink struct {
	mu      sync.RWMutex
	entries []*patternEntry
	counter int

	bloomMu       sync.RWMutex
	bloom         *compiler.BloomFilter // nil until ensureBloom has run with >= bloomThreshold entries
	bloomDisabled bool                  // true once a non-literal first segment has ruled the filter out
}

const patternBloomThreshold = 64

func newPatternLink() *patternLink {
	return &patternLink{}
}

func (p *patternLink) setRoute(rt *Route) *handlerLink {
	pattern := compilePathPattern(rt.criteria.pattern)

	p.mu.Lock()
	var existing *patternEntry
	for _, e := range p.entries {
		if e.pattern.Original == pattern.Original {
			existing = e
			break
		}
	}
	if existing == nil {
		existing = &patternEntry{pattern: pattern, method: newMethodLink(), order: p.counter}
		p.counter++
		p.entries = append(p.entries, existing)
		p.invalidateBloom()
	}
	p.mu.Unlock()

	return existing.method.setRoute(rt)
}

func (p *patternLink) invalidateBloom() {
	p.bloomMu.Lock()
	p.bloom = nil
	p.bloomDisabled = false
	p.bloomMu.Unlock()
}

// firstSegment returns the first segment of a request path (the text
// before its second "/"), used as the key looked up in the bloom filter.
// The filter holds each pattern's literal first segment; ensureBloom builds
// no filter at all once any pattern's first segment is a capture.
func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		return path[:idx]
	}
	return path
}

func (p *patternLink) ensureBloom() *compiler.BloomFilter {
	p.bloomMu.RLock()
	b, disabled := p.bloom, p.bloomDisabled
	p.bloomMu.RUnlock()
	if b != nil || disabled {
		return b
	}

	p.mu.RLock()
	entries := p.entries
	p.mu.RUnlock()
	if len(entries) < patternBloomThreshold {
		return nil
	}

	// The bloom can only short-circuit "first segment never registered"
	// when every pattern's first segment is a literal. A single
	// capture-first pattern (e.g. "/{tenant}/x") matches any first segment,
	// so the filter would wrongly reject requests for it; in that case skip
	// the prefilter entirely rather than build one that yields false 404s.
	bf := compiler.NewBloomFilter(optimalBloomFilterSize(len(entries)), defaultBloomHashFunctions)
	for _, e := range entries {
		if len(e.pattern.segments) == 0 || e.pattern.segments[0].kind != segLiteral {
			p.bloomMu.Lock()
			p.bloomDisabled = true
			p.bloomMu.Unlock()
			return nil
		}
		bf.Add([]byte(e.pattern.segments[0].literal))
	}

	p.bloomMu.Lock()
	p.bloom = bf
	p.bloomMu.Unlock()
	return bf
}

// handle evaluates every registered pattern against the normalized path,
// selects the strict specificity winner among matches (§4.3), populates
// path parameters, and dispatches into its Method sub-pipeline. No further
// fallback exists past this stage: exhaustion yields RouteNotFound.
func (p *patternLink) handle(c *Context, path string) *dispatchError {
	p.mu.RLock()
	entries := p.entries
	p.mu.RUnlock()

	if len(entries) == 0 {
		return &dispatchError{kind: errRouteNotFound}
	}

	if bf := p.ensureBloom(); bf != nil && !bf.Test([]byte(firstSegment(path))) {
		return &dispatchError{kind: errRouteNotFound}
	}

	var best *patternEntry
	var bestBindings map[string]string
	for _, e := range entries {
		bindings, ok := e.pattern.match(path)
		if !ok {
			continue
		}
		if best == nil {
			best, bestBindings = e, bindings
			continue
		}
		if lessSpecific(best.pattern, e.pattern) {
			best, bestBindings = e, bindings
		}
		// equal specificity: earlier-registered (lower order) wins, and
		// entries are iterated in registration order already.
	}

	if best == nil {
		return &dispatchError{kind: errRouteNotFound}
	}

	for name, value := range bestBindings {
		c.setPathParameter(name, value)
	}

	return best.method.handle(c)
}

// setPathParameter binds one path-pattern parameter into the Context's
// fixed-size array, overflowing into the map beyond 8 entries (§3: the
// Exchange's path parameters, populated at dispatch time).
func (c *Context) setPathParameter(name, value string) {
	if int(c.paramCount) < 8 {
		c.SetParam(int(c.paramCount), name, value)
		c.paramCount++
		return
	}
	c.SetParamMap(name, value)
}

func (p *patternLink) extract(out *[]RouteInfo) {
	p.mu.RLock()
	entries := append([]*patternEntry(nil), p.entries...)
	p.mu.RUnlock()
	for _, e := range entries {
		e.method.extract(routeCriteria{pattern: e.pattern.Original}, out)
	}
}
