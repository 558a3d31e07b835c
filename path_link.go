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

import "strings"

// pathLink is the §4.2 Path Routing Link: an exact, byte-compared map of
// normalized literal paths. A miss forwards to the shared PathPattern link.
type pathLink struct {
	children *rcuMap[string, *methodLink]
	next     *patternLink
}

func newPathLink() *pathLink {
	return &pathLink{
		children: newRCUMap[string, *methodLink](),
		next:     newPatternLink(),
	}
}

// setRoute registers rt under its literal path, or delegates to the
// PathPattern link when rt carries a path template instead. Trailing-slash
// tolerance (§4.2, §9 Open Question (b)) inserts both the slash and
// no-slash literal.
func (p *pathLink) setRoute(rt *Route) *handlerLink {
	if rt.criteria.pattern != "" {
		return p.next.setRoute(rt)
	}

	literal := rt.criteria.path
	h := p.setLiteral(literal, rt)
	if rt.tolerateTrailingSlash {
		var alt string
		if strings.HasSuffix(literal, "/") && literal != "/" {
			alt = strings.TrimSuffix(literal, "/")
		} else {
			alt = literal + "/"
		}
		p.setLiteral(alt, rt)
	}
	return h
}

func (p *pathLink) setLiteral(literal string, rt *Route) *handlerLink {
	m := p.children.getOrCreate(literal, newMethodLink)
	return m.setRoute(rt)
}

// handle looks up the normalized request path; a miss forwards to the
// PathPattern link. Per §7 only an ancestor Produces/Language link may
// recover a RouteNotFound/DisabledRoute from a deeper stage, so once a
// literal path is found its sub-pipeline's result (success or error) is
// returned as-is rather than falling through to pattern matching.
func (p *pathLink) handle(c *Context) *dispatchError {
	path := normalizePath(c.Request.URL.Path)
	if m, ok := p.children.get(path); ok {
		return m.handle(c)
	}
	return p.next.handle(c, path)
}

func (p *pathLink) extract(out *[]RouteInfo) {
	for literal, m := range p.children.load() {
		m.extract(routeCriteria{path: literal}, out)
	}
	p.next.extract(out)
}
