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

import "sort"

// methodLink is the §4.4 Method Routing Link: an exact map of HTTP methods
// plus a default child for routes registered with no method criterion. A
// request method found in the map dispatches into that child; otherwise the
// default child is tried; exhaustion raises 405 with an Allow header
// enumerating the registered methods.
type methodLink struct {
	children *rcuMap[string, *consumesLink]
	def      *rcuMap[string, *consumesLink] // single-entry RCU slot, keyed ""
}

const defaultKey = ""

func newMethodLink() *methodLink {
	return &methodLink{
		children: newRCUMap[string, *consumesLink](),
		def:      newRCUMap[string, *consumesLink](),
	}
}

func (m *methodLink) setRoute(rt *Route) *handlerLink {
	if rt.criteria.method == "" {
		c := m.def.getOrCreate(defaultKey, newConsumesLink)
		return c.setRoute(rt)
	}
	c := m.children.getOrCreate(rt.criteria.method, newConsumesLink)
	return c.setRoute(rt)
}

func (m *methodLink) handle(c *Context) *dispatchError {
	if child, ok := m.children.get(c.Request.Method); ok {
		return child.handle(c)
	}
	if def, ok := m.def.get(defaultKey); ok {
		return def.handle(c)
	}
	methods := m.children.load()
	allowed := make([]string, 0, len(methods))
	for method := range methods {
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)
	return &dispatchError{kind: errMethodNotAllowed, allowed: allowed}
}

func (m *methodLink) extract(partial routeCriteria, out *[]RouteInfo) {
	for method, child := range m.children.load() {
		p := partial
		p.method = method
		child.extract(p, out)
	}
	if def, ok := m.def.get(defaultKey); ok {
		def.extract(partial, out)
	}
}
