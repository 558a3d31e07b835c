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

import "sync/atomic"

// handlerLink is the §4.8 terminal Handler Link. It is not keyed on any
// request dimension: a sub-pipeline from Path through Language resolves to
// exactly one handlerLink, which holds the single Route matched at that
// point plus an atomically toggled enabled/disabled flag.
type handlerLink struct {
	route   atomic.Pointer[Route]
	enabled atomic.Bool
}

func newHandlerLink() *handlerLink {
	h := &handlerLink{}
	h.enabled.Store(true)
	return h
}

func (h *handlerLink) setRoute(rt *Route) {
	h.route.Store(rt)
	if rt.disabled {
		h.enabled.Store(false)
	}
}

func (h *handlerLink) handle(c *Context) *dispatchError {
	rt := h.route.Load()
	if rt == nil {
		return &dispatchError{kind: errRouteNotFound}
	}
	if !h.enabled.Load() {
		return &dispatchError{kind: errDisabledRoute}
	}

	c.handlers = rt.handlers
	c.routePattern = rt.routeDisplayPath()
	c.index = -1
	c.Next()
	return nil
}

// hasEnabledRoute reports whether this link resolves to a route that is
// both registered and enabled, without invoking the handler — used by
// ancestor links (§4.6's Produces NotAcceptable gate) to tell "nothing
// covered the request" apart from "everything that could have covered it
// is disabled".
func (h *handlerLink) hasEnabledRoute() bool {
	return h.route.Load() != nil && h.enabled.Load()
}

func (h *handlerLink) extract(partial routeCriteria, out *[]RouteInfo) {
	rt := h.route.Load()
	if rt == nil {
		return
	}
	*out = append(*out, rt.toRouteInfo(partial, h.enabled.Load()))
}
