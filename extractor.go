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

// FindRoutes walks every pipeline (the standard root plus every version
// root) and returns RouteInfo for each leaf whose criteria is a superset of
// the non-empty fields in filter — the §4.1 "findRoutes() (filter by any
// subset of dimensions)" manager operation.
func (r *Router) FindRoutes(filter routeCriteria) []RouteInfo {
	var all []RouteInfo
	r.root.extract(&all)

	r.versionRootsMu.RLock()
	roots := make(map[string]*pathLink, len(r.versionRoots))
	for v, root := range r.versionRoots {
		roots[v] = root
	}
	r.versionRootsMu.RUnlock()

	for version, root := range roots {
		var versioned []RouteInfo
		root.extract(&versioned)
		for i := range versioned {
			versioned[i].Version = version
		}
		all = append(all, versioned...)
	}

	return filterRouteInfos(all, filter)
}

func filterRouteInfos(routes []RouteInfo, filter routeCriteria) []RouteInfo {
	if filter == (routeCriteria{}) {
		return routes
	}
	out := make([]RouteInfo, 0, len(routes))
	for _, ri := range routes {
		if filter.method != "" && !strings.EqualFold(filter.method, ri.Method) {
			continue
		}
		if filter.path != "" && filter.path != ri.Path {
			continue
		}
		if filter.pattern != "" && filter.pattern != ri.Path {
			continue
		}
		if filter.consumes != "" && filter.consumes != ri.Consumes {
			continue
		}
		if filter.produces != "" && filter.produces != ri.Produces {
			continue
		}
		if filter.language != "" && filter.language != ri.Language {
			continue
		}
		out = append(out, ri)
	}
	return out
}
