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
	"fmt"

	"rivaas.dev/router/version"
)

// WithVersioning configures the router with API versioning support using the versioning engine.
// This enables version detection from headers, query parameters, paths, or Accept headers.
//
// Panics if the versioning configuration is invalid. Use New() instead of MustNew() if you need
// to handle configuration errors gracefully.
//
// Example:
//
//	router := router.MustNew(
//	    router.WithVersioning(
//	        version.WithHeaderDetection("API-Version"),
//	        version.WithDefault("v1"),
//	    ),
//	)
func WithVersioning(opts ...version.Option) Option {
	return func(r *Router) {
		engine, err := version.New(opts...)
		if err != nil {
			panic(fmt.Sprintf("failed to create versioning engine: %v", err))
		}
		r.versionEngine = engine
	}
}

// VersionRouter represents a version-specific router. Routes registered
// through it are threaded into their own pipeline root (see
// Router.versionRoot), tried only when the standard pipeline reports
// RouteNotFound for a request that versioning applies to.
type VersionRouter struct {
	router  *Router
	version string
}

// Version creates a version-specific router.
func (r *Router) Version(version string) *VersionRouter {
	return &VersionRouter{
		router:  r,
		version: version,
	}
}

// Handle adds a route with the specified HTTP method to the version-specific router.
// This is the generic method used by all HTTP method shortcuts.
//
// Example:
//
//	vr.Handle("GET", "/users", getUserHandler)
//	vr.Handle("POST", "/users", createUserHandler)
func (vr *VersionRouter) Handle(method, path string, handlers ...HandlerFunc) *Route {
	return vr.addVersionRoute(method, path, handlers)
}

// GET adds a GET route to the version-specific router.
func (vr *VersionRouter) GET(path string, handlers ...HandlerFunc) *Route {
	return vr.Handle("GET", path, handlers...)
}

// POST adds a POST route to the version-specific router.
func (vr *VersionRouter) POST(path string, handlers ...HandlerFunc) *Route {
	return vr.Handle("POST", path, handlers...)
}

// PUT adds a PUT route to the version-specific router.
func (vr *VersionRouter) PUT(path string, handlers ...HandlerFunc) *Route {
	return vr.Handle("PUT", path, handlers...)
}

// DELETE adds a DELETE route to the version-specific router.
func (vr *VersionRouter) DELETE(path string, handlers ...HandlerFunc) *Route {
	return vr.Handle("DELETE", path, handlers...)
}

// PATCH adds a PATCH route to the version-specific router.
func (vr *VersionRouter) PATCH(path string, handlers ...HandlerFunc) *Route {
	return vr.Handle("PATCH", path, handlers...)
}

// OPTIONS adds an OPTIONS route to the version-specific router.
func (vr *VersionRouter) OPTIONS(path string, handlers ...HandlerFunc) *Route {
	return vr.Handle("OPTIONS", path, handlers...)
}

// HEAD adds a HEAD route to the version-specific router.
func (vr *VersionRouter) HEAD(path string, handlers ...HandlerFunc) *Route {
	return vr.Handle("HEAD", path, handlers...)
}

// addVersionRoute builds a Route tagged with this version and threads it
// through the same deferred-registration path as Router.addRoute, so it
// lands in r.versionRoot(vr.version) rather than the standard root.
func (vr *VersionRouter) addVersionRoute(method, path string, handlers []HandlerFunc) *Route {
	r := vr.router
	if r.frozen.Load() {
		panic("cannot register routes after router is frozen (call Freeze() before serving)")
	}

	route := &Route{
		router:       r,
		version:      vr.version,
		rawPath:      path,
		userHandlers: handlers,
		criteria:     routeCriteria{method: method},
	}

	r.recordRouteRegistration(method, path)

	r.allRoutesMu.Lock()
	r.allRoutes = append(r.allRoutes, route)
	r.allRoutesMu.Unlock()

	r.pendingRoutesMu.Lock()
	if r.warmedUp {
		r.pendingRoutesMu.Unlock()
		route.registerRoute()
	} else {
		r.pendingRoutes = append(r.pendingRoutes, route)
		r.pendingRoutesMu.Unlock()
	}

	return route
}

// Group creates a version-specific route group.
func (vr *VersionRouter) Group(prefix string, middleware ...HandlerFunc) *VersionGroup {
	return &VersionGroup{
		versionRouter: vr,
		prefix:        prefix,
		middleware:    middleware,
	}
}

// VersionGroup represents a group of routes within a specific version.
type VersionGroup struct {
	versionRouter *VersionRouter
	prefix        string
	middleware    []HandlerFunc
	namePrefix    string
}

// Handle adds a route with the specified HTTP method to the version group.
// This is the generic method used by all HTTP method shortcuts.
func (vg *VersionGroup) Handle(method, path string, handlers ...HandlerFunc) *Route {
	fullPath := vg.prefix + path
	allHandlers := make([]HandlerFunc, 0, len(vg.middleware)+len(handlers))
	allHandlers = append(allHandlers, vg.middleware...)
	allHandlers = append(allHandlers, handlers...)
	route := vg.versionRouter.addVersionRoute(method, fullPath, allHandlers)
	route.versionGroup = vg
	return route
}

// GET adds a GET route to the version group.
func (vg *VersionGroup) GET(path string, handlers ...HandlerFunc) *Route {
	return vg.Handle("GET", path, handlers...)
}

// POST adds a POST route to the version group.
func (vg *VersionGroup) POST(path string, handlers ...HandlerFunc) *Route {
	return vg.Handle("POST", path, handlers...)
}

// PUT adds a PUT route to the version group.
func (vg *VersionGroup) PUT(path string, handlers ...HandlerFunc) *Route {
	return vg.Handle("PUT", path, handlers...)
}

// DELETE adds a DELETE route to the version group.
func (vg *VersionGroup) DELETE(path string, handlers ...HandlerFunc) *Route {
	return vg.Handle("DELETE", path, handlers...)
}

// PATCH adds a PATCH route to the version group.
func (vg *VersionGroup) PATCH(path string, handlers ...HandlerFunc) *Route {
	return vg.Handle("PATCH", path, handlers...)
}

// OPTIONS adds an OPTIONS route to the version group.
func (vg *VersionGroup) OPTIONS(path string, handlers ...HandlerFunc) *Route {
	return vg.Handle("OPTIONS", path, handlers...)
}

// HEAD adds a HEAD route to the version group.
func (vg *VersionGroup) HEAD(path string, handlers ...HandlerFunc) *Route {
	return vg.Handle("HEAD", path, handlers...)
}
