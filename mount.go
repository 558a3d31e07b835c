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
	"maps"
	"net/http"
	"strings"
)

// mountCfg holds configuration for a mounted subrouter.
type mountCfg struct {
	inheritMiddleware bool
	extraMiddleware   []HandlerFunc
	namePrefix        string
	notFoundHandler   HandlerFunc
}

// MountOption configures how a subrouter is mounted.
type MountOption func(*mountCfg)

// InheritMiddleware makes the subrouter inherit parent router's global middleware.
// Parent middleware runs before subrouter middleware.
func InheritMiddleware() MountOption {
	return func(cfg *mountCfg) {
		cfg.inheritMiddleware = true
	}
}

// WithMiddleware adds additional middleware to the subrouter.
// These middleware run after inherited middleware but before route handlers.
func WithMiddleware(m ...HandlerFunc) MountOption {
	return func(cfg *mountCfg) {
		cfg.extraMiddleware = append(cfg.extraMiddleware, m...)
	}
}

// NamePrefix adds a prefix to all route names in the subrouter.
// Useful for metrics and logging scoping.
//
// Example:
//
//	r.Mount("/admin", sub, router.NamePrefix("admin."))
//	// Route named "users" becomes "admin.users"
func NamePrefix(prefix string) MountOption {
	return func(cfg *mountCfg) {
		cfg.namePrefix = prefix
	}
}

// WithNotFound sets a custom 404 handler for the subrouter.
// This handler is only used when no route matches within the subrouter's prefix.
func WithNotFound(h HandlerFunc) MountOption {
	return func(cfg *mountCfg) {
		cfg.notFoundHandler = h
	}
}

// Mount mounts a subrouter at the given prefix by merging routes into the parent router.
//
// Routes from the subrouter are copied with the prefix prepended, preserving the full
// route pattern for observability (metrics, tracing, logging). This ensures route
// templates like "/admin/users/:id" are correctly recorded instead of catch-all patterns.
//
// Middleware execution order: parent global (if InheritMiddleware) → subrouter middleware → handlers.
//
// Example:
//
//	admin := router.MustNew()
//	admin.GET("/users/:id", getUser)
//	admin.POST("/users", createUser)
//
//	r.Mount("/admin", admin,
//	    router.InheritMiddleware(),      // Parent auth applies
//	    router.WithMiddleware(adminLog), // Plus admin-only middleware
//	    router.NamePrefix("admin."),     // Route names prefixed
//	    router.WithNotFound(adminNotFound),
//	)
//	// Results in routes: GET /admin/users/:id, POST /admin/users
//	// Observability will see "/admin/users/:id" not "/admin/*"
func (r *Router) Mount(prefix string, sub *Router, opts ...MountOption) {
	if sub == nil {
		return
	}

	// Normalize prefix: ensure it starts with / and doesn't end with /
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" || prefix[0] != '/' {
		prefix = "/" + prefix
	}

	// Build mount configuration
	cfg := &mountCfg{}
	for _, opt := range opts {
		opt(cfg)
	}

	// Build middleware chain for mounted routes
	var middlewareChain []HandlerFunc
	if cfg.inheritMiddleware {
		// Copy parent's global middleware
		r.middlewareMu.RLock()
		middlewareChain = make([]HandlerFunc, len(r.middleware))
		copy(middlewareChain, r.middleware)
		r.middlewareMu.RUnlock()
	}
	// Add subrouter's global middleware
	sub.middlewareMu.RLock()
	middlewareChain = append(middlewareChain, sub.middleware...)
	sub.middlewareMu.RUnlock()
	// Add extra middleware from mount options
	middlewareChain = append(middlewareChain, cfg.extraMiddleware...)

	// Merge routes from subrouter into parent router
	// This preserves the full route pattern for observability
	r.mergeSubrouterRoutes(prefix, sub, middlewareChain, cfg.namePrefix)

	// Handle custom 404 for subrouter prefix
	if cfg.notFoundHandler != nil {
		originalNoRoute := r.noRouteHandler
		r.NoRoute(func(c *Context) {
			path := c.Request.URL.Path
			if strings.HasPrefix(path, prefix) {
				// Request is within subrouter prefix, use subrouter's 404
				cfg.notFoundHandler(c)
			} else if originalNoRoute != nil {
				// Use parent's 404
				originalNoRoute(c)
			} else {
				// Default 404
				c.Status(http.StatusNotFound)
			}
		})
	}
}

// mergeSubrouterRoutes copies routes from the subrouter into the parent router
// with the mount prefix prepended. This preserves full route patterns for
// observability. sub.allRoutes accumulates every route the subrouter has ever
// created regardless of whether it has already warmed up, so mounting works
// the same way before or after the subrouter has served its first request.
func (r *Router) mergeSubrouterRoutes(prefix string, sub *Router, middlewareChain []HandlerFunc, namePrefix string) {
	sub.allRoutesMu.Lock()
	routes := make([]*Route, len(sub.allRoutes))
	copy(routes, sub.allRoutes)
	sub.allRoutesMu.Unlock()

	for _, route := range routes {
		if route.version != "" {
			// Version-specific subrouter routes are not remapped onto the
			// parent's own version roots; mount the standard pipeline only.
			continue
		}
		r.mountRoute(prefix, route, middlewareChain, namePrefix)
	}
}

// mountRoute registers a single route from the subrouter with the mount prefix.
func (r *Router) mountRoute(prefix string, route *Route, middlewareChain []HandlerFunc, namePrefix string) {
	route.mu.Lock()
	rawPath := route.rawPath
	method := route.criteria.method
	userHandlers := route.userHandlers
	constraints := append([]RouteConstraint(nil), route.constraints...)
	typedConstraints := make(map[string]ParamConstraint, len(route.typedConstraints))
	maps.Copy(typedConstraints, route.typedConstraints)
	name := route.name
	description := route.description
	tags := append([]string(nil), route.tags...)
	disabled := route.disabled
	route.mu.Unlock()

	var fullPath string
	if rawPath == "/" {
		fullPath = prefix
	} else {
		fullPath = prefix + rawPath
	}

	allHandlers := make([]HandlerFunc, 0, len(middlewareChain)+len(userHandlers))
	allHandlers = append(allHandlers, middlewareChain...)
	allHandlers = append(allHandlers, userHandlers...)

	newRoute := r.addRoute(method, fullPath, allHandlers)

	// Copy regex constraints - extract pattern string from compiled regex.
	for _, constraint := range constraints {
		pattern := constraint.Pattern.String()
		if len(pattern) >= 2 && pattern[0] == '^' && pattern[len(pattern)-1] == '$' {
			pattern = pattern[1 : len(pattern)-1]
		}
		newRoute.Where(constraint.Param, pattern)
	}

	// Copy typed constraints directly.
	if len(typedConstraints) > 0 {
		newRoute.mu.Lock()
		newRoute.ensureTypedConstraints()
		for param, constraint := range typedConstraints {
			newRoute.typedConstraints[param] = constraint
		}
		newRoute.mu.Unlock()
	}

	if name != "" {
		newRoute.SetName(namePrefix + name)
	}
	if description != "" {
		newRoute.SetDescription(description)
	}
	if len(tags) > 0 {
		newRoute.SetTags(tags...)
	}
	if disabled {
		newRoute.Disable()
	}
}
