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
	"maps"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// RouteConstraint represents a compiled constraint for route parameters,
// kept for introspection (RouteInfo.Constraints); the constraint itself is
// enforced by embedding its pattern directly into the compiled PathPattern.
type RouteConstraint struct {
	Param   string
	Pattern *regexp.Regexp
}

// ConstraintKind represents the type of constraint applied to a route parameter.
type ConstraintKind uint8

const (
	ConstraintNone ConstraintKind = iota
	ConstraintInt
	ConstraintFloat
	ConstraintUUID
	ConstraintRegex
	ConstraintEnum
	ConstraintDate     // RFC3339 full-date
	ConstraintDateTime // RFC3339 date-time
)

// ParamConstraint represents a typed constraint for a route parameter.
// This provides semantic constraint types that map directly to OpenAPI schema types.
type ParamConstraint struct {
	Kind    ConstraintKind
	Pattern string
	Enum    []string
}

// Route is the fluent builder described by the router's registration API:
// GET/POST/... create one, further calls narrow its criteria or attach
// metadata, and it is threaded through the Path link (or a version's Path
// link) as soon as enough is known to compute a stable PathPattern.
//
// Routes use deferred registration - they are collected when created but only
// threaded into the pipeline during Warmup() or on first request. This lets
// the fluent Where*/Consumes/Produces/Language API narrow the criteria
// without re-registration races.
type Route struct {
	router  *Router
	version string // API version ("" = standard pipeline root)

	rawPath       string // as declared: "/users/:id" or "/users/{id}"
	paramPatterns map[string]string

	criteria     routeCriteria
	userHandlers []HandlerFunc // as declared, excluding global middleware
	handlers     []HandlerFunc // userHandlers prefixed with global middleware, set at registration

	constraints           []RouteConstraint
	typedConstraints      map[string]ParamConstraint
	registered            bool
	disabled              bool
	tolerateTrailingSlash bool

	name         string
	description  string
	tags         []string
	template     *routeTemplate
	group        *Group
	versionGroup *VersionGroup

	handler *handlerLink // set once registered; nil before then

	mu sync.Mutex
}

// RouteInfo contains comprehensive information about a registered route for introspection.
type RouteInfo struct {
	Method      string
	Path        string
	HandlerName string
	Middleware  []string
	Constraints map[string]string
	IsStatic    bool
	Version     string
	ParamCount  int
	Consumes    string
	Produces    string
	Language    string
	Disabled    bool
}

// GET adds a route that matches GET requests to the specified path.
func (r *Router) GET(path string, handlers ...HandlerFunc) *Route {
	return r.addRoute(http.MethodGet, path, handlers)
}

// POST adds a route that matches POST requests to the specified path.
func (r *Router) POST(path string, handlers ...HandlerFunc) *Route {
	return r.addRoute(http.MethodPost, path, handlers)
}

// PUT adds a route that matches PUT requests to the specified path.
func (r *Router) PUT(path string, handlers ...HandlerFunc) *Route {
	return r.addRoute(http.MethodPut, path, handlers)
}

// DELETE adds a route that matches DELETE requests to the specified path.
func (r *Router) DELETE(path string, handlers ...HandlerFunc) *Route {
	return r.addRoute(http.MethodDelete, path, handlers)
}

// PATCH adds a route that matches PATCH requests to the specified path.
func (r *Router) PATCH(path string, handlers ...HandlerFunc) *Route {
	return r.addRoute(http.MethodPatch, path, handlers)
}

// OPTIONS adds a route that matches OPTIONS requests to the specified path.
func (r *Router) OPTIONS(path string, handlers ...HandlerFunc) *Route {
	return r.addRoute(http.MethodOptions, path, handlers)
}

// HEAD adds a route that matches HEAD requests to the specified path.
func (r *Router) HEAD(path string, handlers ...HandlerFunc) *Route {
	return r.addRoute(http.MethodHead, path, handlers)
}

// Any registers a route with no method criterion: it sits on the Method
// link's default next-link and answers every method not otherwise claimed.
func (r *Router) Any(path string, handlers ...HandlerFunc) *Route {
	return r.addRoute("", path, handlers)
}

func (r *Router) addRoute(method, path string, handlers []HandlerFunc) *Route {
	if r.frozen.Load() {
		panic("cannot register routes after router is frozen (call Freeze() before serving)")
	}

	paramCount := strings.Count(path, ":") + strings.Count(path, "{")
	if paramCount > 8 {
		r.emit(DiagHighParamCount, "route has more than 8 parameters, using map storage instead of array", map[string]any{
			"method": method, "path": path, "param_count": paramCount,
		})
	}

	route := &Route{
		router:       r,
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

// Routes returns a snapshot of every route registered so far, sorted for
// stable output. Routes still pending registration are threaded into the
// pipeline first (via Warmup), so they are included.
func (r *Router) Routes() []RouteInfo {
	r.Warmup()
	out := r.FindRoutes(routeCriteria{})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Method == out[j].Method {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// buildPattern rewrites legacy ":name" segments and any typed constraints
// into the `{name}`/`{name:regex}` template syntax the pattern compiler
// understands, and a bare "*" segment into the `{filepath:.*}` catch-all,
// leaving segments already written in `{...}` form untouched.
func buildPattern(rawPath string, paramPatterns map[string]string) (literal, pattern string) {
	if !strings.Contains(rawPath, ":") && !strings.Contains(rawPath, "{") && !strings.Contains(rawPath, "*") {
		return rawPath, ""
	}
	segments := strings.Split(strings.Trim(rawPath, "/"), "/")
	for i, seg := range segments {
		if seg == "*" {
			segments[i] = "{filepath:.*}"
		} else if strings.HasPrefix(seg, ":") {
			name := seg[1:]
			if p, ok := paramPatterns[name]; ok && p != "" {
				segments[i] = "{" + name + ":" + p + "}"
			} else {
				segments[i] = "{" + name + "}"
			}
		}
	}
	return "", "/" + strings.Join(segments, "/")
}

// registerRoute threads the route into its target pipeline root (the
// standard root, or a version-specific one), computing its final
// PathPattern from the declared path plus any typed constraints.
func (route *Route) registerRoute() {
	route.mu.Lock()
	defer route.mu.Unlock()

	lit, pat := buildPattern(route.rawPath, route.paramPatterns)
	route.criteria.path = lit
	route.criteria.pattern = pat
	route.registered = true
	route.disabled = false

	route.router.middlewareMu.RLock()
	allHandlers := make([]HandlerFunc, 0, len(route.router.middleware)+len(route.userHandlers))
	allHandlers = append(allHandlers, route.router.middleware...)
	route.router.middlewareMu.RUnlock()
	allHandlers = append(allHandlers, route.userHandlers...)
	route.handlers = allHandlers

	var root *pathLink
	if route.version != "" {
		root = route.router.versionRoot(route.version)
	} else {
		root = route.router.root
	}
	route.handler = root.setRoute(route)
}

// Where adds a regex constraint to a route parameter.
func (route *Route) Where(param, pattern string) *Route {
	if _, err := regexp.Compile("^" + pattern + "$"); err != nil {
		panic(fmt.Sprintf("Invalid regex pattern for parameter '%s': %v", param, err))
	}
	route.mu.Lock()
	if route.paramPatterns == nil {
		route.paramPatterns = make(map[string]string)
	}
	route.paramPatterns[param] = pattern
	wasRegistered := route.registered
	route.mu.Unlock()
	if wasRegistered {
		route.registerRoute()
	}
	return route
}

func (r *Route) ensureTypedConstraints() {
	if r.typedConstraints == nil {
		r.typedConstraints = make(map[string]ParamConstraint)
	}
}

func regexForConstraint(pc ParamConstraint) string {
	switch pc.Kind {
	case ConstraintInt:
		return `\d+`
	case ConstraintFloat:
		return `-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`
	case ConstraintUUID:
		return `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}`
	case ConstraintRegex:
		return pc.Pattern
	case ConstraintEnum:
		escaped := make([]string, len(pc.Enum))
		for i, v := range pc.Enum {
			escaped[i] = regexp.QuoteMeta(v)
		}
		return "(" + strings.Join(escaped, "|") + ")"
	case ConstraintDate:
		return `\d{4}-\d{2}-\d{2}`
	case ConstraintDateTime:
		return `\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})`
	default:
		return ""
	}
}

func (r *Route) setTypedConstraint(name string, pc ParamConstraint) *Route {
	r.mu.Lock()
	r.ensureTypedConstraints()
	r.typedConstraints[name] = pc
	if r.paramPatterns == nil {
		r.paramPatterns = make(map[string]string)
	}
	r.paramPatterns[name] = regexForConstraint(pc)
	wasRegistered := r.registered
	r.mu.Unlock()
	if wasRegistered {
		r.registerRoute()
	}
	return r
}

// WhereUUID constrains a parameter to a valid UUID.
func (r *Route) WhereUUID(name string) *Route {
	return r.setTypedConstraint(name, ParamConstraint{Kind: ConstraintUUID})
}

// WhereInt constrains a parameter to an integer.
func (r *Route) WhereInt(name string) *Route {
	return r.setTypedConstraint(name, ParamConstraint{Kind: ConstraintInt})
}

// WhereFloat constrains a parameter to a floating-point number.
func (r *Route) WhereFloat(name string) *Route {
	return r.setTypedConstraint(name, ParamConstraint{Kind: ConstraintFloat})
}

// WhereRegex constrains a parameter with a custom regex pattern.
func (r *Route) WhereRegex(name, pattern string) *Route {
	return r.setTypedConstraint(name, ParamConstraint{Kind: ConstraintRegex, Pattern: pattern})
}

// WhereEnum constrains a parameter to one of a fixed set of values.
func (r *Route) WhereEnum(name string, values ...string) *Route {
	return r.setTypedConstraint(name, ParamConstraint{Kind: ConstraintEnum, Enum: append([]string(nil), values...)})
}

// WhereDate constrains a parameter to an RFC3339 full-date.
func (r *Route) WhereDate(name string) *Route {
	return r.setTypedConstraint(name, ParamConstraint{Kind: ConstraintDate})
}

// WhereDateTime constrains a parameter to an RFC3339 date-time.
func (r *Route) WhereDateTime(name string) *Route {
	return r.setTypedConstraint(name, ParamConstraint{Kind: ConstraintDateTime})
}

// TypedConstraints returns a copy of the typed constraints map.
func (r *Route) TypedConstraints() map[string]ParamConstraint {
	if len(r.typedConstraints) == 0 {
		return nil
	}
	out := make(map[string]ParamConstraint, len(r.typedConstraints))
	maps.Copy(out, r.typedConstraints)
	return out
}

// Consumes narrows this route's Consumes-link criterion (request
// Content-Type). An empty string (the default) registers on the default
// next-link, matching any or no Content-Type.
func (route *Route) Consumes(mediaType string) *Route {
	route.mu.Lock()
	route.criteria.consumes = mediaType
	wasRegistered := route.registered
	route.mu.Unlock()
	if wasRegistered {
		route.registerRoute()
	}
	return route
}

// Produces narrows this route's Produces-link criterion (negotiated via
// `Accept`).
func (route *Route) Produces(mediaType string) *Route {
	route.mu.Lock()
	route.criteria.produces = mediaType
	wasRegistered := route.registered
	route.mu.Unlock()
	if wasRegistered {
		route.registerRoute()
	}
	return route
}

// Language narrows this route's Language-link criterion (negotiated via
// `Accept-Language`).
func (route *Route) Language(lang string) *Route {
	route.mu.Lock()
	route.criteria.language = lang
	wasRegistered := route.registered
	route.mu.Unlock()
	if wasRegistered {
		route.registerRoute()
	}
	return route
}

// TolerateTrailingSlash opts this route into the §4.2 dual-insertion
// behavior: both the literal path and its trailing-slash variant dispatch
// to the same handler.
func (route *Route) TolerateTrailingSlash() *Route {
	route.mu.Lock()
	route.tolerateTrailingSlash = true
	wasRegistered := route.registered
	route.mu.Unlock()
	if wasRegistered {
		route.registerRoute()
	}
	return route
}

// Enable marks a previously disabled route as dispatchable again.
func (route *Route) Enable() *Route {
	route.mu.Lock()
	route.disabled = false
	h := route.handler
	route.mu.Unlock()
	if h != nil {
		h.enabled.Store(true)
	}
	return route
}

// Disable marks the route as not dispatchable: the Handler Link still
// reports the route as present (hasRoute semantics) but handle returns
// DisabledRoute, which a Produces/Language ancestor may recover from.
func (route *Route) Disable() *Route {
	route.mu.Lock()
	route.disabled = true
	h := route.handler
	route.mu.Unlock()
	if h != nil {
		h.enabled.Store(false)
	}
	return route
}

// Remove detaches the route's handler from the pipeline. Future dispatch
// to this leaf reports RouteNotFound rather than DisabledRoute.
func (route *Route) Remove() {
	route.mu.Lock()
	h := route.handler
	route.mu.Unlock()
	if h != nil {
		h.route.Store(nil)
	}
}

// SetName assigns a human-readable name to the route for reverse routing and introspection.
func (route *Route) SetName(name string) *Route {
	if route.router.frozen.Load() {
		panic("cannot name routes after router is frozen")
	}
	if route.group != nil && route.group.namePrefix != "" {
		name = route.group.namePrefix + name
	} else if route.versionGroup != nil && route.versionGroup.namePrefix != "" {
		name = route.versionGroup.namePrefix + name
	}

	route.router.namedRoutesMu.Lock()
	if existing, ok := route.router.namedRoutes[name]; ok {
		route.router.namedRoutesMu.Unlock()
		panic(fmt.Sprintf("duplicate route name: %s (existing: %s %s, new: %s %s)",
			name, existing.criteria.method, existing.rawPath, route.criteria.method, route.rawPath))
	}
	route.name = name
	route.router.namedRoutes[name] = route
	route.router.namedRoutesMu.Unlock()

	return route
}

// SetDescription sets an optional description for the route.
func (route *Route) SetDescription(desc string) *Route {
	route.description = desc
	return route
}

// SetTags adds categorization tags to the route.
func (route *Route) SetTags(tags ...string) *Route {
	route.tags = append(route.tags, tags...)
	return route
}

// Method returns the HTTP method for this route ("" if unspecified).
func (route *Route) Method() string { return route.criteria.method }

// Path returns the route's declared path.
func (route *Route) Path() string { return route.rawPath }

// Name returns the route name (empty if not named).
func (route *Route) Name() string { return route.name }

// Description returns the route description (empty if not set).
func (route *Route) Description() string { return route.description }

// Tags returns the route tags.
func (route *Route) Tags() []string { return route.tags }

// routeDisplayPath is what Context.routePattern is set to on dispatch.
func (route *Route) routeDisplayPath() string { return route.rawPath }

// toRouteInfo builds the introspection record for this route. partial is the
// criteria tuple accumulated while walking down to this leaf (§4.9 route
// extractor), which is authoritative over the route's own fields since it
// reflects the actual dispatch key (e.g. the literal path variant chosen by
// trailing-slash tolerance).
func (route *Route) toRouteInfo(partial routeCriteria, enabled bool) RouteInfo {
	route.mu.Lock()
	defer route.mu.Unlock()
	constraints := make(map[string]string, len(route.paramPatterns))
	for k, v := range route.paramPatterns {
		constraints[k] = v
	}
	displayPath := partial.path
	if displayPath == "" {
		displayPath = partial.pattern
	}
	if displayPath == "" {
		displayPath = route.rawPath
	}
	return RouteInfo{
		Method:      partial.method,
		Path:        displayPath,
		HandlerName: handlerChainName(route.handlers),
		Constraints: constraints,
		IsStatic:    route.criteria.pattern == "",
		Version:     route.version,
		ParamCount:  len(route.paramPatterns),
		Consumes:    partial.consumes,
		Produces:    partial.produces,
		Language:    partial.language,
		Disabled:    !enabled,
	}
}

func handlerChainName(handlers []HandlerFunc) string {
	if len(handlers) == 0 {
		return "anonymous"
	}
	return getHandlerName(handlers[len(handlers)-1])
}

// getHandlerName extracts the function name from a HandlerFunc using reflection.
func getHandlerName(handler HandlerFunc) string {
	if handler == nil {
		return "nil"
	}
	funcPtr := runtime.FuncForPC(reflect.ValueOf(handler).Pointer())
	if funcPtr == nil {
		return "unknown"
	}
	fullName := funcPtr.Name()
	if lastSlash := strings.LastIndex(fullName, "/"); lastSlash >= 0 {
		fullName = fullName[lastSlash+1:]
	}
	return fullName
}

// routeTemplate represents a compiled route pattern for reverse routing.
type routeTemplate struct {
	segments []routeSegment
}

type routeSegment struct {
	static bool
	value  string
}

// parseRouteTemplate parses a route path into segments for reverse routing,
// accepting both ":name" and "{name}"/"{name:pattern}" parameter syntax.
func parseRouteTemplate(path string) *routeTemplate {
	segments := make([]routeSegment, 0)
	trimmed := strings.Trim(path, "/")

	for part := range strings.SplitSeq(trimmed, "/") {
		if part == "" {
			continue
		}
		switch {
		case strings.HasPrefix(part, ":"):
			segments = append(segments, routeSegment{static: false, value: part[1:]})
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := part[1 : len(part)-1]
			if colon := strings.IndexByte(name, ':'); colon >= 0 {
				name = name[:colon]
			}
			segments = append(segments, routeSegment{static: false, value: name})
		default:
			segments = append(segments, routeSegment{static: true, value: part})
		}
	}

	return &routeTemplate{segments: segments}
}

// Frozen returns true if the router has been frozen (routes are immutable).
func (r *Router) Frozen() bool {
	return r.frozen.Load()
}

// Freeze freezes the router, making all routes immutable and precompiling
// named-route templates for URLFor.
func (r *Router) Freeze() {
	if r.frozen.CompareAndSwap(false, true) {
		r.Warmup()

		r.namedRoutesMu.Lock()
		for _, route := range r.namedRoutes {
			if route.template == nil {
				route.template = parseRouteTemplate(route.rawPath)
			}
		}
		routes := make([]*Route, 0, len(r.namedRoutes))
		for _, route := range r.namedRoutes {
			routes = append(routes, route)
		}
		r.namedRoutesMu.Unlock()

		r.routeSnapshotMutex.Lock()
		r.routeSnapshot = routes
		r.routeSnapshotMutex.Unlock()
	}
}

// GetRoute retrieves a named route. Panics if the router is not frozen.
func (r *Router) GetRoute(name string) (*Route, bool) {
	if !r.frozen.Load() {
		panic("routes not frozen yet; call Freeze() before accessing routes")
	}
	r.namedRoutesMu.RLock()
	route, ok := r.namedRoutes[name]
	r.namedRoutesMu.RUnlock()
	return route, ok
}

// GetRoutes returns an immutable snapshot of all named routes. Panics if the
// router is not frozen.
func (r *Router) GetRoutes() []*Route {
	if !r.frozen.Load() {
		panic("routes not frozen yet; call Freeze() before accessing routes")
	}
	r.routeSnapshotMutex.RLock()
	defer r.routeSnapshotMutex.RUnlock()
	result := make([]*Route, len(r.routeSnapshot))
	copy(result, r.routeSnapshot)
	return result
}

// URLFor generates a URL from a route name and parameters.
func (r *Router) URLFor(routeName string, params map[string]string, query url.Values) (string, error) {
	if !r.frozen.Load() {
		return "", ErrRoutesNotFrozen
	}
	r.namedRoutesMu.RLock()
	route, ok := r.namedRoutes[routeName]
	r.namedRoutesMu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, routeName)
	}
	if route.template == nil {
		route.template = parseRouteTemplate(route.rawPath)
	}

	var buf strings.Builder
	buf.WriteByte('/')
	for i, seg := range route.template.segments {
		if i > 0 {
			buf.WriteByte('/')
		}
		if seg.static {
			buf.WriteString(seg.value)
			continue
		}
		val, ok := params[seg.value]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrMissingRouteParameter, seg.value)
		}
		buf.WriteString(url.PathEscape(val))
	}
	if len(query) > 0 {
		buf.WriteByte('?')
		buf.WriteString(query.Encode())
	}
	return buf.String(), nil
}

// MustURLFor generates a URL from a route name and parameters, panicking on error.
func (r *Router) MustURLFor(routeName string, params map[string]string, query url.Values) string {
	u, err := r.URLFor(routeName, params, query)
	if err != nil {
		panic(fmt.Sprintf("MustURLFor failed: %v", err))
	}
	return u
}
