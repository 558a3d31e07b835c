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
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"rivaas.dev/router/version"
)

// noopLogger is a singleton no-op logger used when no observability is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger.
// This is used by implementations of ObservabilityRecorder when logging is disabled.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// Option defines functional options for router configuration.
type Option func(*Router)

// responseWriter wraps http.ResponseWriter to capture status code and size.
// It also prevents "superfluous response.WriteHeader call" errors.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
}

// WriteHeader captures the status code and prevents duplicate calls.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

// Write captures the response size and marks as written.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.written = true
	}
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// StatusCode returns the HTTP status code.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Size returns the response size in bytes.
func (rw *responseWriter) Size() int64 {
	return rw.size
}

// Written returns true if headers have been written.
func (rw *responseWriter) Written() bool {
	return rw.written
}

// Compile-time check that responseWriter implements ResponseInfo.
var _ ResponseInfo = (*responseWriter)(nil)

// Hijack implements http.Hijacker interface.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, ErrResponseWriterNotHijacker
}

// Flush implements http.Flusher interface.
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Router is the entry point of the routing pipeline. Route registration
// builds a Route that is threaded into one of the Router's pathLink roots
// (the standard root, or a version's root); ServeHTTP walks that same
// pipeline for every request.
//
// The Router is safe for concurrent use and can handle multiple goroutines
// accessing it simultaneously without any additional synchronization.
//
// Example:
//
//	r := router.MustNew()
//	r.GET("/users/{id}", func(c *router.Context) {
//	    userID := c.Param("id")
//	    c.JSON(http.StatusOK, map[string]string{"id": userID})
//	})
//	http.ListenAndServe(":8080", r)
type Router struct {
	root           *pathLink            // standard (non-versioned) pipeline root
	versionRoots   map[string]*pathLink // version string -> its own pipeline root
	versionRootsMu sync.RWMutex

	middleware    []HandlerFunc         // Global middleware chain applied to all routes
	middlewareMu  sync.RWMutex          // Protects middleware slice
	observability ObservabilityRecorder // Unified observability (metrics, tracing, logging)
	diagnostics   DiagnosticHandler     // Optional diagnostic event handler

	// Deferred route registration
	pendingRoutes   []*Route   // Routes waiting to be registered during Warmup
	pendingRoutesMu sync.Mutex // Protects pendingRoutes slice and warmedUp flag
	warmupOnce      sync.Once  // Ensures warmup runs exactly once
	warmedUp        bool       // True after Warmup has completed

	// allRoutes accumulates every Route ever created through this router,
	// regardless of warmup state; Mount uses it to re-register a
	// subrouter's routes into the parent even after the subrouter has
	// already warmed up and cleared its own pendingRoutes.
	allRoutes   []*Route
	allRoutesMu sync.Mutex

	// Routing features
	versionEngine *version.Engine // API versioning engine for version detection

	checkCancellation bool // Enable context cancellation checks in Next() (default: true)

	// Custom 404 handler
	noRouteHandler HandlerFunc  // Custom handler for unmatched routes (nil means use http.NotFound)
	noRouteMutex   sync.RWMutex // Protects noRouteHandler (rarely written, frequently read)

	// HTTP/2 Cleartext (H2C) support
	enableH2C      bool            // Enable HTTP/2 cleartext support (dev/behind LB only)
	serverTimeouts *serverTimeouts // HTTP server timeout configuration

	// Trusted proxies configuration for real client IP detection
	realip *realIPConfig // Compiled trusted proxy configuration

	// Route freezing and naming
	frozen             atomic.Bool       // Routes are frozen (immutable) after freeze
	namedRoutes        map[string]*Route // name -> route mapping
	namedRoutesMu      sync.RWMutex      // Protects namedRoutes
	routeSnapshot      []*Route          // Immutable snapshot built at freeze time
	routeSnapshotMutex sync.RWMutex      // Protects routeSnapshot
}

// serverTimeouts holds HTTP server timeout configuration.
type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

// New creates a new router instance with optional configuration.
//
// The returned router is ready to use and is safe for concurrent access.
//
// Returns an error if the router configuration is invalid. Configuration
// is validated immediately at startup rather than at runtime.
//
// For a version that panics instead of returning an error, use MustNew.
//
// Example:
//
//	r, err := router.New()
//	if err != nil {
//	    log.Fatalf("Failed to create router: %v", err)
//	}
//	r.GET("/health", healthHandler)
//	http.ListenAndServe(":8080", r)
//
// With options:
//
//	r, err := router.New(
//	    router.WithH2C(true),
//	    router.WithServerTimeouts(10*time.Second, 30*time.Second, 60*time.Second, 120*time.Second),
//	)
//	if err != nil {
//	    log.Fatalf("Invalid router configuration: %v", err)
//	}
//	r.GET("/api/users", getUserHandler)
//	http.ListenAndServe(":8080", r)
func New(opts ...Option) (*Router, error) {
	r := &Router{
		root:              newPathLink(),
		versionRoots:      make(map[string]*pathLink),
		checkCancellation: true, // Enable cancellation checks by default
		namedRoutes:       make(map[string]*Route),
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	return r, nil
}

// MustNew creates a new Router instance and panics if configuration is invalid.
// This is a convenience wrapper around New for cases where configuration errors
// should cause the application to fail immediately at startup.
//
// Usage:
//
//	r := router.MustNew(
//	    router.WithH2C(true),
//	)
//	// Panics if configuration is invalid
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustNew: %v", err))
	}
	return r
}

// validate checks the router configuration for common errors.
//
// Note: Routes are validated at registration time, not at router creation time,
// because routes are registered after New() returns.
func (r *Router) validate() error {
	return nil
}

// versionRoot lazily creates and caches the pipeline root for an API version.
func (r *Router) versionRoot(version string) *pathLink {
	r.versionRootsMu.RLock()
	root, ok := r.versionRoots[version]
	r.versionRootsMu.RUnlock()
	if ok {
		return root
	}

	r.versionRootsMu.Lock()
	defer r.versionRootsMu.Unlock()
	if root, ok := r.versionRoots[version]; ok {
		return root
	}
	root = newPathLink()
	r.versionRoots[version] = root
	return root
}

// SetObservabilityRecorder sets the observability recorder for metrics, tracing, and logging.
// This allows you to configure observability after router creation or change it at runtime.
// Pass nil to disable all observability.
//
// Example:
//
//	r := router.MustNew()
//	r.SetObservabilityRecorder(myObservabilityRecorder)
func (r *Router) SetObservabilityRecorder(recorder ObservabilityRecorder) {
	r.observability = recorder
}

// emit sends a diagnostic event if a handler is configured.
func (r *Router) emit(kind DiagnosticKind, message string, fields map[string]any) {
	if r.diagnostics != nil {
		r.diagnostics.OnDiagnostic(DiagnosticEvent{
			Kind:    kind,
			Message: message,
			Fields:  fields,
		})
	}
}

// NoRoute sets a custom handler for requests that don't match any registered routes.
// This allows you to customize 404 error responses instead of using the default http.NotFound.
//
// The handler receives a Context that can be used to send custom JSON responses,
// redirect to another page, or perform any other action.
//
// Example:
//
//	r.NoRoute(func(c *Context) {
//	    c.JSON(http.StatusNotFound, map[string]string{"error": "route not found"})
//	})
//
// Setting handler to nil will restore the default http.NotFound behavior.
func (r *Router) NoRoute(handler HandlerFunc) {
	r.noRouteMutex.Lock()
	defer r.noRouteMutex.Unlock()
	r.noRouteHandler = handler
}

// RouteExists checks if a route exists for the given method and path.
// Returns true if the route is registered, false otherwise.
// This is useful for collision detection when registering routes.
//
// Example:
//
//	if r.RouteExists("GET", "/healthz") {
//	    return fmt.Errorf("route already registered: GET /healthz")
//	}
func (r *Router) RouteExists(method, path string) bool {
	r.Warmup()
	for _, ri := range r.FindRoutes(routeCriteria{}) {
		if ri.Version != "" {
			continue
		}
		if ri.Method == method && ri.Path == path {
			return true
		}
	}
	return false
}

// Use adds global middleware that runs for every route on this router,
// ahead of any group or route-specific middleware.
func (r *Router) Use(middleware ...HandlerFunc) {
	r.middlewareMu.Lock()
	r.middleware = append(r.middleware, middleware...)
	r.middlewareMu.Unlock()
}

// Group creates a new route group with the specified prefix and optional middleware.
// Route groups allow you to organize related routes under a common path prefix
// and apply middleware that is specific to that group.
//
// The prefix will be prepended to all routes registered with the group.
// Group middleware is executed after global middleware but before route handlers.
//
// Example:
//
//	api := r.Group("/api/v1", AuthMiddleware())
//	api.GET("/users", getUsersHandler)    // Matches: GET /api/v1/users
//	api.POST("/users", createUserHandler) // Matches: POST /api/v1/users
func (r *Router) Group(prefix string, middleware ...HandlerFunc) *Group {
	return &Group{
		router:     r,
		prefix:     prefix,
		middleware: middleware,
	}
}

// Warmup registers every pending route into its pipeline. It is called
// automatically (and only once) on the first request, but can be invoked
// explicitly ahead of time to pay registration cost outside the hot path.
func (r *Router) Warmup() {
	r.warmupOnce.Do(r.doWarmup)
}

func (r *Router) doWarmup() {
	r.pendingRoutesMu.Lock()
	pending := r.pendingRoutes
	r.pendingRoutes = nil
	r.warmedUp = true
	r.pendingRoutesMu.Unlock()

	for _, rt := range pending {
		rt.registerRoute()
	}
}

// recordRouteRegistration emits a diagnostic for routes with unusually many
// path parameters; it is a no-op unless a diagnostics handler is configured.
func (r *Router) recordRouteRegistration(method, path string) {
	paramCount := 0
	for _, segment := range splitPathSegments(path) {
		if len(segment) > 0 && (segment[0] == ':' || segment[0] == '{') {
			paramCount++
		}
	}
	if paramCount > 8 {
		r.emit(DiagHighParamCount, "route has a high parameter count", map[string]any{
			"method":      method,
			"path":        path,
			"param_count": paramCount,
		})
	}
}

func splitPathSegments(path string) []string {
	var segments []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}
	if start < len(path) {
		segments = append(segments, path[start:])
	}
	return segments
}

// ServeHTTP implements the http.Handler interface for Router.
//
// Dispatch first walks the standard (non-versioned) pipeline; a non-versioned
// route on an infrastructure endpoint like /health or /metrics is found
// without ever running version detection. If the standard pipeline reports
// RouteNotFound and versioning is configured, the request's version is
// detected and dispatch retries against that version's own pipeline root.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Warmup()

	ctx := req.Context()
	var obsState any

	if r.observability != nil {
		var enrichedCtx context.Context
		enrichedCtx, obsState = r.observability.OnRequestStart(ctx, req)
		if enrichedCtx != ctx {
			ctx = enrichedCtx
			req = req.WithContext(ctx)
		}
	}

	if r.observability != nil && obsState != nil {
		w = r.observability.WrapResponseWriter(w, obsState)
	}

	c := getContextFromGlobalPool()
	c.Request = req
	c.Response = w
	c.router = r
	c.index = -1

	dispatchErr := r.root.handle(c)

	if dispatchErr != nil && dispatchErr.recoverable() && r.versionEngine != nil &&
		r.versionEngine.ShouldApplyVersioning(req.URL.Path) {
		detected := r.versionEngine.DetectVersion(req)
		c.version = detected
		dispatchErr = r.versionRoot(detected).handle(c)
		if dispatchErr == nil {
			r.versionEngine.SetLifecycleHeaders(w, detected, c.routePattern)
		}
	}

	routePattern := c.routePattern
	if dispatchErr != nil {
		routePattern = r.writeDispatchError(c, dispatchErr)
	}

	var logger *slog.Logger
	if r.observability != nil {
		logger = r.observability.BuildRequestLogger(ctx, req, routePattern)
	} else {
		logger = noopLogger
	}
	c.logger = logger

	releaseGlobalContext(c)

	if obsState != nil {
		r.observability.OnRequestEnd(ctx, obsState, w, routePattern)
	}
}

// writeDispatchError renders the terminal response for a *dispatchError that
// survived to the top of the pipeline (§4.11/§4.12) and returns the route
// pattern observability should record for it.
func (r *Router) writeDispatchError(c *Context, derr *dispatchError) string {
	if derr.kind == errRouteNotFound || derr.kind == errDisabledRoute {
		r.noRouteMutex.RLock()
		handler := r.noRouteHandler
		r.noRouteMutex.RUnlock()
		if handler != nil {
			c.handlers = []HandlerFunc{handler}
			c.index = -1
			c.Next()
			return "_not_found"
		}
		http.NotFound(c.Response, c.Request)
		return "_not_found"
	}

	w := c.Response
	if derr.kind == errMethodNotAllowed && len(derr.allowed) > 0 {
		w.Header().Set("Allow", joinStrings(derr.allowed, ", "))
	}
	if derr.kind == errNotAcceptable && len(derr.offered) > 0 {
		// RFC 7231 recommends noting the entity's own content types on a 406.
	}
	http.Error(w, derr.Error(), derr.kind.status())
	return "_unmatched"
}

func joinStrings(parts []string, sep string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	total := len(sep) * (len(parts) - 1)
	for _, p := range parts {
		total += len(p)
	}
	buf := make([]byte, 0, total)
	buf = append(buf, parts[0]...)
	for _, p := range parts[1:] {
		buf = append(buf, sep...)
		buf = append(buf, p...)
	}
	return string(buf)
}

// Serve starts an HTTP server on addr using the router as the handler.
// Server timeouts default to production-safe values unless overridden via
// WithServerTimeouts.
//
// Example:
//
//	r := router.MustNew()
//	r.GET("/", func(c *router.Context) {
//	    c.String(http.StatusOK, "Hello, World!")
//	})
//	if err := r.Serve(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// With H2C enabled (dev/behind LB only):
//
//	r := router.MustNew(router.WithH2C(true))
//	r.Serve(":8080")
func (r *Router) Serve(addr string) error {
	h := http.Handler(r)

	if r.enableH2C {
		h = h2c.NewHandler(h, &http2.Server{})
		r.emit(DiagH2CEnabled, "H2C enabled; use only in dev or behind a trusted LB", nil)
	}

	timeouts := r.serverTimeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}

	return srv.ListenAndServe()
}

// ServeTLS starts the HTTPS server with TLS configuration.
// For TLS servers, HTTP/2 is automatically enabled via ALPN.
//
// Example:
//
//	r := router.MustNew()
//	r.GET("/", func(c *router.Context) {
//	    c.String(http.StatusOK, "Hello, World!")
//	})
//	if err := r.ServeTLS(":8443", "cert.pem", "key.pem"); err != nil {
//	    log.Fatal(err)
//	}
func (r *Router) ServeTLS(addr, certFile, keyFile string) error {
	timeouts := r.serverTimeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}

	return srv.ListenAndServeTLS(certFile, keyFile)
}
