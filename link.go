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

// The dispatch pipeline is a fixed 7-stage chain of concrete link types:
//
//	Path -> PathPattern -> Method -> Consumes -> Produces -> Language -> Handler
//
// Each stage owns the matching logic for exactly one dimension of a Route.
// Path and PathPattern are alternatives for the same "path" dimension
// (§3: a Route has either a literal path or a PathPattern, never both), so
// the Path link's "next" is the single shared PathPattern link; every other
// stage is reached as a freshly created "child sub-pipeline" hung off the
// map entry (or default slot) the route matched at the stage before it.
// There is deliberately no single polymorphic `link` interface: the seven
// concrete types (pathLink, patternLink, methodLink, consumesLink,
// producesLink, languageLink, handlerLink) call each other directly, which
// keeps each one's §4 semantics (and its RCU child map) in one place.

// routeCriteria is the ordered tuple a Route carries through the pipeline,
// one slot per link dimension (path, method, consumes, produces, language).
type routeCriteria struct {
	path     string // literal path, "" if pattern is set
	pattern  string // path template, "" if path is set
	method   string // "" means unspecified (registers on the default next-link)
	consumes string // media range for request Content-Type, "" = any
	produces string // content type for Accept negotiation, "" = any
	language string // language range for Accept-Language, "" = any
}

// dispatchErrorKind enumerates the closed error taxonomy of §4.11.
type dispatchErrorKind int

const (
	errRouteNotFound dispatchErrorKind = iota
	errDisabledRoute
	errMethodNotAllowed
	errUnsupportedMediaType
	errNotAcceptable
	errBadRequest
	errInternal
)

// dispatchError is the typed error surfaced by a link's handle method. Per
// §7, RouteNotFound/DisabledRoute are recoverable by an ancestor Produces or
// Language link (iteration continues with the next candidate); all other
// kinds are terminal.
type dispatchError struct {
	kind    dispatchErrorKind
	allowed []string // populated for errMethodNotAllowed
	offered []string // populated for errNotAcceptable (produced types offered)
	message string
}

func (e *dispatchError) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.kind.String()
}

func (k dispatchErrorKind) String() string {
	switch k {
	case errRouteNotFound:
		return "route not found"
	case errDisabledRoute:
		return "route disabled"
	case errMethodNotAllowed:
		return "method not allowed"
	case errUnsupportedMediaType:
		return "unsupported media type"
	case errNotAcceptable:
		return "not acceptable"
	case errBadRequest:
		return "bad request"
	default:
		return "internal server error"
	}
}

// recoverable reports whether an ancestor Produces/Language link may catch
// this error and continue iterating candidates (§4.6/§4.7/§7).
func (e *dispatchError) recoverable() bool {
	return e.kind == errRouteNotFound || e.kind == errDisabledRoute
}

// status maps a dispatchErrorKind to its HTTP status per §4.11.
func (k dispatchErrorKind) status() int {
	switch k {
	case errRouteNotFound, errDisabledRoute:
		return 404
	case errMethodNotAllowed:
		return 405
	case errUnsupportedMediaType:
		return 415
	case errNotAcceptable:
		return 406
	case errBadRequest:
		return 400
	default:
		return 500
	}
}

// rcuMap is a read-copy-update map used by every link to hold its children:
// in-flight dispatches load a stable snapshot while mutating operations
// install a fresh copy via compare-and-swap retry. This generalizes the
// teacher's hand-rolled unsafe.Pointer route-tree swap into one small
// generic helper reused by every link kind.
type rcuMap[K comparable, V any] struct {
	ptr atomic.Pointer[map[K]V]
}

func newRCUMap[K comparable, V any]() *rcuMap[K, V] {
	m := make(map[K]V)
	r := &rcuMap[K, V]{}
	r.ptr.Store(&m)
	return r
}

// load returns the current snapshot. Safe for concurrent use with update.
func (r *rcuMap[K, V]) load() map[K]V {
	p := r.ptr.Load()
	if p == nil {
		return nil
	}
	return *p
}

// get returns the value for key in the current snapshot.
func (r *rcuMap[K, V]) get(key K) (V, bool) {
	m := r.load()
	v, ok := m[key]
	return v, ok
}

// update installs a new snapshot built by fn from the current one, retrying
// on concurrent-mutation races.
func (r *rcuMap[K, V]) update(fn func(current map[K]V) map[K]V) {
	for {
		oldPtr := r.ptr.Load()
		var old map[K]V
		if oldPtr != nil {
			old = *oldPtr
		}
		next := fn(old)
		if r.ptr.CompareAndSwap(oldPtr, &next) {
			return
		}
	}
}

// getOrCreate returns the existing value for key, or installs and returns
// a freshly created one via newFn.
func (r *rcuMap[K, V]) getOrCreate(key K, newFn func() V) V {
	if v, ok := r.get(key); ok {
		return v
	}
	var created V
	r.update(func(current map[K]V) map[K]V {
		if v, ok := current[key]; ok {
			created = v
			return current
		}
		next := make(map[K]V, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		created = newFn()
		next[key] = created
		return next
	})
	return created
}

// remove drops key from the map, returning true if it was present.
func (r *rcuMap[K, V]) remove(key K) bool {
	var removed bool
	r.update(func(current map[K]V) map[K]V {
		if _, ok := current[key]; !ok {
			return current
		}
		removed = true
		next := make(map[K]V, len(current))
		for k, v := range current {
			if k != key {
				next[k] = v
			}
		}
		return next
	})
	return removed
}
