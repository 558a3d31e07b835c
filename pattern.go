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
	"regexp"
	"strings"
)

// segmentKind classifies one path-template segment for the §4.3 specificity
// comparator. Order matters: a lower value is more specific.
type segmentKind int

const (
	segLiteral       segmentKind = iota // "/users"
	segConstrained                      // "{id:[0-9]+}"
	segUnconstrained                    // "{id}"
	segCatchAll                         // "{rest:.*}"
)

// pathSegment is one compiled segment of a PathPattern. A segment may mix
// literal text with one or more captures ("{p1}_{p2}"); names holds every
// capture bound within the segment in left-to-right order.
type pathSegment struct {
	kind    segmentKind
	literal string   // set when kind == segLiteral
	names   []string // parameter names bound within this segment, in order
}

// PathPattern is the compiled form of a §6 path template
// ("/static/{name}/{name:regex}/{name:.*}"). It is created once at
// registration and is immutable thereafter (§3 invariant).
type PathPattern struct {
	Original string
	regex    *regexp.Regexp
	// Params has one slot per regex capturing group; a literal segment
	// contributes no slot. An unnamed capture "{}" contributes a slot whose
	// value is the empty string sentinel (matches, binds nothing).
	Params   []string
	segments []pathSegment
}

// compilePathPattern parses a §6 path template into a PathPattern. Reserved
// regex characters in literal text are quoted; "{name}" compiles to
// "([^/]+)", "{name:regex}" to "(regex)", "{name:.*}" to "(.*)" (the .*
// sub-case also reclassifies the segment as a greedy catch-all for
// specificity purposes), and unnamed "{}" captures match without binding.
// A segment may interleave literal text with multiple captures
// ("{p1}_{p2}"); each is compiled into its own group at the point it
// appears, with any surrounding literal text quoted in place around them.
func compilePathPattern(template string) *PathPattern {
	parts := strings.Split(strings.Trim(template, "/"), "/")
	segments := make([]pathSegment, 0, len(parts))
	params := make([]string, 0, len(parts))

	var sb strings.Builder
	sb.WriteString("^")
	for _, part := range parts {
		sb.WriteString("/")
		seg, piece, names := parseSegmentTemplate(part)
		sb.WriteString(piece)
		segments = append(segments, seg)
		params = append(params, names...)
	}
	sb.WriteString("$")

	return &PathPattern{
		Original: template,
		regex:    regexp.MustCompile(sb.String()),
		Params:   params,
		segments: segments,
	}
}

// parseSegmentTemplate compiles one "/"-delimited path segment, which may be
// a bare literal, a single "{name:constraint}" capture, or a mix of literal
// text and multiple captures. It returns the compiled pathSegment, the
// regex piece to splice into the pattern, and the capture names bound by
// this segment in left-to-right order.
func parseSegmentTemplate(part string) (pathSegment, string, []string) {
	var regexPiece strings.Builder
	var literalBuf strings.Builder
	var names []string
	kind := segLiteral
	hasCapture := false

	flushLiteral := func() {
		if literalBuf.Len() > 0 {
			regexPiece.WriteString(regexp.QuoteMeta(literalBuf.String()))
			literalBuf.Reset()
		}
	}

	i := 0
	for i < len(part) {
		if part[i] != '{' {
			literalBuf.WriteByte(part[i])
			i++
			continue
		}

		// Find the matching close brace, honoring braces nested inside a
		// regex constraint (e.g. "{id:[0-9]{3}}").
		depth := 1
		j := i + 1
		for j < len(part) && depth > 0 {
			switch part[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				break
			}
			j++
		}
		if j >= len(part) {
			// Unmatched brace: treat the remainder as literal text.
			literalBuf.WriteString(part[i:])
			i = len(part)
			break
		}

		flushLiteral()
		hasCapture = true

		inner := part[i+1 : j]
		name, constraint := inner, ""
		if idx := strings.Index(inner, ":"); idx >= 0 {
			name, constraint = inner[:idx], inner[idx+1:]
		}
		names = append(names, name)

		switch {
		case constraint == ".*":
			regexPiece.WriteString("(.*)")
			kind = max(kind, segCatchAll)
		case constraint != "":
			regexPiece.WriteString("(" + constraint + ")")
			kind = max(kind, segConstrained)
		default:
			regexPiece.WriteString(`([^/]+)`)
			kind = max(kind, segUnconstrained)
		}

		i = j + 1
	}
	flushLiteral()

	if !hasCapture {
		return pathSegment{kind: segLiteral, literal: part}, regexp.QuoteMeta(part), nil
	}
	return pathSegment{kind: kind, names: names}, regexPiece.String(), names
}

// match attempts to match path against the pattern, returning the bound
// parameters (empty-named entries are dropped) and whether it matched.
func (p *PathPattern) match(path string) (map[string]string, bool) {
	sub := p.regex.FindStringSubmatch(path)
	if sub == nil {
		return nil, false
	}
	bindings := make(map[string]string, len(p.Params))
	for i, name := range p.Params {
		if name == "" {
			continue // unnamed capture: matches, binds nothing
		}
		bindings[name] = sub[i+1]
	}
	return bindings, true
}

// lessSpecific implements the §4.3 specificity comparator: a is less
// specific than b (b should be preferred) when, scanning segment by
// segment, the first differing position ranks b higher; ties fall through
// to "more segments is more specific", and a final tie is broken by
// registration order by the caller (earlier registered wins).
func lessSpecific(a, b *PathPattern) bool {
	n := min(len(a.segments), len(b.segments))
	for i := range n {
		ra, rb := a.segments[i].kind, b.segments[i].kind
		if ra != rb {
			return ra > rb // lower segmentKind value == more specific
		}
	}
	if len(a.segments) != len(b.segments) {
		return len(a.segments) < len(b.segments)
	}
	return false
}
