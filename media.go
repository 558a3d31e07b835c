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
	"sort"
	"strconv"
	"strings"
)

// MediaRange is a parsed `Accept`/`Content-Type`-style media range: a
// type/subtype pair (either of which may be "*"), optional parameters, and
// an RFC 7231 quality factor. Parsing is done with the same manual
// byte-scanning idiom as Context.Accepts, rather than mime.ParseMediaType,
// so empty values parse leniently. Parameters are held in a map, so their
// original order is not kept.
type MediaRange struct {
	Type    string
	Subtype string
	Params  map[string]string
	Q       float64
}

// ContentType is the parsed, registration-time form of a route's declared
// `consumes`/`produces` media type — structurally identical to MediaRange
// minus the quality factor, which only has meaning on a request's Accept
// header.
type ContentType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// LanguageRange is a parsed `Accept-Language` range or a route's declared
// language.
type LanguageRange struct {
	Primary string
	Sub     string // "" if unspecified ("en" vs "en-US")
	Q       float64
}

// parseMediaType parses one "type/subtype;param=value;..." token (without a
// leading quality factor interpretation — callers needing q use
// parseMediaRange).
func parseMediaType(raw string) ContentType {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ";")
	typeSub := strings.TrimSpace(parts[0])

	ct := ContentType{Type: "*", Subtype: "*"}
	if slash := strings.IndexByte(typeSub, '/'); slash >= 0 {
		ct.Type = strings.ToLower(strings.TrimSpace(typeSub[:slash]))
		ct.Subtype = strings.ToLower(strings.TrimSpace(typeSub[slash+1:]))
	} else if typeSub != "" {
		ct.Type = strings.ToLower(typeSub)
		ct.Subtype = "*"
	}

	for _, p := range parts[1:] {
		k, v, ok := splitParam(p)
		if !ok {
			continue
		}
		if ct.Params == nil {
			ct.Params = make(map[string]string, len(parts)-1)
		}
		ct.Params[k] = v
	}
	return ct
}

// splitParam parses one ";key=value" segment, trimming whitespace and
// surrounding quotes from the value.
func splitParam(segment string) (key, value string, ok bool) {
	eq := strings.IndexByte(segment, '=')
	if eq < 0 {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(segment[:eq]))
	value = strings.TrimSpace(segment[eq+1:])
	value = strings.Trim(value, `"`)
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

// parseMediaRange parses one comma-separated Accept-header token, including
// its "q" parameter if present (default 1.0).
func parseMediaRange(raw string) MediaRange {
	ct := parseMediaType(raw)
	q := 1.0
	if ct.Params != nil {
		if qv, ok := ct.Params["q"]; ok {
			if parsed, err := strconv.ParseFloat(qv, 64); err == nil {
				q = parsed
			}
			delete(ct.Params, "q")
		}
	}
	return MediaRange{Type: ct.Type, Subtype: ct.Subtype, Params: ct.Params, Q: q}
}

// parseAcceptRanges parses a full `Accept` header into ranges ordered by
// descending quality, then descending specificity (concrete type/subtype
// before wildcards, more parameters before fewer) — the merge-and-order
// step §4.6 requires before iterating candidates. An empty header yields a
// single implicit "*/*" range.
func parseAcceptRanges(header string) []MediaRange {
	header = strings.TrimSpace(header)
	if header == "" {
		return []MediaRange{{Type: "*", Subtype: "*", Q: 1.0}}
	}
	tokens := strings.Split(header, ",")
	ranges := make([]MediaRange, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		ranges = append(ranges, parseMediaRange(tok))
	}
	if len(ranges) == 0 {
		return []MediaRange{{Type: "*", Subtype: "*", Q: 1.0}}
	}
	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].Q != ranges[j].Q {
			return ranges[i].Q > ranges[j].Q
		}
		return mediaRangeSpecificity(ranges[i]) > mediaRangeSpecificity(ranges[j])
	})
	return ranges
}

// parseLanguageHeader parses `Accept-Language` into ranges ordered by
// descending quality. Absence of the header is treated as "*" (§4.7).
func parseLanguageHeader(header string) []LanguageRange {
	header = strings.TrimSpace(header)
	if header == "" {
		return []LanguageRange{{Primary: "*", Q: 1.0}}
	}
	tokens := strings.Split(header, ",")
	ranges := make([]LanguageRange, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		ranges = append(ranges, parseLanguageRange(tok))
	}
	if len(ranges) == 0 {
		return []LanguageRange{{Primary: "*", Q: 1.0}}
	}
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].Q > ranges[j].Q })
	return ranges
}

func parseLanguageRange(tok string) LanguageRange {
	parts := strings.Split(tok, ";")
	tag := strings.TrimSpace(parts[0])
	q := 1.0
	for _, p := range parts[1:] {
		k, v, ok := splitParam(p)
		if ok && k == "q" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				q = parsed
			}
		}
	}
	lr := LanguageRange{Q: q}
	if dash := strings.IndexByte(tag, '-'); dash >= 0 {
		lr.Primary = strings.ToLower(tag[:dash])
		lr.Sub = strings.ToLower(tag[dash+1:])
	} else {
		lr.Primary = strings.ToLower(tag)
	}
	return lr
}

// mediaRangeSpecificity ranks a range: concrete subtype > wildcard subtype,
// concrete type > wildcard type, plus one point per parameter.
func mediaRangeSpecificity(m MediaRange) int {
	score := 0
	if m.Type != "*" {
		score += 2
	}
	if m.Subtype != "*" {
		score += 2
	}
	score += len(m.Params)
	return score
}

// covers reports whether MediaRange m matches ContentType ct: wildcards on
// type/subtype are honored, and any parameter present on m must match ct's
// value for that parameter exactly (ct may carry additional parameters not
// named by m).
func (m MediaRange) covers(ct ContentType) bool {
	if m.Type != "*" && !strings.EqualFold(m.Type, ct.Type) {
		return false
	}
	if m.Subtype != "*" && !strings.EqualFold(m.Subtype, ct.Subtype) {
		return false
	}
	for k, v := range m.Params {
		if !strings.EqualFold(ct.Params[k], v) {
			return false
		}
	}
	return true
}

// isWildcardAny reports whether m is the bare "*/*" range with no
// parameters, which §4.6 treats as preferring the default next-link.
func (m MediaRange) isWildcardAny() bool {
	return m.Type == "*" && m.Subtype == "*" && len(m.Params) == 0
}

// isWildcardAny reports whether lr is the bare "*" language range, which
// §4.7 treats as preferring the default next-link.
func (lr LanguageRange) isWildcardAny() bool {
	return lr.Primary == "*"
}

func (lr LanguageRange) covers(lang LanguageRange) bool {
	if lr.Primary != "*" && !strings.EqualFold(lr.Primary, lang.Primary) {
		return false
	}
	if lr.Sub != "" && !strings.EqualFold(lr.Sub, lang.Sub) {
		return false
	}
	return true
}
