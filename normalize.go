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

// normalizePath applies RFC 3986 remove_dot_segments plus empty-segment
// collapse, as required before routing (§6). Percent-decoding of unreserved
// characters is handled upstream by net/http's URL parsing, which already
// decodes the path into req.URL.Path; this function only removes "." and
// ".." segments and collapses "//" runs. The result is idempotent:
// normalizePath(normalizePath(p)) == normalizePath(p).
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}

	absolute := strings.HasPrefix(p, "/")
	trailingSlash := len(p) > 1 && strings.HasSuffix(p, "/")

	segments := strings.Split(p, "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			// empty-segment / current-dir: drop
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}

	result := strings.Join(out, "/")
	if absolute {
		result = "/" + result
	}
	if trailingSlash && result != "/" {
		result += "/"
	}
	if result == "" {
		result = "/"
	}
	return result
}
