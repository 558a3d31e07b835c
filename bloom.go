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

// defaultBloomFilterSize and defaultBloomHashFunctions size the per-patternLink
// bloom prefilter (see pattern_link.go's ensureBloom) once a link accumulates
// enough entries to make the prefilter worthwhile.
const (
	defaultBloomFilterSize    = 1000
	defaultBloomHashFunctions = 3
)

// optimalBloomFilterSize sizes a bloom filter for entryCount entries at
// roughly a 1% false-positive rate (10 bits/entry), clamped to a sane range.
func optimalBloomFilterSize(entryCount int) uint64 {
	if entryCount <= 0 {
		return defaultBloomFilterSize
	}
	size := uint64(entryCount * 10)
	if size < 100 {
		return 100
	}
	if size > 1000000 {
		return 1000000
	}
	return size
}
