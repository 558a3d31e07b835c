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
	"io"
	"strconv"
)

// RawBody is the §4.10 Raw response body variant: either a literal buffer
// (known length, always exactly one chunk) or a stream whose chunk count
// isn't known until it's drained.
type RawBody struct {
	data   []byte
	stream io.Reader
}

// RawBytes wraps a literal buffer as a single-chunk Raw body.
func RawBytes(data []byte) RawBody {
	return RawBody{data: data}
}

// RawStream wraps a reader as a Raw body whose chunking is determined by
// the reader's own Read boundaries.
func RawStream(r io.Reader) RawBody {
	return RawBody{stream: r}
}

const rawBodyChunkSize = 32 * 1024

// Raw writes body per §4.10: a single chunk gets a Content-Length header; a
// multi-chunk stream gets Transfer-Encoding: chunked on HTTP/1.x (HTTP/2
// frames the body in DATA frames without that header). If the handler
// already set an explicit Content-Length, the emitted total is validated
// against it instead of being computed.
//
// Chunks are fully buffered before any header is written, since whether to
// send Content-Length or chunked can only be decided once the chunk count
// is known, and headers must precede the body.
func (c *Context) Raw(code int, body RawBody) error {
	var declared int64 = -1
	if v := c.Response.Header().Get("Content-Length"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			declared = n
		}
	}

	chunks, total, err := readRawChunks(body)
	if err != nil {
		return err
	}

	if declared >= 0 && declared != total {
		return fmt.Errorf("%w: declared %d, actual %d", ErrContentLengthMismatch, declared, total)
	}

	switch {
	case len(chunks) <= 1:
		if declared < 0 {
			c.Response.Header().Set("Content-Length", strconv.FormatInt(total, 10))
		}
	default:
		if declared < 0 && c.Request.ProtoMajor < 2 {
			c.Response.Header().Set("Transfer-Encoding", "chunked")
		}
	}

	if rw, ok := c.Response.(*responseWriter); ok {
		if !rw.Written() {
			c.Response.WriteHeader(code)
		}
	} else {
		c.Response.WriteHeader(code)
	}

	for _, chunk := range chunks {
		if _, err := c.Response.Write(chunk); err != nil {
			return err
		}
	}
	return nil
}

// readRawChunks drains body into its constituent chunks, preserving the
// read boundaries the underlying stream produced (a literal buffer is
// always exactly one chunk).
func readRawChunks(body RawBody) (chunks [][]byte, total int64, err error) {
	if body.stream == nil {
		if body.data == nil {
			return nil, 0, nil
		}
		return [][]byte{body.data}, int64(len(body.data)), nil
	}

	buf := make([]byte, rawBodyChunkSize)
	for {
		n, rerr := body.stream.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			chunks = append(chunks, chunk)
			total += int64(n)
		}
		if rerr == io.EOF {
			return chunks, total, nil
		}
		if rerr != nil {
			return nil, 0, rerr
		}
	}
}
