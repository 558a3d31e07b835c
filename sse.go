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
	"io"
	"net/http"
	"strings"
)

// SSEEvent is one server-sent event of the §4.10 SSE body variant.
//
// ID and Event are written verbatim on their own line; Comment and Data
// may contain embedded newlines, which are rewritten onto continuation
// lines so the payload can never terminate the event early.
type SSEEvent struct {
	ID      string
	Event   string
	Comment string
	Data    string
}

var sseNewlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// rewriteSSELines normalizes every CRLF/LF/CR in s to a single internal
// line break, then rejoins the lines with continuation, so a multi-line
// comment or data payload reads back as a single logical SSE field.
func rewriteSSELines(s, continuation string) string {
	normalized := sseNewlines.Replace(s)
	if !strings.Contains(normalized, "\n") {
		return normalized
	}
	return strings.Join(strings.Split(normalized, "\n"), continuation)
}

// writeSSEEvent writes one event in the exact §4.10 byte layout: id and
// event lines terminated by "\n", an optional comment line, then the data
// field, with the whole event closed by "\r\n\r\n".
func writeSSEEvent(w io.Writer, ev SSEEvent) error {
	var b strings.Builder
	if ev.ID != "" {
		b.WriteString("id:")
		b.WriteString(ev.ID)
		b.WriteByte('\n')
	}
	if ev.Event != "" {
		b.WriteString("event:")
		b.WriteString(ev.Event)
		b.WriteByte('\n')
	}
	if ev.Comment != "" {
		b.WriteByte(':')
		b.WriteString(rewriteSSELines(ev.Comment, "\r\n:"))
		b.WriteByte('\n')
	}
	b.WriteString("data:")
	b.WriteString(rewriteSSELines(ev.Data, "\r\ndata:"))
	b.WriteString("\r\n\r\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// SSE streams events as text/event-stream. It writes the SSE headers and
// then drains events until the channel closes or the request context is
// canceled, flushing after every event so each one reaches the client as
// soon as it's written. The handler is responsible for closing events when
// it has nothing further to send.
func (c *Context) SSE(events <-chan SSEEvent) error {
	c.Response.Header().Set("Content-Type", "text/event-stream;charset=utf-8")
	c.Response.Header().Set("Cache-Control", "no-cache")
	c.Response.Header().Set("Connection", "keep-alive")

	if rw, ok := c.Response.(*responseWriter); ok {
		if !rw.Written() {
			c.Response.WriteHeader(http.StatusOK)
		}
	} else {
		c.Response.WriteHeader(http.StatusOK)
	}

	flusher, canFlush := c.Response.(http.Flusher)

	for {
		select {
		case <-c.Request.Context().Done():
			return c.Request.Context().Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := writeSSEEvent(c.Response, ev); err != nil {
				return err
			}
			if canFlush {
				flusher.Flush()
			}
		}
	}
}
