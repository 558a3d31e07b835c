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
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// Resource is a §4.10 Resource body: something with a determinable
// existence, size, and media type, whose bytes are read on demand. A Go
// classpath resource has no idiomatic analog (there is no embedded runtime
// classloader), so only file and URL resources are provided; embed.FS
// callers can wrap an fs.File in their own Resource implementation.
type Resource interface {
	// Exists reports whether the resource is present. false causes the
	// Context.Resource call to respond 404 without opening anything.
	Exists() bool

	// Size returns the resource's byte length, if known.
	Size() (size int64, ok bool)

	// MediaType returns the resource's content type, if known.
	MediaType() (mediaType string, ok bool)

	// Open returns a readable stream of the resource's bytes.
	Open() (io.ReadCloser, error)
}

// FileResource is a Resource backed by a path on the local filesystem.
type FileResource struct {
	Path string
}

// Exists reports whether Path can be stat'ed and is not a directory.
// Read permission is not checked.
func (f FileResource) Exists() bool {
	info, err := os.Stat(f.Path)
	return err == nil && !info.IsDir()
}

// Size stats Path for its length.
func (f FileResource) Size() (int64, bool) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

// MediaType infers the content type from Path's extension.
func (f FileResource) MediaType() (string, bool) {
	ext := filepath.Ext(f.Path)
	if ext == "" {
		return "", false
	}
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return "", false
	}
	return mt, true
}

// Open opens Path for reading.
func (f FileResource) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// URLResource is a Resource fetched over HTTP. Size and MediaType come from
// the response's Content-Length and Content-Type headers when the server
// provides them; Exists issues a HEAD request.
type URLResource struct {
	URL    string
	Client *http.Client
}

func (u URLResource) client() *http.Client {
	if u.Client != nil {
		return u.Client
	}
	return http.DefaultClient
}

// Exists issues a HEAD request and reports whether it returned 2xx.
func (u URLResource) Exists() bool {
	resp, err := u.client().Head(u.URL)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Size issues a HEAD request and reads Content-Length from the response.
func (u URLResource) Size() (int64, bool) {
	resp, err := u.client().Head(u.URL)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()
	if resp.ContentLength < 0 {
		return 0, false
	}
	return resp.ContentLength, true
}

// MediaType issues a HEAD request and reads Content-Type from the response.
func (u URLResource) MediaType() (string, bool) {
	resp, err := u.client().Head(u.URL)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return "", false
	}
	return ct, true
}

// Open issues a GET request and returns its body.
func (u URLResource) Open() (io.ReadCloser, error) {
	resp, err := u.client().Get(u.URL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, ErrFileNotFound
	}
	return resp.Body, nil
}

// Resource writes res as the response body per §4.10: size and media type
// are stamped onto headers when known and not already set by the handler,
// then the resource's byte stream is copied into the response. A resource
// that does not exist yields 404; one that fails to open yields 500. An
// error while copying the stream, after the status has been written, is
// returned to the caller and does not change the response. HTTP/2's
// zero-copy FileRegion transfer has no portable equivalent over
// http.ResponseWriter, so this always copies through userspace regardless
// of protocol.
func (c *Context) Resource(code int, res Resource) error {
	if !res.Exists() {
		c.NotFound()
		return nil
	}

	if size, ok := res.Size(); ok && c.Response.Header().Get("Content-Length") == "" {
		c.Response.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	if mt, ok := res.MediaType(); ok && c.Response.Header().Get("Content-Type") == "" {
		c.Response.Header().Set("Content-Type", mt)
	}

	rc, err := res.Open()
	if err != nil {
		c.WriteErrorResponse(http.StatusInternalServerError, "Internal Server Error")
		return err
	}
	defer rc.Close()

	if rw, ok := c.Response.(*responseWriter); ok {
		if !rw.Written() {
			c.Response.WriteHeader(code)
		}
	} else {
		c.Response.WriteHeader(code)
	}

	if _, err := io.Copy(c.Response, rc); err != nil {
		return err
	}
	return nil
}
