// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP request helpers shared by the doctly client.
package httputil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxErrorBody caps how much of a failed response is read into an error
// message.
const MaxErrorBody = 64 << 10

// NewMultipartRequest builds a request whose body is a multipart form with a
// single file part. The part is named field and carries the base name of
// path as its filename.
func NewMultipartRequest(ctx context.Context, method, url, field, path string) (*http.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("creating form part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

// SetBearer sets the Authorization header to a bearer token. An empty token
// leaves the request untouched.
func SetBearer(req *http.Request, token string) {
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// ErrorBody reads at most MaxErrorBody bytes of r and returns them trimmed.
// Read errors are ignored; whatever was read is returned.
func ErrorBody(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, MaxErrorBody))
	return strings.TrimSpace(string(data))
}
