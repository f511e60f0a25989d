// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sink opens output destinations: stdout, local files and
// Google Cloud Storage objects.
package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// Options configures Create.
type Options struct {
	// CredentialsFile is a service account key file for gs://
	// destinations. If empty, application default credentials are
	// used.
	CredentialsFile string

	// TokenSource authorizes gs:// writes. If nil, one is made
	// by NewTokenSource from CredentialsFile.
	TokenSource oauth2.TokenSource

	// ContentType is recorded on gs:// objects.
	ContentType string

	// Stdout is written for the destination "-". If nil,
	// os.Stdout is used.
	Stdout io.Writer
}

// Create opens dest for writing. dest is "-" for stdout, a
// gs://bucket/object URL, or a local path whose missing parent
// directories are created.
//
// The returned writer must be closed; for gs:// destinations, the
// object is only committed by a successful Close.
func Create(ctx context.Context, dest string, opts Options) (io.WriteCloser, error) {
	switch {
	case dest == "-":
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		return nopCloser{w}, nil

	case strings.HasPrefix(dest, "gs://"):
		bucket, object, err := ParseGCS(dest)
		if err != nil {
			return nil, err
		}
		ts := opts.TokenSource
		if ts == nil {
			if ts, err = NewTokenSource(ctx, opts.CredentialsFile); err != nil {
				return nil, fmt.Errorf("%s: %w", dest, err)
			}
		}
		client, err := storage.NewClient(ctx, option.WithTokenSource(ts))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dest, err)
		}
		w := client.Bucket(bucket).Object(object).NewWriter(ctx)
		w.ContentType = opts.ContentType
		return &gcsWriter{w: w, client: client, dest: dest}, nil
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(dest)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// NewTokenSource returns a token source for writing to Cloud Storage
// with the service account key in credentialsFile, or with the
// application default credentials if credentialsFile is empty.
// Tokens are reused until they expire, so one source can serve
// several uploads.
func NewTokenSource(ctx context.Context, credentialsFile string) (oauth2.TokenSource, error) {
	if credentialsFile == "" {
		ts, err := google.DefaultTokenSource(ctx, storage.ScopeReadWrite)
		if err != nil {
			return nil, err
		}
		return oauth2.ReuseTokenSource(nil, ts), nil
	}
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(ctx, data, storage.ScopeReadWrite)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", credentialsFile, err)
	}
	return oauth2.ReuseTokenSource(nil, creds.TokenSource), nil
}

// ParseGCS splits a gs://bucket/object URL.
func ParseGCS(dest string) (bucket, object string, err error) {
	rest := strings.TrimPrefix(dest, "gs://")
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || rest == dest || bucket == "" || object == "" {
		return "", "", fmt.Errorf("malformed GCS destination %q (want gs://bucket/object)", dest)
	}
	return bucket, object, nil
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"svg":  "image/svg+xml",
	"pdf":  "application/pdf",
	"eps":  "application/postscript",
	"html": "text/html; charset=utf-8",
	"csv":  "text/csv; charset=utf-8",
	"txt":  "text/plain; charset=utf-8",
}

// ContentType returns the MIME type of the output format, or
// "application/octet-stream" if it is unknown.
func ContentType(format string) string {
	if ct, ok := contentTypes[strings.ToLower(format)]; ok {
		return ct
	}
	return "application/octet-stream"
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type gcsWriter struct {
	w      *storage.Writer
	client *storage.Client
	dest   string
}

func (g *gcsWriter) Write(p []byte) (int, error) {
	return g.w.Write(p)
}

func (g *gcsWriter) Close() error {
	err := g.w.Close()
	if err1 := g.client.Close(); err == nil {
		err = err1
	}
	if err != nil {
		return fmt.Errorf("%s: %w", g.dest, err)
	}
	return nil
}
