// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive uploads rendered PDFs to Cloud Storage. Uploads are
// idempotent: an object that already exists is left untouched.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// Archiver stores a rendered PDF for a paper and returns where it went.
type Archiver interface {
	Archive(ctx context.Context, paperID string, pdf []byte) (string, error)
}

// ObjectWriter opens a writer for a new object. The GCS implementation
// fails with HTTP 412 when the object already exists.
type ObjectWriter interface {
	NewWriter(ctx context.Context, object string) io.WriteCloser
}

// GCS archives to a Cloud Storage bucket under a prefix.
type GCS struct {
	bucket  string
	prefix  string
	objects ObjectWriter
	closer  func() error
}

// New returns a GCS archiver for cfg, or nil when no bucket is configured.
func New(ctx context.Context, cfg types.ArchiveConfig) (*GCS, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return NewWithWriter(cfg, bucketWriter{client.Bucket(cfg.Bucket)}, client.Close), nil
}

// NewWithWriter builds a GCS archiver over an arbitrary object writer.
func NewWithWriter(cfg types.ArchiveConfig, w ObjectWriter, closer func() error) *GCS {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "papers/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &GCS{bucket: cfg.Bucket, prefix: prefix, objects: w, closer: closer}
}

// ObjectName returns the object path for a paper.
func (g *GCS) ObjectName(paperID string) string {
	return g.prefix + paperID + ".pdf"
}

// Archive writes pdf to gs://bucket/prefix/{id}.pdf unless it exists.
func (g *GCS) Archive(ctx context.Context, paperID string, pdf []byte) (string, error) {
	object := g.ObjectName(paperID)
	uri := fmt.Sprintf("gs://%s/%s", g.bucket, object)
	logCtx := slog.With("paperId", paperID, "object", uri)

	w := g.objects.NewWriter(ctx, object)
	if _, err := io.Copy(w, bytes.NewReader(pdf)); err != nil {
		_ = w.Close()
		if alreadyExists(err) {
			logCtx.Info("archive object exists, skipping")
			return uri, nil
		}
		return "", fmt.Errorf("failed to write to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		if alreadyExists(err) {
			logCtx.Info("archive object exists, skipping")
			return uri, nil
		}
		return "", fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	logCtx.Info("archived paper PDF", "bytes", len(pdf))
	return uri, nil
}

// Close releases the storage client.
func (g *GCS) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer()
}

func alreadyExists(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}

type bucketWriter struct {
	bucket *storage.BucketHandle
}

func (b bucketWriter) NewWriter(ctx context.Context, object string) io.WriteCloser {
	return b.bucket.Object(object).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
}
