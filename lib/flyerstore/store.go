// Package flyerstore persists downloaded event flyers, either on the
// local filesystem or in an S3 bucket. Flyers are gzip compressed
// before storage since the bulk of them are redundant HTML.
package flyerstore

import (
	"bytes"
	"compress/gzip"
	"context"
	"time"
)

// Entry describes one stored flyer.
type Entry struct {
	Filename     string    `json:"filename"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	Storage      string    `json:"storage"`
	Path         string    `json:"path"`
}

type Store interface {
	// Save compresses and writes the flyer under the given filename.
	Save(ctx context.Context, filename string, content []byte) error
	// Exists reports whether any flyer with the given filename prefix
	// is already stored. Extensions vary per flyer so callers check by
	// prefix rather than exact name.
	Exists(ctx context.Context, prefix string) (bool, error)
	// List returns every stored flyer.
	List(ctx context.Context) ([]Entry, error)
}

func compress(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	_, err = w.Write(content)
	if err != nil {
		return nil, err
	}
	err = w.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
