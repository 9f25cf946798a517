// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup:
// Local keeps objects in a directory, Minio and S3 talk to any S3-compatible
// provider.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when no object exists under a name.
// Any other error from a Backend is an I/O failure.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Object is an open stored object. Implementations that can seek also
// implement io.Seeker, which lets HTTP handlers serve range requests.
type Object interface {
	io.ReadCloser
	Info() ObjectInfo
}

// Backend is the interface for storing and retrieving immutable objects.
type Backend interface {
	// Put stores r under name. The object must not become visible to Open or
	// List until it has been written completely.
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	// Open returns a reader for the object stored under name.
	Open(ctx context.Context, name string) (Object, error)
	// List returns every stored object.
	List(ctx context.Context) ([]ObjectInfo, error)
	// Delete removes the object stored under name.
	Delete(ctx context.Context, name string) error
}

// Names returns the names of objects in listing order.
func Names(objects []ObjectInfo) []string {
	names := make([]string, len(objects))
	for i, o := range objects {
		names[i] = o.Name
	}
	return names
}

// contextReader aborts reads once ctx is done so a disconnected client stops
// an in-flight copy.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
