// Package index maps file keys to their stored objects so lookups never depend
// on scanning storage.
package index

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no entry exists for a key.
var ErrNotFound = errors.New("file not found")

// Entry is the record kept for every uploaded file. Entries are written once
// at upload time and never updated.
type Entry struct {
	Key          string    `json:"key"`
	Extension    string    `json:"extension"`
	StorageName  string    `json:"storageName"`
	OriginalName string    `json:"originalName,omitempty"`
	ContentType  string    `json:"contentType"`
	SizeBytes    int64     `json:"sizeBytes"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the entry's retention window has passed at now.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Index stores entries by exact key.
type Index interface {
	// Put records e. Existing entries for the same key are replaced.
	Put(ctx context.Context, e *Entry) error
	// Get returns the entry for key or ErrNotFound.
	Get(ctx context.Context, key string) (*Entry, error)
	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Expired returns every entry whose ExpiresAt is not after before.
	Expired(ctx context.Context, before time.Time) ([]*Entry, error)
}
