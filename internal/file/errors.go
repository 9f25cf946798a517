package file

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFile is returned when an upload carries no file part.
	ErrNoFile = errors.New("no file uploaded")
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrNotFound is returned when a key does not resolve to a stored file.
	ErrNotFound = errors.New("file not found")
)

// Storage operations reported in StorageError.Op.
const (
	OpPut   = "put"
	OpOpen  = "open"
	OpList  = "list"
	OpIndex = "index"
)

// StorageError wraps an I/O failure of the storage backend or the index.
// Its detail is logged and never returned to clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
