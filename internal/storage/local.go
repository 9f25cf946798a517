package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const partialDir = ".partial"

// Local implements Backend on a directory of the local filesystem.
type Local struct {
	basePath string
}

// NewLocal creates basePath if needed and returns a Local backend rooted there.
func NewLocal(basePath string) (*Local, error) {
	if err := os.MkdirAll(filepath.Join(basePath, partialDir), 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Local{basePath: basePath}, nil
}

// Put writes r to a staging file, flushes it and renames it into place, so a
// listing never contains a partially written object.
func (l *Local) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if err := validName(name); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Join(l.basePath, partialDir), name+".*")
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, contextReader{ctx: ctx, r: r}); err != nil {
		return fmt.Errorf("write %q: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %q: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(l.basePath, name)); err != nil {
		return fmt.Errorf("commit %q: %w", name, err)
	}
	committed = true
	return nil
}

// Open returns the stored file. The returned Object is an *os.File and can seek.
func (l *Local) Open(ctx context.Context, name string) (Object, error) {
	if err := validName(name); err != nil {
		return nil, ErrObjectNotFound
	}
	f, err := os.Open(filepath.Join(l.basePath, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", name, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %q: %w", name, err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, ErrObjectNotFound
	}
	return &localObject{File: f, info: ObjectInfo{Name: name, Size: st.Size(), ModTime: st.ModTime()}}, nil
}

// List returns the regular files in the storage directory in directory order.
func (l *Local) List(ctx context.Context) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, fmt.Errorf("read storage directory: %w", err)
	}

	objects := make([]ObjectInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		objects = append(objects, ObjectInfo{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return objects, nil
}

// Delete removes the stored file.
func (l *Local) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return ErrObjectNotFound
	}
	err := os.Remove(filepath.Join(l.basePath, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrObjectNotFound
	}
	return err
}

type localObject struct {
	*os.File
	info ObjectInfo
}

func (o *localObject) Info() ObjectInfo { return o.info }

// validName rejects names that would escape the storage directory.
func validName(name string) error {
	if name == "" || name == "." || name == ".." || name == partialDir ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("invalid object name %q", name)
	}
	return nil
}
