// Package file implements keyed file hand-off: uploads are stored under a
// generated key and later resolved by that key for metadata or download.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/op/go-logging"

	"github.com/filedrop/service/internal/contenttype"
	"github.com/filedrop/service/internal/filekey"
	"github.com/filedrop/service/internal/index"
	"github.com/filedrop/service/internal/metrics"
	"github.com/filedrop/service/internal/storage"
)

var log = logging.MustGetLogger("filedrop")

// Options tunes a Service.
type Options struct {
	MaxUploadBytes int64
	Retention      time.Duration
	// EnforceExpiry makes expired files unresolvable and lets Sweep reclaim
	// them. When false the expiry time is advisory only.
	EnforceExpiry bool
	// PrefixResolve resolves keys by scanning the storage listing instead of
	// the index. The first listed name starting with the key wins.
	PrefixResolve bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service contains the upload and lookup logic.
type Service struct {
	store storage.Backend
	idx   index.Index
	opts  Options
}

// NewService creates a new file Service.
func NewService(store storage.Backend, idx index.Index, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: store, idx: idx, opts: opts}
}

// MaxUploadBytes returns the upload size limit.
func (s *Service) MaxUploadBytes() int64 {
	return s.opts.MaxUploadBytes
}

// Upload stores size bytes from r under a fresh key derived from
// originalName. The returned entry is resolvable as soon as Upload returns.
func (s *Service) Upload(ctx context.Context, r io.Reader, size int64, originalName string) (*index.Entry, error) {
	if size > s.opts.MaxUploadBytes {
		metrics.RejectedUploadsTotal.WithLabelValues("too_large").Inc()
		return nil, ErrTooLarge
	}

	name := filekey.Generate(originalName)
	ct := contenttype.ForExtension(name.Extension)

	if err := s.store.Put(ctx, name.StorageName, r, size, ct); err != nil {
		return nil, &StorageError{Op: OpPut, Err: err}
	}

	now := s.opts.Now().UTC()
	e := &index.Entry{
		Key:          name.Key,
		Extension:    name.Extension,
		StorageName:  name.StorageName,
		OriginalName: originalName,
		ContentType:  ct,
		SizeBytes:    size,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.opts.Retention),
	}
	if err := s.idx.Put(ctx, e); err != nil {
		if s.opts.PrefixResolve {
			// Resolvable from the listing; the next Rebuild indexes it for sweeps.
			log.Warningf("upload: index %s: %v", e.StorageName, err)
			s.recordUpload(e)
			return e, nil
		}
		// Without an index entry the object can never be resolved.
		if derr := s.store.Delete(context.WithoutCancel(ctx), name.StorageName); derr != nil {
			log.Warningf("upload: orphaned object %s: %v", name.StorageName, derr)
		}
		return nil, &StorageError{Op: OpIndex, Err: err}
	}

	s.recordUpload(e)
	return e, nil
}

func (s *Service) recordUpload(e *index.Entry) {
	metrics.UploadsTotal.Inc()
	metrics.UploadBytesTotal.Add(float64(e.SizeBytes))
	log.Debugf("upload: stored %s (%d bytes, original %q)", e.StorageName, e.SizeBytes, e.OriginalName)
}

// Metadata resolves key to its stored file.
func (s *Service) Metadata(ctx context.Context, key string) (*index.Entry, error) {
	var (
		e   *index.Entry
		err error
	)
	if s.opts.PrefixResolve {
		e, err = s.resolvePrefix(ctx, key)
	} else {
		e, err = s.resolveIndex(ctx, key)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.LookupsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		} else {
			metrics.LookupsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		}
		return nil, err
	}

	if s.opts.EnforceExpiry && e.Expired(s.opts.Now()) {
		metrics.LookupsTotal.WithLabelValues(metrics.OutcomeExpired).Inc()
		return nil, ErrNotFound
	}
	metrics.LookupsTotal.WithLabelValues(metrics.OutcomeFound).Inc()
	return e, nil
}

func (s *Service) resolveIndex(ctx context.Context, key string) (*index.Entry, error) {
	if !filekey.Valid(key) {
		return nil, ErrNotFound
	}
	e, err := s.idx.Get(ctx, key)
	if errors.Is(err, index.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: OpIndex, Err: err}
	}
	return e, nil
}

func (s *Service) resolvePrefix(ctx context.Context, key string) (*index.Entry, error) {
	objects, err := s.store.List(ctx)
	if err != nil {
		return nil, &StorageError{Op: OpList, Err: err}
	}
	m, ok := filekey.Resolve(storage.Names(objects), key)
	if !ok {
		return nil, ErrNotFound
	}
	return s.entryFor(objects[m.Position]), nil
}

// entryFor describes an object found in storage rather than in the index.
// Its creation time is taken from the object's modification time.
func (s *Service) entryFor(obj storage.ObjectInfo) *index.Entry {
	key, ext := filekey.Split(obj.Name)
	created := obj.ModTime.UTC()
	return &index.Entry{
		Key:         key,
		Extension:   ext,
		StorageName: obj.Name,
		ContentType: contenttype.ForExtension(ext),
		SizeBytes:   obj.Size,
		CreatedAt:   created,
		ExpiresAt:   created.Add(s.opts.Retention),
	}
}

// Download is an open stored file. Callers must Close it.
type Download struct {
	Entry  *index.Entry
	Object storage.Object
}

// Close releases the underlying object.
func (d *Download) Close() error {
	return d.Object.Close()
}

// Open resolves key and opens the stored file for reading.
func (s *Service) Open(ctx context.Context, key string) (*Download, error) {
	e, err := s.Metadata(ctx, key)
	if err != nil {
		return nil, err
	}
	obj, err := s.store.Open(ctx, e.StorageName)
	if errors.Is(err, storage.ErrObjectNotFound) {
		// removed out-of-band
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: OpOpen, Err: err}
	}
	return &Download{Entry: e, Object: obj}, nil
}

// OpenStored opens a file by its full storage name, as used in fileUrl.
func (s *Service) OpenStored(ctx context.Context, storageName string) (*Download, error) {
	key, _ := filekey.Split(storageName)
	d, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	if d.Entry.StorageName != storageName {
		_ = d.Close()
		return nil, ErrNotFound
	}
	return d, nil
}

// NeedsRebuild reports whether the index must be filled from storage at
// start-up: it serves lookups in index mode and feeds the sweeper whenever
// expiry is enforced.
func (s *Service) NeedsRebuild() bool {
	return !s.opts.PrefixResolve || s.opts.EnforceExpiry
}

// Rebuild indexes every stored object whose name carries a generated key and
// that the index does not know yet. It returns the number of entries added.
func (s *Service) Rebuild(ctx context.Context) (int, error) {
	objects, err := s.store.List(ctx)
	if err != nil {
		return 0, &StorageError{Op: OpList, Err: err}
	}

	added := 0
	for _, obj := range objects {
		key, _ := filekey.Split(obj.Name)
		if !filekey.Valid(key) {
			log.Debugf("rebuild: skipping %s", obj.Name)
			continue
		}
		_, err := s.idx.Get(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, index.ErrNotFound) {
			return added, &StorageError{Op: OpIndex, Err: err}
		}
		if err := s.idx.Put(ctx, s.entryFor(obj)); err != nil {
			return added, &StorageError{Op: OpIndex, Err: err}
		}
		added++
	}
	return added, nil
}

// Sweep deletes expired files and their index entries. It does nothing unless
// expiry is enforced. Failures on one file do not stop the sweep.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	if !s.opts.EnforceExpiry {
		return 0, nil
	}
	expired, err := s.idx.Expired(ctx, s.opts.Now())
	if err != nil {
		return 0, &StorageError{Op: OpIndex, Err: err}
	}

	var errs []error
	removed := 0
	for _, e := range expired {
		if err := s.store.Delete(ctx, e.StorageName); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			errs = append(errs, fmt.Errorf("delete %s: %w", e.StorageName, err))
			continue
		}
		if err := s.idx.Delete(ctx, e.Key); err != nil {
			errs = append(errs, fmt.Errorf("unindex %s: %w", e.Key, err))
			continue
		}
		removed++
	}
	metrics.SweptFilesTotal.Add(float64(removed))
	return removed, errors.Join(errs...)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				log.Errorf("sweep: %v", err)
			}
			if n > 0 {
				log.Infof("sweep: removed %d expired files", n)
			}
		}
	}
}
