package storage

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMinioNotFound(t *testing.T) {
	assert.True(t, isMinioNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.False(t, isMinioNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isMinioNotFound(errors.New("dial tcp: connection refused")))
}

func TestMinioStorage_Translate(t *testing.T) {
	s := &MinioStorage{bucket: "files"}

	assert.ErrorIs(t, s.translate("a.txt", minio.ErrorResponse{Code: "NoSuchKey"}), ErrObjectNotFound)

	err := s.translate("a.txt", errors.New("timeout"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrObjectNotFound)
	assert.Contains(t, err.Error(), "a.txt")
}

var fakeModTime = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

// fakeMinio serves the path-style bucket and object calls MinioStorage makes.
type fakeMinio struct {
	mu          sync.Mutex
	bucket      string
	hasBucket   bool
	madeBucket  bool
	failList    bool
	objects     map[string][]byte
	contentType map[string]string
}

func newFakeMinio(bucket string, hasBucket bool) *fakeMinio {
	return &fakeMinio{
		bucket:      bucket,
		hasBucket:   hasBucket,
		objects:     make(map[string][]byte),
		contentType: make(map[string]string),
	}
}

func (f *fakeMinio) object(key string) ([]byte, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key], f.contentType[key]
}

func (f *fakeMinio) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeMinio) bucketCreated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.madeBucket
}

func (f *fakeMinio) setFailList(fail bool) {
	f.mu.Lock()
	f.failList = fail
	f.mu.Unlock()
}

func (f *fakeMinio) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket, key := parts[0], ""
	if len(parts) == 2 {
		key = parts[1]
	}
	if bucket != f.bucket {
		writeMinioError(w, http.StatusNotFound, "NoSuchBucket", bucket, "")
		return
	}

	if key == "" {
		f.serveBucket(w, r)
		return
	}
	if !f.hasBucket {
		writeMinioError(w, http.StatusNotFound, "NoSuchBucket", bucket, key)
		return
	}

	switch r.Method {
	case http.MethodPut:
		body, err := readPayload(r)
		if err != nil {
			writeMinioError(w, http.StatusBadRequest, "IncompleteBody", bucket, key)
			return
		}
		f.objects[key] = body
		f.contentType[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag-`+key+`"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		body, ok := f.objects[key]
		if !ok {
			writeMinioError(w, http.StatusNotFound, "NoSuchKey", bucket, key)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("Content-Type", f.contentType[key])
		w.Header().Set("Last-Modified", fakeModTime.Format(http.TimeFormat))
		w.Header().Set("ETag", `"etag-`+key+`"`)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(body)
		}
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeMinio) serveBucket(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Query().Has("location"):
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/"></LocationConstraint>`))
	case r.Method == http.MethodHead:
		if !f.hasBucket {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		f.hasBucket = true
		f.madeBucket = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		if f.failList {
			writeMinioError(w, http.StatusForbidden, "AccessDenied", f.bucket, "")
			return
		}
		var b strings.Builder
		b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
		b.WriteString("<Name>" + f.bucket + "</Name><Prefix></Prefix><KeyCount>" + strconv.Itoa(len(f.objects)) + "</KeyCount>")
		b.WriteString("<MaxKeys>1000</MaxKeys><IsTruncated>false</IsTruncated>")
		for k, v := range f.objects {
			b.WriteString("<Contents><Key>" + k + "</Key>")
			b.WriteString("<LastModified>" + fakeModTime.Format("2006-01-02T15:04:05.000Z") + "</LastModified>")
			b.WriteString(`<ETag>"etag-` + k + `"</ETag><Size>` + strconv.Itoa(len(v)) + "</Size>")
			b.WriteString("<StorageClass>STANDARD</StorageClass></Contents>")
		}
		b.WriteString("</ListBucketResult>")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(b.String()))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeMinioError(w http.ResponseWriter, status int, code, bucket, key string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>` + code +
		`</Code><Message>` + code + `</Message><BucketName>` + bucket +
		`</BucketName><Key>` + key + `</Key><RequestId>test</RequestId></Error>`))
}

// readPayload returns the object bytes of a PUT, undoing aws-chunked framing
// when the client streamed the body.
func readPayload(r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if r.Header.Get("X-Amz-Decoded-Content-Length") == "" &&
		!strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") {
		return raw, nil
	}

	var out bytes.Buffer
	br := bufio.NewReader(bytes.NewReader(raw))
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeHex := strings.TrimSpace(strings.SplitN(line, ";", 2)[0])
		size, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return nil, err
		}
		if size == 0 {
			return out.Bytes(), nil
		}
		if _, err := io.CopyN(&out, br, size); err != nil {
			return nil, err
		}
		if _, err := br.Discard(2); err != nil {
			return nil, err
		}
	}
}

func newFakeMinioStorage(t *testing.T, fake *fakeMinio) *MinioStorage {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewMinioStorage(context.Background(),
		strings.TrimPrefix(srv.URL, "http://"), "access", "secret", fake.bucket, "us-east-1", false)
	require.NoError(t, err)
	return s
}

func TestNewMinioStorage_CreatesMissingBucket(t *testing.T) {
	fake := newFakeMinio("uploads", false)
	newFakeMinioStorage(t, fake)
	assert.True(t, fake.bucketCreated())

	fake = newFakeMinio("uploads", true)
	newFakeMinioStorage(t, fake)
	assert.False(t, fake.bucketCreated())
}

func TestMinioStorage_PutOpenListDelete(t *testing.T) {
	fake := newFakeMinio("uploads", true)
	s := newFakeMinioStorage(t, fake)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k1.pdf", strings.NewReader("%PDF-1.4"), 8, "application/pdf"))
	stored, ct := fake.object("k1.pdf")
	assert.Equal(t, "%PDF-1.4", string(stored))
	assert.Equal(t, "application/pdf", ct)

	obj, err := s.Open(ctx, "k1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "k1.pdf", obj.Info().Name)
	assert.Equal(t, int64(8), obj.Info().Size)
	assert.True(t, fakeModTime.Equal(obj.Info().ModTime))
	body, err := io.ReadAll(obj)
	require.NoError(t, err)
	require.NoError(t, obj.Close())
	assert.Equal(t, "%PDF-1.4", string(body))
	_, seekable := obj.(io.Seeker)
	assert.True(t, seekable)

	objects, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "k1.pdf", objects[0].Name)
	assert.Equal(t, int64(8), objects[0].Size)

	require.NoError(t, s.Delete(ctx, "k1.pdf"))
	assert.Zero(t, fake.count())

	_, err = s.Open(ctx, "k1.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestMinioStorage_OpenMissing(t *testing.T) {
	s := newFakeMinioStorage(t, newFakeMinio("uploads", true))

	_, err := s.Open(context.Background(), "nonexistent.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestMinioStorage_ListFailure(t *testing.T) {
	fake := newFakeMinio("uploads", true)
	s := newFakeMinioStorage(t, fake)
	fake.setFailList(true)

	_, err := s.List(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrObjectNotFound)
	assert.Equal(t, "AccessDenied", minio.ToErrorResponse(errors.Unwrap(err)).Code)
}
