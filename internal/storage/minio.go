package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("filedrop")

// MinioStorage implements Backend using a MinIO (or any S3-compatible) bucket.
// Objects stay private; downloads are streamed through the service.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage creates a MinIO client, ensures the bucket exists, and
// returns a ready-to-use MinioStorage. An empty region lets the client look
// up the bucket location.
func NewMinioStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket, region string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Infof("storage: created bucket %q", bucket)
	}

	return &MinioStorage{client: client, bucket: bucket}, nil
}

// Put streams r to the bucket under name. size must be the exact byte count
// (pass -1 only if the size is genuinely unknown; MinIO will buffer it).
// S3 PUTs are atomic, so the object is invisible until the upload completes.
func (s *MinioStorage) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", name, err)
	}
	return nil
}

// Open stats the object and returns a seekable reader over it.
func (s *MinioStorage) Open(ctx context.Context, name string) (Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.translate(name, err)
	}
	st, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, s.translate(name, err)
	}
	return &minioObject{Object: obj, info: ObjectInfo{Name: name, Size: st.Size, ModTime: st.LastModified}}, nil
}

// List returns every object in the bucket.
func (s *MinioStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		objects = append(objects, ObjectInfo{Name: obj.Key, Size: obj.Size, ModTime: obj.LastModified})
	}
	return objects, nil
}

// Delete removes the object at name from the bucket.
func (s *MinioStorage) Delete(ctx context.Context, name string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return s.translate(name, err)
	}
	return nil
}

func (s *MinioStorage) translate(name string, err error) error {
	if isMinioNotFound(err) {
		return ErrObjectNotFound
	}
	return fmt.Errorf("object %q: %w", name, err)
}

func isMinioNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return true
	}
	return false
}

type minioObject struct {
	*minio.Object
	info ObjectInfo
}

func (o *minioObject) Info() ObjectInfo { return o.info }
