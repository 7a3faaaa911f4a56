package datalayer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/glizzus/ckdtool/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ContainerContentType is the content type recooked containers are stored with.
const ContainerContentType = "application/octet-stream"

// PutOptions describes an object being stored.
type PutOptions struct {
	Size        int64
	ContentType string
}

// BlobStorage is where recooked containers are archived.
type BlobStorage interface {
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error
}

// RecookedKey is the object key a recooked container named name is archived under.
func RecookedKey(name string) string {
	return path.Join("recooked", path.Base(name))
}

// MinioStorage archives containers in a single MinIO bucket.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage connects to the configured endpoint. No request is made
// until the storage is used.
func NewMinioStorage(cfg *config.MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Username, cfg.Password, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, err
	}

	return &MinioStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// EnsureBucket creates the archive bucket unless it already exists.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

var _ BlobStorage = (*MinioStorage)(nil)

// Put uploads data under key. opts.Size may be -1 if unknown.
func (s *MinioStorage) Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error {
	info, err := s.client.PutObject(ctx, s.bucket, key, data, opts.Size, minio.PutObjectOptions{
		ContentType: opts.ContentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, s.bucket, err)
	}
	slog.DebugContext(ctx, "uploaded object", "bucket", s.bucket, "key", key, "size", info.Size)
	return nil
}
