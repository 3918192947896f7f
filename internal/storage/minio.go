package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"docstore/internal/config"
)

// minioStore implements BlobStore on an S3-compatible backend (MinIO, AWS
// S3). Blob paths become object keys, so the time-bucket layout is a flat
// key prefix: there are no real directories to allocate or prune.
// It is safe for concurrent use by multiple goroutines.
type minioStore struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates an S3-compatible BlobStore backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (BlobStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStore{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

// AllocateDir computes the time bucket only; object stores have no
// directories to create.
func (m *minioStore) AllocateDir(_ context.Context, at time.Time) (string, error) {
	return TimeBucket(at), nil
}

// Write uploads the content under the blob path as an object key.
func (m *minioStore) Write(ctx context.Context, relPath string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, relPath, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("%w: put object %s: %v", ErrUnavailable, relPath, err)
	}
	return nil
}

// Read downloads the object content. GetObject defers backend errors to the
// first read, so missing keys surface from io.ReadAll.
func (m *minioStore) Read(ctx context.Context, relPath string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, relPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get object %s: %v", ErrUnavailable, relPath, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, relPath)
		}
		return nil, fmt.Errorf("%w: read object %s: %v", ErrUnavailable, relPath, err)
	}
	return data, nil
}

// Delete removes the object if present. The stat distinguishes "existed" from
// "already absent"; RemoveObject itself succeeds either way.
func (m *minioStore) Delete(ctx context.Context, relPath string) (bool, error) {
	existed := true
	if _, err := m.client.StatObject(ctx, m.bucket, relPath, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			existed = false
		} else {
			return false, fmt.Errorf("%w: stat object %s: %v", ErrUnavailable, relPath, err)
		}
	}
	if err := m.client.RemoveObject(ctx, m.bucket, relPath, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("%w: remove object %s: %v", ErrUnavailable, relPath, err)
	}
	return existed, nil
}

// PruneEmptyDirs is a no-op: key prefixes disappear with their last object.
func (m *minioStore) PruneEmptyDirs(context.Context, string) error {
	return nil
}
