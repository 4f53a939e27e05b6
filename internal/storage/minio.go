package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements Store on any S3-compatible backend. The exclusive
// create is a stat-then-put and therefore only best effort, which is
// acceptable at the 64^7 keyspace (see LocalStore for the strict variant).
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore creates a MinIO client and ensures the bucket exists.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Printf("storage: created bucket %q", bucket)
	}

	return &MinioStore{client: client, bucket: bucket}, nil
}

// Save streams prefix and the remaining body into a new object under name.
func (s *MinioStore) Save(ctx context.Context, name string, prefix []byte, r io.Reader) (int64, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err == nil {
		return 0, ErrExists
	}

	body := r
	if len(prefix) > 0 {
		body = io.MultiReader(bytes.NewReader(prefix), r)
	}
	info, err := s.client.PutObject(ctx, s.bucket, name, body, -1, minio.PutObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("put object %q: %w", name, err)
	}
	return info.Size, nil
}

// Open fetches the object and its modification time.
func (s *MinioStore) Open(ctx context.Context, name string) (io.ReadSeekCloser, time.Time, error) {
	info, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, time.Time{}, ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("stat object %q: %w", name, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("get object %q: %w", name, err)
	}
	return obj, info.LastModified, nil
}

// Remove deletes the object, mapping a missing one to ErrNotFound.
func (s *MinioStore) Remove(ctx context.Context, name string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ErrNotFound
		}
		return fmt.Errorf("stat object %q: %w", name, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", name, err)
	}
	return nil
}
