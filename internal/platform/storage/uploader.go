package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

var errInvalidBucket = errors.New("storage: bucket name is required")

// Uploader writes immutable objects to a single Cloud Storage bucket.
type Uploader struct {
	client *storage.Client
	bucket string
}

// NewUploader constructs an Uploader bound to the given bucket.
func NewUploader(ctx context.Context, bucket string, opts ...option.ClientOption) (*Uploader, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errInvalidBucket
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: create client: %w", err)
	}
	return &Uploader{client: client, bucket: bucket}, nil
}

// UploadObject stores the payload under objectPath and returns the public URL.
// Existing objects at the same path are overwritten.
func (u *Uploader) UploadObject(ctx context.Context, objectPath string, data []byte, contentType string, metadata map[string]string) (string, error) {
	if u == nil || u.client == nil {
		return "", errors.New("storage: uploader not initialised")
	}
	objectPath = strings.TrimSpace(objectPath)
	if objectPath == "" {
		return "", errors.New("storage: object path is required")
	}

	writer := u.client.Bucket(u.bucket).Object(objectPath).NewWriter(ctx)
	writer.ContentType = strings.TrimSpace(contentType)
	if len(metadata) > 0 {
		writer.Metadata = metadata
	}

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("storage: write object %s: %w", objectPath, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("storage: finalise object %s: %w", objectPath, err)
	}

	return PublicURL(u.bucket, objectPath), nil
}

// Bucket reports the bucket this uploader writes to.
func (u *Uploader) Bucket() string {
	if u == nil {
		return ""
	}
	return u.bucket
}

// Close releases the underlying storage client.
func (u *Uploader) Close() error {
	if u == nil || u.client == nil {
		return nil
	}
	return u.client.Close()
}
