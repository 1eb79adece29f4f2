package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
)

// putTimeout bounds a single upload.
const putTimeout = 2 * time.Minute

// GCSStore implements Store against a Google Cloud Storage bucket. The client
// is injected and shared; this type holds no other state.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore creates a store writing into the given bucket. It assumes
// Application Default Credentials are configured on the client.
func NewGCSStore(client *gcs.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

// Put implements Store.
func (s *GCSStore) Put(ctx context.Context, objectName string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, putTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("storage: write object %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("storage: finalize upload of %s: %w", objectName, err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

// Fetch implements Store.
func (s *GCSStore) Fetch(ctx context.Context, handle string) ([]byte, error) {
	bucket, object, err := SplitHandle(handle)
	if err != nil {
		return nil, err
	}

	rc, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: open object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("storage: read object %s/%s: %w", bucket, object, err)
	}
	return data, nil
}

var _ Store = (*GCSStore)(nil)
