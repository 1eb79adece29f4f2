// Package storage provides the opaque document-storage capability: store
// bytes, get back a retrieval handle. The pipeline never interprets handles;
// only this package knows they are gs:// URIs.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Store is the boundary the rest of the system depends on.
type Store interface {
	// Put stores data under objectName and returns a retrieval handle.
	Put(ctx context.Context, objectName string, data []byte) (string, error)

	// Fetch returns the bytes previously stored under handle.
	Fetch(ctx context.Context, handle string) ([]byte, error)
}

// SplitHandle breaks a gs:// handle into bucket and object path.
func SplitHandle(handle string) (bucket, object string, err error) {
	if !strings.HasPrefix(handle, "gs://") {
		return "", "", fmt.Errorf("storage: invalid handle: %s", handle)
	}
	trimmed := strings.TrimPrefix(handle, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("storage: invalid handle (no object path): %s", handle)
	}
	return parts[0], parts[1], nil
}

// HandleFilename extracts the base filename from a handle,
// e.g. "gs://bucket/folder/receipt.jpg" → "receipt.jpg".
func HandleFilename(handle string) string {
	trimmed := strings.TrimPrefix(handle, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}
