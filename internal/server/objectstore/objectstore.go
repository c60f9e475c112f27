// Package objectstore stores application photos in a flat key namespace.
// The key of a photo is the id of the application it belongs to.
package objectstore

import "context"

// ObjectStore is implemented by the S3 and in-memory adapters.
//
// GetObject returns (nil, nil) for a missing key so callers can tell
// "no photo" apart from a failed fetch. DeleteObject treats a missing key as
// success.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
	PresignUpload(ctx context.Context, key string, contentType string) (string, error)
}
