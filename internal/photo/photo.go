// Package photo stores invoice and cheque pictures. Pictures are downscaled
// and re-encoded as JPEG before they reach the configured store.
package photo

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound         = errors.New("photo not found")
	ErrUnsupportedImage = errors.New("unsupported image")
)

// Store keeps photo bytes and hands out references for them.
type Store interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (ref string, err error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}
