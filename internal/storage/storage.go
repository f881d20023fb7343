// Package storage keeps uploaded files on the public disk served under
// STORAGE_PUBLIC_PREFIX.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("storage: invalid path")

// Object describes a stored file.
type Object struct {
	Path string
	URL  string
	Size int64
}

type Storage interface {
	Put(ctx context.Context, path string, r io.Reader) (Object, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}
