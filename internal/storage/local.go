package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

type localStorage struct {
	root      string
	publicURL string
	logger    *zap.Logger
}

// NewLocal stores files below root. publicURL is the address root is
// served from.
func NewLocal(root, publicURL string, logger ...*zap.Logger) Storage {
	l := zap.L().Named("storage.local")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("storage.local")
	}
	return &localStorage{
		root:      root,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    l,
	}
}

// clean rejects absolute paths and anything escaping root.
func clean(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" || path.IsAbs(p) {
		return "", ErrInvalidPath
	}
	p = path.Clean(p)
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", ErrInvalidPath
	}
	return p, nil
}

func (s *localStorage) Put(ctx context.Context, p string, r io.Reader) (Object, error) {
	rel, err := clean(p)
	if err != nil {
		return Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, fmt.Errorf("create dir for %q: %w", rel, err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("create %q: %w", rel, err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return Object{}, fmt.Errorf("write %q: %w", rel, err)
	}

	s.logger.Debug("file stored", zap.String("path", rel), zap.Int64("size", n))
	return Object{Path: rel, URL: s.URL(rel), Size: n}, nil
}

// Delete removes p. A missing file is not an error.
func (s *localStorage) Delete(ctx context.Context, p string) error {
	rel, err := clean(p)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %q: %w", rel, err)
	}
	return nil
}

func (s *localStorage) URL(p string) string {
	return s.publicURL + "/" + strings.TrimLeft(p, "/")
}
