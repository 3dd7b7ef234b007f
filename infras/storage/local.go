package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"rentals/infras/otel"
	"rentals/shared/constant"
	"strings"
)

const (
	dirPermission  = 0o755
	otelAttrPath   = "storage.path"
	otelAttrDriver = "storage.driver"
)

type localStore struct {
	root string
	otel otel.Otel
}

// NewLocal stores files below root and returns slash-separated paths relative to the working directory.
func NewLocal(root string, otl otel.Otel) ObjectStore {
	return &localStore{
		root: filepath.Clean(root),
		otel: otl,
	}
}

func (l *localStore) Save(ctx context.Context, directory string, header *multipart.FileHeader) (path string, err error) {
	_, scope := l.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".local.Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	src, err := header.Open()
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	obj, err := sniff(src, header)
	if err != nil {
		return constant.Empty, err
	}

	dir := filepath.Join(l.root, filepath.Clean(directory))
	if _, err = l.resolve(dir); err != nil {
		return constant.Empty, err
	}

	if err = os.MkdirAll(dir, dirPermission); err != nil {
		return constant.Empty, fmt.Errorf("failed to create upload directory: %w", err)
	}

	target := filepath.Join(dir, obj.name)

	dst, err := os.Create(target)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)

		return constant.Empty, fmt.Errorf("failed to write file: %w", err)
	}

	if err = dst.Close(); err != nil {
		return constant.Empty, fmt.Errorf("failed to close file: %w", err)
	}

	path = filepath.ToSlash(target)

	scope.SetAttributes(map[string]any{
		otelAttrDriver: "local",
		otelAttrPath:   path,
	})

	return path, nil
}

// Delete removes a previously saved file. Missing files are not an error.
func (l *localStore) Delete(ctx context.Context, path string) (err error) {
	_, scope := l.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".local.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelAttrPath, path)

	target, err := l.resolve(filepath.FromSlash(path))
	if err != nil {
		return err
	}

	if err = os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (l *localStore) resolve(path string) (string, error) {
	root, err := filepath.Abs(l.root)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to resolve storage root: %w", err)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to resolve path: %w", err)
	}

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return constant.Empty, fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}

	return target, nil
}
