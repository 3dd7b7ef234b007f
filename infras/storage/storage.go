package storage

//go:generate go run go.uber.org/mock/mockgen -source=./storage.go -destination=./mocks/storage_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"rentals/config"
	"rentals/infras/otel"
	"rentals/infras/s3"
	"rentals/shared/constant"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrOutsideRoot = errors.New("path is outside the storage root")
	ErrEmptyFile   = errors.New("uploaded file is empty")
)

// ObjectStore keeps uploaded files and hands back the path records should reference.
type ObjectStore interface {
	Save(ctx context.Context, directory string, file *multipart.FileHeader) (path string, err error)
	Delete(ctx context.Context, path string) error
}

// New picks the driver named by Storage.Driver, falling back to local disk.
func New(cfg *config.Config, otl otel.Otel, s3Client s3.S3) ObjectStore {
	switch cfg.Storage.Driver {
	case constant.StorageDriverS3:
		log.Info().Str("bucket", cfg.External.S3.BucketName).Msg("Using S3 object store")

		return NewS3(s3Client, cfg.External.S3.BucketName, otl)
	default:
		log.Info().Str("directory", cfg.Storage.Local.Directory).Msg("Using local object store")

		return NewLocal(cfg.Storage.Local.Directory, otl)
	}
}

type object struct {
	name        string
	contentType string
}

// sniff names the object after a fresh uuid and the detected type, then rewinds src.
func sniff(src multipart.File, header *multipart.FileHeader) (object, error) {
	if header.Size == 0 {
		return object{}, ErrEmptyFile
	}

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return object{}, fmt.Errorf("failed to detect content type: %w", err)
	}

	if _, err = src.Seek(0, io.SeekStart); err != nil {
		return object{}, fmt.Errorf("failed to rewind upload: %w", err)
	}

	ext := mt.Extension()
	if ext == "" {
		ext = filepath.Ext(header.Filename)
	}

	return object{
		name:        uuid.NewString() + ext,
		contentType: mt.String(),
	}, nil
}
