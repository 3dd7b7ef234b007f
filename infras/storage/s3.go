package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"rentals/infras/otel"
	"rentals/infras/s3"
	"rentals/shared/constant"
)

type s3Store struct {
	client s3.S3
	bucket string
	otel   otel.Otel
}

// NewS3 stores files as objects and returns their public URLs as paths.
func NewS3(client s3.S3, bucket string, otl otel.Otel) ObjectStore {
	return &s3Store{
		client: client,
		bucket: bucket,
		otel:   otl,
	}
}

func (s *s3Store) Save(ctx context.Context, directory string, header *multipart.FileHeader) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".s3.Save")
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

	url, err = s.client.UploadFile(ctx, s.bucket, path.Join(directory, obj.name), obj.contentType, src)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to store object: %w", err)
	}

	scope.SetAttributes(map[string]any{
		otelAttrDriver: "s3",
		otelAttrPath:   url,
	})

	return url, nil
}

func (s *s3Store) Delete(ctx context.Context, url string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".s3.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelAttrPath, url)

	key := s.client.ObjectKeyFromURL(url)
	if key == constant.Empty {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, url)
	}

	return s.client.DeleteFile(ctx, s.bucket, key) //nolint:wrapcheck
}
