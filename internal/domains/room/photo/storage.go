package photo

//go:generate go run go.uber.org/mock/mockgen -source=./storage.go -destination=./mocks/storage_mock.go -package=mocks

import (
	"context"
	"fmt"
	"simaru/config"
	"simaru/infras/s3"
)

type Storage interface {
	Save(ctx context.Context, image Image) (key string, err error)
	URL(key string) string
}

type storageImpl struct {
	s3        s3.S3
	directory string
}

func NewStorage(cfg *config.Config, s3 s3.S3) Storage {
	return &storageImpl{
		s3:        s3,
		directory: cfg.Storage.PhotoDirectory,
	}
}

func (s *storageImpl) Save(ctx context.Context, image Image) (string, error) {
	key := NewKey(s.directory, image.Extension)

	if err := s.s3.Put(ctx, key, image.ContentType, image.Data); err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}

	return key, nil
}

func (s *storageImpl) URL(key string) string {
	return s.s3.URL(key)
}
