package storage

import (
	"bytes"
	"context"
	"path"

	"github.com/minio/minio-go/v7"
)

// ObjectStore is the durable home for transferred recording files.
type ObjectStore interface {
	CreateFolder(ctx context.Context, parent, name string) (string, error)
	Upload(ctx context.Context, folder, name, mimeType string, data []byte) (string, error)
}

type minioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(client *minio.Client, bucket string) ObjectStore {
	return &minioStore{
		client: client,
		bucket: bucket,
	}
}

// CreateFolder returns the prefix for the folder. Object storage has no
// real directories, the prefix is established by the first upload.
func (s *minioStore) CreateFolder(ctx context.Context, parent, name string) (string, error) {
	return path.Join(parent, name), nil
}

// Upload writes the object, replacing any previous copy at the same
// key, and returns a stable reference to it.
func (s *minioStore) Upload(ctx context.Context, folder, name, mimeType string, data []byte) (string, error) {
	objectName := path.Join(folder, name)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return "", err
	}

	u := *s.client.EndpointURL()
	u.Path = path.Join("/", s.bucket, objectName)
	return u.String(), nil
}
