package storage

import (
	"context"
	"testing"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/stretchr/testify/assert"
)

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Backend: "s4"})
	assert.EqualError(t, err, `unknown STORAGE_BACKEND "s4"`)
}

func TestNewMinioClientValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinioConfig
		want string
	}{
		{"endpoint", config.MinioConfig{}, "minio endpoint is required"},
		{"keys", config.MinioConfig{Endpoint: "localhost:9000"}, "minio access key and secret key are required"},
		{"bucket", config.MinioConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, "minio bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMinioClient(tt.cfg)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestNewMinioClient(t *testing.T) {
	client, err := NewMinioClient(config.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "snapshots",
	})
	assert.NoError(t, err)
	assert.Equal(t, "snapshots", client.Bucket())
}

func TestNewGCSClientRequiresBucket(t *testing.T) {
	_, err := NewGCSClient(context.Background(), config.GCSConfig{})
	assert.EqualError(t, err, "gcs bucket is required")
}
