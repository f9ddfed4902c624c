// Package artifacts persists batch-analysis outputs (CSV exports, chart
// payloads, fetch results) to a configurable backend.
package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/ChemLens-Insight/internal/config"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemLens-Insight/pkg/errors"
)

// Store writes named artifacts and reports where they landed.
type Store interface {
	// Save persists data under name and returns a backend-specific
	// location (a filesystem path or an object URI).
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// NewStore builds the Store selected by cfg.Artifacts.Backend.
func NewStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (Store, error) {
	switch cfg.Artifacts.Backend {
	case "local":
		return NewLocalStore(cfg.Artifacts.Dir, logger), nil
	case "minio":
		return NewMinIOStore(ctx, cfg.MinIO, logger)
	default:
		return nil, errors.Newf(errors.ErrCodeValidation,
			"unknown artifacts backend %q", cfg.Artifacts.Backend)
	}
}

// LocalStore writes artifacts into a base directory on the local filesystem.
type LocalStore struct {
	dir    string
	logger logging.Logger
}

// NewLocalStore builds a LocalStore rooted at dir.  The directory is created
// lazily on first save.
func NewLocalStore(dir string, logger logging.Logger) *LocalStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &LocalStore{dir: dir, logger: logger.Named("artifacts.local")}
}

func (s *LocalStore) Save(_ context.Context, name string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to create artifact directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to write artifact")
	}
	s.logger.Info("artifact saved",
		logging.String("path", path), logging.Int("bytes", len(data)))
	return path, nil
}

// MinIOStore writes artifacts to an S3-compatible object store.
type MinIOStore struct {
	client *minio.Client
	bucket string
	logger logging.Logger
}

// NewMinIOStore connects to the object store and ensures the bucket exists.
func NewMinIOStore(ctx context.Context, cfg config.MinIOConfig, logger logging.Logger) (*MinIOStore, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to build minio client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to create bucket")
		}
	}

	return &MinIOStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.Named("artifacts.minio"),
	}, nil
}

func (s *MinIOStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeExternalService, "failed to upload artifact")
	}
	location := fmt.Sprintf("s3://%s/%s", s.bucket, name)
	s.logger.Info("artifact uploaded",
		logging.String("location", location), logging.Int("bytes", len(data)))
	return location, nil
}
