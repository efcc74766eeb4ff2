// Package remote mirrors a finished export tree to object storage, so
// the backup survives the machine it was taken on.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ddsnap/ddsnap/pkg/logging"
)

// ObjectPutter is the part of the S3 API the mirror needs. Satisfied
// by *s3.Client.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Mirror uploads exported files to an S3 bucket.
type Mirror struct {
	client ObjectPutter
	bucket string
	prefix string
	log    *slog.Logger
}

// NewMirror creates a mirror targeting s3://bucket/prefix.
func NewMirror(client ObjectPutter, bucket, prefix string, log *slog.Logger) *Mirror {
	if log == nil {
		log = logging.Nop()
	}
	return &Mirror{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		log:    log,
	}
}

// NewS3Client builds an S3 client from the ambient AWS configuration
// (environment, shared config, instance role).
func NewS3Client(ctx context.Context) (ObjectPutter, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Upload walks the export tree under root and uploads every JSON and
// YAML file, keyed by its path relative to root. Individual upload
// failures are logged and aggregated; local files are never touched.
// Returns the number of objects uploaded.
func (m *Mirror) Upload(ctx context.Context, root string) (int, error) {
	uploaded := 0
	var errs []error

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !exportedFile(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if m.prefix != "" {
			key = m.prefix + "/" + key
		}

		if err := m.putFile(ctx, path, key); err != nil {
			m.log.Warn("upload failed", "key", key, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return nil
		}
		m.log.Debug("uploaded", "key", key)
		uploaded++
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}
	return uploaded, errors.Join(errs...)
}

func (m *Mirror) putFile(ctx context.Context, path, key string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(path)),
	})
	return err
}

// exportedFile reports whether the mirror should pick up a file. Only
// export artifacts are mirrored; the history database stays local.
func exportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func contentType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "application/json"
	}
	return "application/yaml"
}
