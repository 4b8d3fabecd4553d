package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"herdboard/internal/logger"
)

// GCSClient stores artifacts in a Google Cloud Storage bucket
type GCSClient struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

// NewGCSClient creates a new GCS client
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSClient{
		client: client,
		bucket: bucketName,
		log:    logger.Component("storage"),
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// StoreFile uploads data to objectPath
func (g *GCSClient) StoreFile(ctx context.Context, objectPath string, data []byte) error {
	objectPath = strings.TrimPrefix(objectPath, "/")
	g.log.Debug("storing object", logger.Fields{"bucket": g.bucket, "object": objectPath, "bytes": len(data)})

	writer := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	writer.ContentType = GetContentType(objectPath)
	writer.CacheControl = "public, max-age=300"
	writer.Metadata = map[string]string{
		"stored-at": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write object %s to GCS: %w", objectPath, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS upload of %s: %w", objectPath, err)
	}
	return nil
}

// GetFile downloads the object at objectPath
func (g *GCSClient) GetFile(ctx context.Context, objectPath string) ([]byte, error) {
	objectPath = strings.TrimPrefix(objectPath, "/")
	reader, err := g.client.Bucket(g.bucket).Object(objectPath).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("failed to read object %s: %w", objectPath, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for object %s: %w", objectPath, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", objectPath, err)
	}
	return data, nil
}

// ListDir lists objects under prefix; without recursion sub-prefixes are returned with a trailing slash
func (g *GCSClient) ListDir(ctx context.Context, prefix string, recursive bool) ([]string, error) {
	prefix = strings.TrimPrefix(prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	query := &storage.Query{Prefix: prefix}
	if !recursive {
		query.Delimiter = "/"
	}

	var out []string
	it := g.client.Bucket(g.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, err)
		}
		if attrs.Prefix != "" {
			out = append(out, attrs.Prefix)
			continue
		}
		out = append(out, attrs.Name)
	}
	sort.Strings(out)
	return out, nil
}

// FileExists reports whether objectPath exists in the bucket
func (g *GCSClient) FileExists(ctx context.Context, objectPath string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(strings.TrimPrefix(objectPath, "/")).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat object %s: %w", objectPath, err)
	}
	return true, nil
}
