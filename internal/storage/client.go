package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrDisabled is returned when object storage is not configured.
var ErrDisabled = fmt.Errorf("storage service not configured")

// Config holds MinIO connection settings. An empty Endpoint disables the
// client; uploads then fail with ErrDisabled while the rest of the API
// keeps working.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

// Client wraps MinIO and stores uploaded files for image fields in a
// single bucket, keyed by endpoint id.
type Client struct {
	mc      *minio.Client
	bucket  string
	enabled bool
}

// NewClient creates a storage client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return &Client{enabled: false}, nil
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Client{mc: mc, bucket: cfg.Bucket, enabled: true}, nil
}

// Enabled reports whether the storage client is configured.
func (c *Client) Enabled() bool {
	return c.enabled
}

// EnsureBucket creates the configured bucket if it does not exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	if !c.enabled {
		return ErrDisabled
	}
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
}

// ObjectKey builds a fresh unique key for an upload under an endpoint.
// The original filename only contributes its extension.
func ObjectKey(endpointID, filename string) string {
	return endpointID + "/" + uuid.NewString() + path.Ext(filename)
}

// Upload stores an object and returns its key.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if !c.enabled {
		return "", ErrDisabled
	}
	if err := c.EnsureBucket(ctx); err != nil {
		return "", err
	}
	_, err := c.mc.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Object holds the reader and metadata for a downloaded object.
type Object struct {
	Reader       io.ReadCloser
	ContentType  string
	Size         int64
	LastModified time.Time
}

// Download fetches an object by key.
func (c *Client) Download(ctx context.Context, key string) (*Object, error) {
	if !c.enabled {
		return nil, ErrDisabled
	}
	obj, err := c.mc.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, err
	}
	return &Object{
		Reader:       obj,
		ContentType:  info.ContentType,
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

// Delete removes an object by key.
func (c *Client) Delete(ctx context.Context, key string) error {
	if !c.enabled {
		return ErrDisabled
	}
	return c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}

// ObjectInfo is a minimal listing entry.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// List returns objects under prefix, typically an endpoint id.
func (c *Client) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if !c.enabled {
		return nil, ErrDisabled
	}
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	ch := c.mc.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true})
	var out []ObjectInfo
	for obj := range ch {
		if obj.Err != nil {
			return nil, obj.Err
		}
		out = append(out, ObjectInfo{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	return out, nil
}
