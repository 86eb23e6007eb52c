package minio

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"

	"github.com/dtroode/clusterdash-server/internal/model"
)

// Objects returned per listing when the caller does not set a limit.
const defaultListLimit = 1000

// Internal adapter interface to enable mocking without a real S3 server.
type minioAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	return w.c.ListBuckets(ctx)
}
func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return w.c.ListObjects(ctx, bucketName, opts)
}

var _ model.ObjectBrowser = (*Client)(nil)

// Client browses buckets and objects through the S3 API of the cluster.
type Client struct {
	api minioAPI
}

// NewClient creates a browsing client using a real *minio.Client instance.
func NewClient(client *minio.Client) *Client {
	return NewClientWithAPI(minioClientWrapper{c: client})
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
func NewClientWithAPI(api minioAPI) *Client {
	return &Client{api: api}
}

// ListBuckets returns every bucket visible to the configured credentials.
func (c *Client) ListBuckets(ctx context.Context) ([]model.BucketInfo, error) {
	buckets, err := c.api.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	out := make([]model.BucketInfo, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, model.BucketInfo{
			Name:      b.Name,
			CreatedAt: b.CreationDate,
		})
	}
	return out, nil
}

// ListObjects returns up to limit objects under prefix. An unknown bucket
// maps to model.ErrNotFound rather than an S3 error.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix string, limit int) ([]model.ObjectInfo, error) {
	exists, err := c.api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, model.ErrNotFound
	}

	if limit <= 0 {
		limit = defaultListLimit
	}

	// Cancel the listing as soon as we stop draining the channel.
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make([]model.ObjectInfo, 0)
	for obj := range c.api.ListObjects(listCtx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		out = append(out, model.ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ETag:         obj.ETag,
			ContentType:  obj.ContentType,
			LastModified: obj.LastModified,
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
