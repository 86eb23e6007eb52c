package model

import (
	"context"
	"time"
)

// BucketInfo describes a storage bucket visible to the dashboard.
type BucketInfo struct {
	Name      string
	CreatedAt time.Time
}

// ObjectInfo describes a single object within a bucket.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// ObjectBrowser lists buckets and their objects for the browse views.
type ObjectBrowser interface {
	ListBuckets(ctx context.Context) ([]BucketInfo, error)
	ListObjects(ctx context.Context, bucket, prefix string, limit int) ([]ObjectInfo, error)
}
