package storage

import (
	"context"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service reads catalog files from remote object storage.
type Service interface {
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}
