package offline

import (
	"context"
	"net/http"
	"time"
)

// Entry is a cached response.
type Entry struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"storedAt"`
}

// Bucket is one named cache holding responses by request URI.
type Bucket interface {
	// Match returns the entry stored for key. A miss is (nil, false, nil).
	Match(ctx context.Context, key string) (*Entry, bool, error)
	Put(ctx context.Context, key string, entry *Entry) error
}

// Storage holds named buckets.
type Storage interface {
	// Open returns the bucket called name. It runs on every fetch and must
	// not write to the backing store.
	Open(ctx context.Context, name string) (Bucket, error)
	// Keys lists bucket names.
	Keys(ctx context.Context) ([]string, error)
	// Delete removes a bucket and everything in it, reporting whether it existed.
	Delete(ctx context.Context, name string) (bool, error)
}
