package offline

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Ensure MinioStorage implements Storage
var _ Storage = (*MinioStorage)(nil)

// MinioConfig holds the MinIO connection parameters.
type MinioConfig struct {
	Endpoint        string // e.g. "localhost:9000"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

// MinioStorage keeps every cache in a single object-store bucket. A cache is
// a key prefix "<name>/" and each entry is a JSON object under it, so a cache
// exists once it holds an entry.
type MinioStorage struct {
	client     *minio.Client
	bucketName string
}

// NewMinioStorage connects to MinIO and creates the bucket if it is missing.
func NewMinioStorage(ctx context.Context, cfg MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.BucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.BucketName, err)
		}
		slog.Info("Created cache bucket", "bucket", cfg.BucketName)
	}

	return &MinioStorage{client: client, bucketName: cfg.BucketName}, nil
}

func cachePrefix(name string) string {
	return name + "/"
}

// entryObject maps a request URI to an object name. URIs contain '/' and '?'
// so they are base64url encoded.
func entryObject(cacheName, key string) string {
	return cachePrefix(cacheName) + base64.RawURLEncoding.EncodeToString([]byte(key))
}

// Open returns a handle without touching the object store.
func (s *MinioStorage) Open(_ context.Context, name string) (Bucket, error) {
	return &minioBucket{storage: s, name: name}, nil
}

func (s *MinioStorage) Keys(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{Recursive: false}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list caches: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			names = append(names, strings.TrimSuffix(obj.Key, "/"))
		}
	}
	return names, nil
}

func (s *MinioStorage) Delete(ctx context.Context, name string) (bool, error) {
	var objects []minio.ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    cachePrefix(name),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return false, fmt.Errorf("failed to list cache %q: %w", name, obj.Err)
		}
		objects = append(objects, obj)
	}
	if len(objects) == 0 {
		return false, nil
	}

	toRemove := make(chan minio.ObjectInfo, len(objects))
	for _, obj := range objects {
		toRemove <- obj
	}
	close(toRemove)

	for rerr := range s.client.RemoveObjects(ctx, s.bucketName, toRemove, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			return true, fmt.Errorf("failed to remove %q: %w", rerr.ObjectName, rerr.Err)
		}
	}
	return true, nil
}

type minioBucket struct {
	storage *MinioStorage
	name    string
}

func (b *minioBucket) Match(ctx context.Context, key string) (*Entry, bool, error) {
	obj, err := b.storage.client.GetObject(ctx, b.storage.bucketName, entryObject(b.name, key), minio.GetObjectOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &entry, true, nil
}

func (b *minioBucket) Put(ctx context.Context, key string, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	_, err = b.storage.client.PutObject(ctx, b.storage.bucketName, entryObject(b.name, key),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}
