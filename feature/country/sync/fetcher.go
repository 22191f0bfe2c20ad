package sync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"country-registry/core/apperrors"
	"country-registry/core/storage"

	"github.com/minio/minio-go/v7"
)

// LatestArchive selects the most recent archived snapshot.
const LatestArchive = "latest"

// Fetcher retrieves one complete snapshot of countries.
type Fetcher interface {
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
}

// HTTPFetcher reads the snapshot from the REST Countries API.
// It makes a single attempt; retrying is left to the caller.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for cfg.SourceURL bounded by cfg.TimeoutSeconds.
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &HTTPFetcher{
		url:    cfg.SourceURL,
		client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

func (f *HTTPFetcher) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", apperrors.ErrFetch, resp.StatusCode, f.url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", apperrors.ErrFetch, err)
	}

	return newSnapshot(body, f.url)
}

// ArchiveFetcher replays a snapshot previously written by Archiver.
type ArchiveFetcher struct {
	client storage.Client
	bucket string
	prefix string
	object string
}

// NewArchiveFetcher reads object from bucket. LatestArchive or an empty object
// picks the newest snapshot under prefix.
func NewArchiveFetcher(client storage.Client, bucket, prefix, object string) *ArchiveFetcher {
	return &ArchiveFetcher{client: client, bucket: bucket, prefix: prefix, object: object}
}

func (f *ArchiveFetcher) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	object := f.object
	if object == "" || object == LatestArchive {
		latest, err := f.latest(ctx)
		if err != nil {
			return nil, err
		}
		object = latest
	}

	reader, err := f.client.GetObject(ctx, f.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get %s: %v", apperrors.ErrFetch, object, err)
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", apperrors.ErrFetch, object, err)
	}

	return newSnapshot(body, object)
}

// latest returns the greatest key under the prefix. Archive keys are UTC
// timestamps, so lexical order is chronological.
func (f *ArchiveFetcher) latest(ctx context.Context) (string, error) {
	var keys []string
	for obj := range f.client.ListObjects(ctx, f.bucket, minio.ListObjectsOptions{Prefix: archiveDir(f.prefix), Recursive: true}) {
		if obj.Err != nil {
			return "", fmt.Errorf("%w: failed to list archive: %v", apperrors.ErrFetch, obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") {
			keys = append(keys, obj.Key)
		}
	}
	if len(keys) == 0 {
		return "", fmt.Errorf("%w: no archived snapshot under %s", apperrors.ErrFetch, f.prefix)
	}
	sort.Strings(keys)
	return keys[len(keys)-1], nil
}

func newSnapshot(body []byte, source string) (*Snapshot, error) {
	countries, err := ParseSnapshot(body)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Countries: countries,
		Body:      body,
		Source:    source,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// Archiver writes fetched snapshot bodies to object storage.
type Archiver struct {
	client storage.Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewArchiver creates an archiver writing under prefix in bucket.
func NewArchiver(client storage.Client, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

// Archive stores body as <prefix>/<UTC timestamp>.json and returns the key.
func (a *Archiver) Archive(ctx context.Context, body []byte) (string, error) {
	key := archiveDir(a.prefix) + a.now().UTC().Format("20060102T150405.000Z") + ".json"
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive snapshot %s: %w", key, err)
	}
	return key, nil
}

func archiveDir(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}
