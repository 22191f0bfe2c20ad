// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so the application can talk to AWS S3 or a
// self-hosted MinIO instance. The country sync uses it to archive every fetched
// snapshot and to replay an archived snapshot instead of calling the live source.
//
// # Client Interface
//
// The Client interface is kept to the operations the application uses, which keeps
// the testify mock in core/storage/mocks small.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
