// Package storage provides an abstraction layer for the object store that
// receives balance snapshots.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the snapshot exporter needs. This abstraction supports both
// AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (as seen in
// core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates the snapshot bucket if needed.
//   - PutObject: Uploads a snapshot document.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "balance-snapshots")
package storage
