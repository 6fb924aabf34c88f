package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"balance-mirror/core/balance"
	"balance-mirror/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Document is the JSON shape of one exported snapshot.
type Document struct {
	// TakenAt is the capture time in UTC.
	TakenAt time.Time `json:"taken_at"`
	// Accounts is every mirrored balance record at capture time.
	Accounts []balance.Record `json:"accounts"`
}

// Exporter writes periodic balance snapshots to object storage.
type Exporter struct {
	cfg    Config
	store  balance.Store
	client storage.Client
	bucket string
	log    *zap.Logger
}

// NewExporter creates a snapshot exporter over the given store and bucket.
func NewExporter(cfg Config, store balance.Store, client storage.Client, bucket string, log *zap.Logger) *Exporter {
	return &Exporter{
		cfg:    cfg,
		store:  store,
		client: client,
		bucket: bucket,
		log:    log.Named("snapshot"),
	}
}

// Run ensures the bucket exists and exports on the configured interval until
// ctx is canceled. Export failures are logged and retried on the next tick.
func (e *Exporter) Run(ctx context.Context) error {
	if err := e.ensureBucket(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(e.cfg.Interval())
	defer ticker.Stop()

	e.log.Info("snapshot exporter started",
		zap.String("bucket", e.bucket), zap.Duration("interval", e.cfg.Interval()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			name, err := e.Export(ctx)
			if err != nil {
				e.log.Error("snapshot export failed", zap.Error(err))
				continue
			}
			e.log.Info("snapshot exported", zap.String("object", name))
		}
	}
}

// Export captures all balance records and uploads one snapshot document.
// It returns the object name written.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	recs, err := e.store.All(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshot: load balances: %w", err)
	}

	doc := Document{
		TakenAt:  time.Now().UTC(),
		Accounts: recs,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("snapshot: encode: %w", err)
	}

	// The uuid suffix keeps two captures in the same second from colliding.
	name := fmt.Sprintf("%sbalances-%s-%s.json",
		e.cfg.Prefix,
		doc.TakenAt.Format("20060102T150405Z"),
		uuid.NewString()[:8],
	)

	_, err = e.client.PutObject(ctx, e.bucket, name,
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("snapshot: upload %s: %w", name, err)
	}

	return name, nil
}

// ensureBucket creates the snapshot bucket if it does not exist.
func (e *Exporter) ensureBucket(ctx context.Context) error {
	exists, err := e.client.BucketExists(ctx, e.bucket)
	if err != nil {
		return fmt.Errorf("snapshot: check bucket %s: %w", e.bucket, err)
	}
	if exists {
		return nil
	}
	if err := e.client.MakeBucket(ctx, e.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("snapshot: create bucket %s: %w", e.bucket, err)
	}
	return nil
}
