package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"staymarket/internal/app/policies"
	domainrents "staymarket/internal/domain/rents"
)

// Archiver writes confirmed pricing snapshots as JSON objects into an
// S3-compatible bucket, keyed by rent id.
type Archiver struct {
	bucket         string
	client         *minio.Client
	logger         *slog.Logger
	bucketInitOnce sync.Once
	bucketInitErr  error
}

func NewArchiver(endpoint string, useSSL bool, accessKey, secretKey, bucket string, logger *slog.Logger) (*Archiver, error) {
	cleanEndpoint := strings.TrimSpace(endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	}
	client, err := minio.New(parseEndpoint(cleanEndpoint), opts)
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	return &Archiver{bucket: bucket, client: client, logger: logger}, nil
}

// snapshotObject is the archived JSON shape; cents and currency only, the
// same figures that are frozen on the rent.
type snapshotObject struct {
	RentID                 string    `json:"rent_id"`
	SubtotalCents          int64     `json:"subtotal_cents"`
	ExtrasTotalCents       int64     `json:"extras_total_cents"`
	ClientCommissionCents  int64     `json:"client_commission_cents"`
	HostCommissionCents    int64     `json:"host_commission_cents"`
	PlatformAmountCents    int64     `json:"platform_amount_cents"`
	HostAmountCents        int64     `json:"host_amount_cents"`
	TotalAmountCents       int64     `json:"total_amount_cents"`
	Nights                 int       `json:"nights"`
	BasePricePerNightCents int64     `json:"base_price_per_night_cents"`
	Currency               string    `json:"currency"`
	CalculatedAt           time.Time `json:"calculated_at"`
	ArchivedAt             time.Time `json:"archived_at"`
}

func (a *Archiver) Archive(ctx context.Context, rentID domainrents.RentID, snapshot domainrents.PricingSnapshot) (string, error) {
	if rentID == "" {
		return "", errors.New("s3: rent id is required")
	}
	if err := a.ensureBucket(ctx); err != nil {
		return "", err
	}
	obj := snapshotObject{
		RentID:                 string(rentID),
		SubtotalCents:          snapshot.Subtotal.Amount,
		ExtrasTotalCents:       snapshot.ExtrasTotal.Amount,
		ClientCommissionCents:  snapshot.ClientCommission.Amount,
		HostCommissionCents:    snapshot.HostCommission.Amount,
		PlatformAmountCents:    snapshot.PlatformAmount.Amount,
		HostAmountCents:        snapshot.HostAmount.Amount,
		TotalAmountCents:       snapshot.TotalAmount.Amount,
		Nights:                 snapshot.Nights,
		BasePricePerNightCents: snapshot.BasePricePerNight.Amount,
		Currency:               snapshot.TotalAmount.Currency,
		CalculatedAt:           snapshot.CalculatedAt,
		ArchivedAt:             time.Now().UTC(),
	}
	payload, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("s3: marshal snapshot: %w", err)
	}
	key := fmt.Sprintf("snapshots/%s.json", rentID)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}
	location := fmt.Sprintf("s3://%s/%s", a.bucket, key)
	if a.logger != nil {
		a.logger.Info("snapshot archived", "rent_id", rentID, "location", location)
	}
	return location, nil
}

func (a *Archiver) ensureBucket(ctx context.Context) error {
	a.bucketInitOnce.Do(func() {
		exists, err := a.client.BucketExists(ctx, a.bucket)
		if err != nil {
			a.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			a.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
		}
	})
	return a.bucketInitErr
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

// NoopArchiver skips archiving; used when no object store is configured.
type NoopArchiver struct{}

func (NoopArchiver) Archive(context.Context, domainrents.RentID, domainrents.PricingSnapshot) (string, error) {
	return "", nil
}

var (
	_ policies.SnapshotArchiver = (*Archiver)(nil)
	_ policies.SnapshotArchiver = NoopArchiver{}
)
