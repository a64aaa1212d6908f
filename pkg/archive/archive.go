// Package archive stores raw payment report bodies in S3-compatible object storage.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const csvContentType = "text/csv"

// Config locates the bucket reports are written to.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// Prefix is prepended to every object key, e.g. "rakuten/payments".
	Prefix string
}

// Object describes an uploaded report.
type Object struct {
	Bucket string `json:"bucket" yaml:"bucket"`
	Key    string `json:"key" yaml:"key"`
	Size   int64  `json:"size" yaml:"size"`
	ETag   string `json:"etag,omitempty" yaml:"etag,omitempty"`
}

// objectAPI is the subset of *minio.Client the archiver uses.
type objectAPI interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Archiver uploads report bodies to a single bucket.
type Archiver struct {
	api    objectAPI
	bucket string
	prefix string
}

// New creates an archiver backed by a minio client.
func New(cfg Config) (*Archiver, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("archive endpoint is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("archive bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return newArchiver(client, cfg.Bucket, cfg.Prefix), nil
}

func newArchiver(api objectAPI, bucket, prefix string) *Archiver {
	return &Archiver{
		api:    api,
		bucket: strings.TrimSpace(bucket),
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
	}
}

// Put uploads body under name as text/csv and returns where it landed.
func (a *Archiver) Put(ctx context.Context, name, body string) (Object, error) {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return Object{}, errors.New("archive object name is required")
	}
	key := name
	if a.prefix != "" {
		key = path.Join(a.prefix, name)
	}

	info, err := a.api.PutObject(ctx, a.bucket, key, strings.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: csvContentType,
	})
	if err != nil {
		return Object{}, fmt.Errorf("put %s/%s: %w", a.bucket, key, err)
	}
	return Object{Bucket: a.bucket, Key: key, Size: info.Size, ETag: info.ETag}, nil
}

// ReportName builds the object name for a payment report over [start, end].
func ReportName(reportType string, start, end time.Time) string {
	const layout = "20060102"
	reportType = strings.TrimSpace(reportType)
	if reportType == "" {
		reportType = "report"
	}
	if start.IsZero() && end.IsZero() {
		return reportType + ".csv"
	}
	return fmt.Sprintf("%s_%s_%s.csv", reportType, start.Format(layout), end.Format(layout))
}
