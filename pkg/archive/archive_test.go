package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
)

type putCall struct {
	bucket, key, contentType string
	body                     string
	size                     int64
}

type fakeObjectAPI struct {
	calls []putCall
	err   error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, _ := io.ReadAll(reader)
	f.calls = append(f.calls, putCall{bucket: bucket, key: object, contentType: opts.ContentType, body: string(data), size: size})
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: size, ETag: "etag-1"}, nil
}

func TestPutUploadsCSV(t *testing.T) {
	api := &fakeObjectAPI{}
	a := newArchiver(api, "reports", "/rakuten/payments/")

	obj, err := a.Put(context.Background(), "all_history_20230101_20230131.csv", "a,b\n1,2\n")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if len(api.calls) != 1 {
		t.Fatalf("expected one upload, got %d", len(api.calls))
	}
	call := api.calls[0]
	if call.bucket != "reports" || call.key != "rakuten/payments/all_history_20230101_20230131.csv" {
		t.Fatalf("unexpected target %s/%s", call.bucket, call.key)
	}
	if call.contentType != "text/csv" || call.body != "a,b\n1,2\n" || call.size != 8 {
		t.Fatalf("unexpected upload %+v", call)
	}
	if obj.Key != call.key || obj.ETag != "etag-1" || obj.Size != 8 {
		t.Fatalf("unexpected object %+v", obj)
	}
}

func TestPutWithoutPrefix(t *testing.T) {
	api := &fakeObjectAPI{}
	if _, err := newArchiver(api, "reports", "").Put(context.Background(), "r.csv", ""); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if api.calls[0].key != "r.csv" {
		t.Fatalf("key = %q", api.calls[0].key)
	}
}

func TestPutErrors(t *testing.T) {
	api := &fakeObjectAPI{err: errors.New("access denied")}
	a := newArchiver(api, "reports", "")

	if _, err := a.Put(context.Background(), " ", "x"); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if len(api.calls) != 0 {
		t.Fatalf("nothing should upload without a name")
	}
	if _, err := a.Put(context.Background(), "r.csv", "x"); err == nil || !errors.Is(err, api.err) {
		t.Fatalf("expected wrapped upload error, got %v", err)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(Config{Bucket: "b"}); err == nil {
		t.Fatalf("expected error without endpoint")
	}
	if _, err := New(Config{Endpoint: "localhost:9000"}); err == nil {
		t.Fatalf("expected error without bucket")
	}
	a, err := New(Config{Endpoint: "localhost:9000", Bucket: "b", AccessKey: "k", SecretKey: "s"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.bucket != "b" {
		t.Fatalf("bucket = %q", a.bucket)
	}
}

func TestReportName(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	if got := ReportName("all_history", start, end); got != "all_history_20230101_20230131.csv" {
		t.Fatalf("ReportName = %q", got)
	}
	if got := ReportName("", time.Time{}, time.Time{}); got != "report.csv" {
		t.Fatalf("ReportName = %q", got)
	}
}
