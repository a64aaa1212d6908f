package publishers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAWSConfigStaticCredentials(t *testing.T) {
	cfg, err := loadAWSConfig(context.Background(), "us-east-1", AWSAccess{
		AccessKeyID:     "AKIDTEST",
		SecretAccessKey: "secret",
		Endpoint:        "http://localhost:4566",
	})
	if err != nil {
		t.Fatalf("loadAWSConfig: %v", err)
	}
	if cfg.Region != "us-east-1" {
		t.Fatalf("region = %q", cfg.Region)
	}
	if cfg.BaseEndpoint == nil || *cfg.BaseEndpoint != "http://localhost:4566" {
		t.Fatalf("endpoint not applied: %v", cfg.BaseEndpoint)
	}
	creds, err := cfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "AKIDTEST" || creds.SecretAccessKey != "secret" {
		t.Fatalf("unexpected credentials %+v", creds)
	}
}

func TestLoadRegistryAWSAccess(t *testing.T) {
	t.Setenv("SQS_KEY", "AKIDENV")
	t.Setenv("SQS_SECRET", "shh")
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	body := `
publishers:
  - id: queue
    type: sqs
    sqs:
      uri: http://localhost:4566/000000000000/tx
      region: us-east-1
      access_key_id: ${SQS_KEY}
      secret_access_key: ${SQS_SECRET}
      endpoint: http://localhost:4566
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("queue")
	if !ok {
		t.Fatalf("queue publisher missing")
	}
	if cfg.SQS.AccessKeyID != "AKIDENV" || cfg.SQS.SecretAccessKey != "shh" || cfg.SQS.Endpoint != "http://localhost:4566" {
		t.Fatalf("unexpected aws access %+v", cfg.SQS.AWSAccess)
	}
}

func TestAWSAccessRequiresBothKeys(t *testing.T) {
	cfg := PublisherConfig{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{
		TopicARN:  "arn:aws:sns:us-east-1:000000000000:tx",
		Region:    "us-east-1",
		AWSAccess: AWSAccess{AccessKeyID: "AKID"},
	}}
	if err := validatePublisherConfig(cfg); err == nil {
		t.Fatalf("expected error for key without secret")
	}
}
