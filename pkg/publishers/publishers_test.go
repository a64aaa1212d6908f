package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: bus
    type: KAFKA
    kafka:
      brokers: [" localhost:9092 ", ""]
      topic: transactions
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "bus" {
		t.Fatalf("expected only bus enabled, got %#v", enabled)
	}
	if enabled[0].Type != TypeKafka || len(enabled[0].Kafka.Brokers) != 1 || enabled[0].Kafka.Brokers[0] != "localhost:9092" {
		t.Fatalf("kafka config not sanitized: %#v", enabled[0].Kafka)
	}
	if _, ok := reg.ByID("http1"); !ok {
		t.Fatalf("ByID should find disabled entries")
	}
}

func TestLoadRegistryJSONAndEnvHeaders(t *testing.T) {
	t.Setenv("HOOK_TOKEN", "s3cret")
	path := writeFile(t, "publishers.json", `{"publishers":[
		{"id":"hook","type":"http","http":{"url":"https://example.com","headers":{"Authorization":"Bearer ${HOOK_TOKEN}","X-Empty":" "}}}
	]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, _ := reg.ByID("hook")
	if cfg.HTTP.Headers["Authorization"] != "Bearer s3cret" {
		t.Fatalf("header not expanded: %#v", cfg.HTTP.Headers)
	}
	if _, ok := cfg.HTTP.Headers["X-Empty"]; ok {
		t.Fatalf("empty header should be dropped")
	}
	if cfg.HTTP.Method != httpDefaultMethod || cfg.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("defaults not applied: %#v", cfg.HTTP)
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	path := writeFile(t, "publishers.yml", `
publishers:
  - id: a
    type: http
    http: {url: "https://one"}
  - id: a
    type: http
    http: {url: "https://two"}
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := map[string]PublisherConfig{
		"missing http":       {ID: "h1", Type: TypeHTTP},
		"missing sqs region": {ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}},
		"missing sns arn":    {ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "us-east-1"}},
		"missing topic":      {ID: "g", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "p"}},
		"missing brokers":    {ID: "k", Type: TypeKafka, Kafka: &KafkaPublisherConfig{Topic: "t"}},
		"unknown type":       {ID: "x", Type: "smtp"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if err := validatePublisherConfig(cfg); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
