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
  - id: http2
    type: HTTP
    platforms: [Twitter, linkedin, twitter]
    http:
      url: " https://example.com/2 "
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.ap-south-1.amazonaws.com/123/posts
      region: ap-south-1
      endpoint: http://localhost:4566
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "http2" || enabled[1].ID != "queue" {
		t.Fatalf("unexpected enabled set %#v", enabled)
	}

	http2, ok := reg.ByID("http2")
	if !ok {
		t.Fatalf("http2 not indexed")
	}
	if http2.Type != TypeHTTP || http2.HTTP.URL != "https://example.com/2" || http2.HTTP.Method != "POST" {
		t.Fatalf("http2 not sanitized: %#v", http2.HTTP)
	}
	if len(http2.Platforms) != 2 || http2.Platforms[0] != "twitter" {
		t.Fatalf("platforms not normalized: %v", http2.Platforms)
	}

	queue, _ := reg.ByID("queue")
	if queue.SQS.Region != "ap-south-1" || queue.SQS.Endpoint != "http://localhost:4566" {
		t.Fatalf("inline aws settings not decoded: %#v", queue.SQS)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "publishers.json", `{"publishers":[{"id":"topic","type":"sns","sns":{"topic_arn":"arn:aws:sns:us-east-1:1:posts","region":"us-east-1"}}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("topic")
	if !ok || cfg.SNS.Region != "us-east-1" {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func TestLoadRegistryRejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"duplicate": `
publishers:
  - {id: a, type: http, http: {url: https://e.com}}
  - {id: a, type: http, http: {url: https://e.com}}
`,
		"unknown platform": `
publishers:
  - {id: a, type: http, platforms: [myspace], http: {url: https://e.com}}
`,
		"half credentials": `
publishers:
  - {id: q, type: sqs, sqs: {uri: https://q, region: us-east-1, access_key_id: AKIA}}
`,
		"empty": `publishers: []`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadRegistry(writeFile(t, "publishers.yaml", raw)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestValidatePublisherConfigRejectsMissingSections(t *testing.T) {
	for _, cfg := range []PublisherConfig{
		{ID: "h1", Type: TypeHTTP},
		{ID: "q1", Type: TypeSQS},
		{ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{AWSConfig: AWSConfig{Region: "us-east-1"}}},
		{ID: "g1", Type: TypeGCPPubSub, GCPPubSub: &PubSubPublisherConfig{ProjectID: "p"}},
	} {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %s", cfg.ID)
		}
	}
}
