package s3

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "documents/file.pdf", want: "documents/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "documents/file.pdf", want: "root/documents/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "documents/file.pdf", want: "root/documents/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/documents/file.pdf", want: "root/documents/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "documents/file.pdf", want: "root/sub/documents/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestURLPresignsWithPrefix(t *testing.T) {
	client := s3.NewFromConfig(aws.Config{
		Region:      "us-east-1",
		Credentials: aws.NewCredentialsCache(staticCreds{}),
	})
	store := &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  "docs-bucket",
		prefix:  "prod",
		urlTTL:  time.Hour,
		now:     time.Now,
	}

	link, err := store.URL(context.Background(), "documents/2026/01/01/abc_report.pdf")
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if !strings.Contains(link, "docs-bucket") || !strings.Contains(link, "prod/documents/2026/01/01/abc_report.pdf") {
		t.Fatalf("unexpected presigned url %s", link)
	}
	if !strings.Contains(link, "X-Amz-Expires=3600") {
		t.Fatalf("expected one hour expiry in %s", link)
	}

	if _, err := store.URL(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

type staticCreds struct{}

func (staticCreds) Retrieve(ctx context.Context) (aws.Credentials, error) {
	return aws.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret", Source: "test"}, nil
}
