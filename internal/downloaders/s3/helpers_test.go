package s3

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		input      string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{"s3://bucket/file.zip", "bucket", "file.zip", false},
		{"s3://bucket/nested/path/file.zip", "bucket", "nested/path/file.zip", false},
		{"bucket/file.zip", "bucket", "file.zip", false},
		{"s3://bucket", "", "", true},
		{"s3://bucket/", "", "", true},
		{"s3://bucket/folder/", "", "", true},
		{"s3:///file.zip", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			bucket, key, err := parseS3URL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseS3URL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if bucket != tt.wantBucket || key != tt.wantKey {
				t.Errorf("parseS3URL(%q) = %q, %q", tt.input, bucket, key)
			}
		})
	}
}

func testClientConfig() aws.Config {
	return aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	}
}

func TestPresignObjectURLPathStyle(t *testing.T) {
	client := newClientFromConfig(testClientConfig(), "http://localhost:9000")
	raw, err := presignObjectURL(context.Background(), client, "media", "videos/clip.mp4", 0)
	if err != nil {
		t.Fatalf("presignObjectURL: %v", err)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid presigned URL %q: %v", raw, err)
	}
	if parsed.Host != "localhost:9000" {
		t.Errorf("host = %s", parsed.Host)
	}
	if parsed.Path != "/media/videos/clip.mp4" {
		t.Errorf("path = %s", parsed.Path)
	}
	query := parsed.Query()
	if query.Get("X-Amz-Expires") != "900" {
		t.Errorf("X-Amz-Expires = %s, want 900", query.Get("X-Amz-Expires"))
	}
	if query.Get("X-Amz-Signature") == "" {
		t.Errorf("presigned URL is not signed")
	}
	if !strings.HasPrefix(query.Get("X-Amz-Credential"), "AKIDEXAMPLE/") {
		t.Errorf("credential = %s", query.Get("X-Amz-Credential"))
	}
}
