package cmd

import (
	"testing"

	"github.com/tanq16/rangefetch/internal/utils"
	"gopkg.in/yaml.v3"
)

func TestBuildJobsFromBatch(t *testing.T) {
	content := `
http:
  - link: https://example.com/a.iso
    op: ./images/a.iso
  - link: ""
S3:
  - link: s3://bucket/b.tar
ftp:
  - link: ftp://example.com/c
`
	var batchFile utils.BatchFile
	if err := yaml.Unmarshal([]byte(content), &batchFile); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	appConfig.Workers = 6
	appConfig.ChunkSize = 2048

	jobs := buildJobsFromBatch(batchFile)
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].JobType != "s3" || jobs[0].URL != "s3://bucket/b.tar" {
		t.Errorf("first job = %+v", jobs[0])
	}
	if jobs[1].JobType != "http" || jobs[1].OutputPath != "./images/a.iso" {
		t.Errorf("second job = %+v", jobs[1])
	}
	for _, job := range jobs {
		if job.Connections != 6 || job.ChunkSize != 2048 || job.Metadata == nil {
			t.Errorf("job settings not applied: %+v", job)
		}
	}
}

func TestNormalizeJobType(t *testing.T) {
	tests := map[string]string{"http": "http", "HTTPS": "http", "s3": "s3", "gdrive": ""}
	for input, want := range tests {
		if got := normalizeJobType(input); got != want {
			t.Errorf("normalizeJobType(%q) = %q, want %q", input, got, want)
		}
	}
}
