package rangehttp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultWorkers   = 4
	DefaultChunkSize = 1024
	mergeBlockSize   = 1024 * 1024
)

// ProgressFunc receives the running total across all ranges, the content
// length, the size of the chunk just written and any extra arguments given
// to WithProgress.
type ProgressFunc func(current, total, chunk int64, args ...any)

// Job describes one ranged download. NewJob validates it and Run checks it
// again before any network activity.
type Job struct {
	URL            string
	Dir            string
	Name           string
	Workers        int
	ChunkSize      int
	RequestTimeout time.Duration
	Headers        map[string]string

	progress     ProgressFunc
	progressArgs []any
	client       *http.Client
	username     string
	password     string
}

type Option func(*Job)

func WithWorkers(n int) Option {
	return func(j *Job) { j.Workers = n }
}

func WithChunkSize(n int) Option {
	return func(j *Job) { j.ChunkSize = n }
}

func WithProgress(fn ProgressFunc, args ...any) Option {
	return func(j *Job) {
		j.progress = fn
		j.progressArgs = args
	}
}

// WithClient injects the HTTP client used for every request of the job.
// Proxying, TLS and connection pooling are configured on the client.
func WithClient(client *http.Client) Option {
	return func(j *Job) { j.client = client }
}

// WithRequestTimeout bounds each range request, including reading its body.
func WithRequestTimeout(d time.Duration) Option {
	return func(j *Job) { j.RequestTimeout = d }
}

func WithHeaders(headers map[string]string) Option {
	return func(j *Job) { j.Headers = headers }
}

func WithBasicAuth(username, password string) Option {
	return func(j *Job) {
		j.username = username
		j.password = password
	}
}

// NewJob validates the destination eagerly so that a bad directory fails
// before any network activity.
func NewJob(rawURL, dir, name string, opts ...Option) (*Job, error) {
	job := &Job{
		URL:       rawURL,
		Dir:       dir,
		Name:      name,
		Workers:   DefaultWorkers,
		ChunkSize: DefaultChunkSize,
		client:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(job)
	}
	if err := job.validate(); err != nil {
		return nil, err
	}
	absDir, err := filepath.Abs(job.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	job.Dir = absDir
	return job, nil
}

func (j *Job) validate() error {
	if j.Dir == "" {
		return fmt.Errorf("%w: destination directory not set", ErrConfiguration)
	}
	info, err := os.Stat(j.Dir)
	if err != nil {
		return fmt.Errorf("%w: destination directory: %w", ErrConfiguration, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrConfiguration, j.Dir)
	}
	if j.Name == "" || j.Name == "." || j.Name == ".." || filepath.Base(j.Name) != j.Name {
		return fmt.Errorf("%w: invalid file name %q", ErrConfiguration, j.Name)
	}
	parsed, err := url.Parse(j.URL)
	if err != nil {
		return fmt.Errorf("%w: invalid URL: %w", ErrConfiguration, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrConfiguration, parsed.Scheme)
	}
	if j.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrConfiguration)
	}
	if j.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrConfiguration)
	}
	if j.client == nil {
		j.client = http.DefaultClient
	}
	return nil
}

// OutputPath is the absolute path of the reassembled file.
func (j *Job) OutputPath() string {
	return filepath.Join(j.Dir, j.Name)
}

// ScratchPath is the file holding range index (1-based) until the merge.
func (j *Job) ScratchPath(index int) string {
	return filepath.Join(j.Dir, fmt.Sprintf("%s.part%d", j.Name, index))
}

// ScratchPaths lists every scratch file the job can produce, in range order.
func (j *Job) ScratchPaths() []string {
	paths := make([]string, 0, j.Workers)
	for i := 1; i <= j.Workers; i++ {
		paths = append(paths, j.ScratchPath(i))
	}
	return paths
}

func (j *Job) newRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.URL, nil)
	if err != nil {
		return nil, err
	}
	// Transparent decompression hides Content-Length and breaks byte offsets.
	req.Header.Set("Accept-Encoding", "identity")
	for k, v := range j.Headers {
		req.Header.Set(k, v)
	}
	if j.username != "" {
		req.SetBasicAuth(j.username, j.password)
	}
	return req, nil
}
