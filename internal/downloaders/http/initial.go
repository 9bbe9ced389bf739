package rangehttp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/rangefetch/internal/utils"
)

// ProbeContentLength issues an unranged GET and reads Content-Length from
// the response headers. The body is closed unread. RequestTimeout bounds
// the probe like any range request.
func ProbeContentLength(ctx context.Context, job *Job) (int64, error) {
	if job.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.RequestTimeout)
		defer cancel()
	}
	req, err := job.newRequest(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrProbe, err)
	}
	resp, err := job.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrProbe, err)
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: unexpected status code: %d", ErrProbe, resp.StatusCode)
	}
	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("%w: server didn't provide Content-Length header", ErrProbe)
	}
	log.Debug().Str("op", "http/initial").Int64("contentLength", resp.ContentLength).Msgf("probed %s", job.URL)
	return resp.ContentLength, nil
}

// HTTPDownloader runs scheduler jobs through the ranged download engine.
type HTTPDownloader struct{}

func (d *HTTPDownloader) ValidateJob(job *utils.Job) error {
	parsedURL, err := url.Parse(job.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s", parsedURL.Scheme)
	}
	if job.OutputPath == "" {
		job.OutputPath = utils.FileNameFromURL(parsedURL)
	}
	if err := utils.ValidateOutputDir(job.OutputPath); err != nil {
		return err
	}
	log.Info().Str("op", "http/initial").Msgf("job validated for %s", job.URL)
	return nil
}

func (d *HTTPDownloader) BuildJob(job *utils.Job) error {
	if job.Metadata == nil {
		job.Metadata = make(map[string]any)
	}
	if utils.FileExists(job.OutputPath) {
		job.OutputPath = utils.RenewOutputPath(job.OutputPath)
	}
	job.HTTPClientConfig.LargeBuffers = job.Connections > 5
	opts := []Option{
		WithClient(utils.NewHTTPClient(job.HTTPClientConfig)),
		WithRequestTimeout(job.RequestTimeout),
	}
	if job.Connections > 0 {
		opts = append(opts, WithWorkers(job.Connections))
	}
	if job.ChunkSize > 0 {
		opts = append(opts, WithChunkSize(job.ChunkSize))
	}
	if job.HTTPClientConfig.Username != "" {
		opts = append(opts, WithBasicAuth(job.HTTPClientConfig.Username, job.HTTPClientConfig.Password))
	}
	if job.ProgressFunc != nil {
		report := job.ProgressFunc
		opts = append(opts, WithProgress(func(current, total, _ int64, _ ...any) {
			report(current, total)
		}))
	}
	rangeJob, err := NewJob(job.URL, filepath.Dir(job.OutputPath), filepath.Base(job.OutputPath), opts...)
	if err != nil {
		return err
	}
	job.Metadata["rangeJob"] = rangeJob
	log.Info().Str("op", "http/initial").Msgf("job built for %s with %d connections", job.OutputPath, rangeJob.Workers)
	return nil
}

func (d *HTTPDownloader) Download(job *utils.Job) error {
	rangeJob, ok := job.Metadata["rangeJob"].(*Job)
	if !ok {
		return errors.New("job was not built")
	}
	startTime := time.Now()
	finalPath, err := Run(context.Background(), rangeJob)
	if err != nil {
		return err
	}
	job.OutputPath = finalPath
	job.Metadata["totalTime"] = time.Since(startTime).Seconds()
	return nil
}
