package rangehttp

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Run probes the content length, fetches every planned range concurrently,
// merges the scratch files in order and removes them. It returns the
// absolute path of the final file.
//
// The first failing range cancels the others; Run waits for all of them,
// removes the scratch files and returns a single error matching
// ErrConnectivity. No output file is left behind on failure. The job is
// validated again, so fields changed after NewJob fail with ErrConfiguration.
func Run(ctx context.Context, job *Job) (string, error) {
	if err := job.validate(); err != nil {
		return "", err
	}
	finalPath := job.OutputPath()
	if _, err := os.Stat(finalPath); err == nil {
		return "", fmt.Errorf("%w: %w: %s", ErrConfiguration, ErrDestinationExists, finalPath)
	}

	contentLength, err := ProbeContentLength(ctx, job)
	if err != nil {
		return "", err
	}
	ranges := Plan(contentLength, job.Workers)
	log.Debug().Str("op", "http/coordinator").Int64("contentLength", contentLength).Int("ranges", len(ranges)).Msgf("starting download of %s", job.URL)

	progress := newProgressState(contentLength, job.progress, job.progressArgs)
	scratchFiles := make([]string, len(ranges))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		g.Go(func() error {
			path, err := FetchRange(gctx, job, r, progress.add)
			if err != nil {
				log.Error().Str("op", "http/coordinator").Err(err).Msgf("range %d failed", r.Index)
				return err
			}
			scratchFiles[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		cleanup(job)
		return "", fmt.Errorf("%w: %w", ErrConnectivity, err)
	}

	if _, err := Merge(job, scratchFiles); err != nil {
		cleanup(job)
		return "", err
	}
	cleanup(job)
	log.Info().Str("op", "http/coordinator").Int64("bytes", progress.Current()).Msgf("download completed for %s", finalPath)
	return finalPath, nil
}

func cleanup(job *Job) {
	if err := Cleanup(job); err != nil {
		log.Warn().Str("op", "http/coordinator").Err(err).Msg("scratch files left behind")
	}
}
