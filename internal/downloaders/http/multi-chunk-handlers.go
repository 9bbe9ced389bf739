package rangehttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

// FetchRange downloads r into its scratch file and returns the file path.
// It never retries. On failure a partial scratch file may remain; removing it
// is left to Cleanup.
func FetchRange(ctx context.Context, job *Job, r ByteRange, onChunk func(n int64)) (string, error) {
	fail := func(err error) (string, error) {
		return "", &FetchError{Index: r.Index, Range: r, Err: err}
	}
	if job.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.RequestTimeout)
		defer cancel()
	}

	sink, err := NewSink(job.ScratchPath(r.Index), onChunk)
	if err != nil {
		return fail(err)
	}
	if r.Len() == 0 {
		log.Debug().Str("op", "http/fetch").Msgf("range %d is empty, skipping request", r.Index)
		if err := sink.Close(); err != nil {
			return fail(err)
		}
		return sink.Path(), nil
	}

	written, err := streamRange(ctx, job, r, sink)
	if closeErr := sink.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("error closing scratch file: %w", closeErr)
	}
	if err != nil {
		return fail(err)
	}
	if written != r.Len() {
		return fail(fmt.Errorf("size mismatch: expected %d bytes, got %d", r.Len(), written))
	}
	log.Debug().Str("op", "http/fetch").Int("range", r.Index).Int64("bytes", written).Msg("range download completed")
	return sink.Path(), nil
}

func streamRange(ctx context.Context, job *Job, r ByteRange, sink *Sink) (int64, error) {
	req, err := job.newRequest(ctx)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Range", r.Header())
	log.Debug().Str("op", "http/fetch").Str("range", req.Header.Get("Range")).Msgf("sending range request %d", r.Index)

	resp, err := job.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusOK:
		return 0, ErrRangeNotSupported
	case resp.StatusCode != http.StatusPartialContent:
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	case resp.Header.Get("Content-Range") == "":
		return 0, errors.New("missing Content-Range header")
	}

	buffer := make([]byte, job.ChunkSize)
	for {
		bytesRead, readErr := resp.Body.Read(buffer)
		if bytesRead > 0 {
			if _, err := sink.Write(buffer[:bytesRead]); err != nil {
				return sink.Written(), fmt.Errorf("error writing scratch file: %w", err)
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return sink.Written(), nil
			}
			return sink.Written(), fmt.Errorf("error reading response body: %w", readErr)
		}
	}
}
