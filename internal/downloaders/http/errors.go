package rangehttp

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration     = errors.New("invalid download configuration")
	ErrDestinationExists = errors.New("destination file already exists")
	ErrProbe             = errors.New("content length probe failed")
	ErrFetch             = errors.New("range fetch failed")
	ErrRangeNotSupported = errors.New("range requests are not supported")
	ErrMerge             = errors.New("merging scratch files failed")
	ErrConnectivity      = errors.New("connection refused, scratch files removed")
)

// FetchError reports the failure of a single range. It matches ErrFetch and
// the underlying cause with errors.Is.
type FetchError struct {
	Index int
	Range ByteRange
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("range %d [%d, %d): %v", e.Index, e.Range.Start, e.Range.End, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetch, e.Err}
}

// CleanupWarning is a scratch file that could not be removed. It never
// replaces the result of a job.
type CleanupWarning struct {
	Path string
	Err  error
}

func (w *CleanupWarning) Error() string {
	return fmt.Sprintf("could not remove scratch file %s: %v", w.Path, w.Err)
}

func (w *CleanupWarning) Unwrap() error {
	return w.Err
}
