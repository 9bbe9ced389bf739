package rangehttp

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Merge concatenates scratchFiles, already in ascending range order, into
// the job's output file. The output file must not exist. On failure the
// partial output is removed and the scratch files are left for Cleanup.
func Merge(job *Job, scratchFiles []string) (string, error) {
	finalPath := job.OutputPath()
	dest, err := os.OpenFile(finalPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMerge, err)
	}

	buffer := make([]byte, mergeBlockSize)
	var totalWritten int64
	for _, path := range scratchFiles {
		written, err := appendFile(dest, path, buffer)
		totalWritten += written
		if err != nil {
			dest.Close()
			os.Remove(finalPath)
			return "", fmt.Errorf("%w: %s: %w", ErrMerge, filepath.Base(path), err)
		}
	}
	if err := errors.Join(dest.Sync(), dest.Close()); err != nil {
		os.Remove(finalPath)
		return "", fmt.Errorf("%w: %w", ErrMerge, err)
	}
	log.Debug().Str("op", "http/merge").Int64("totalBytes", totalWritten).Str("outputFile", finalPath).Msg("file assembly completed")
	return finalPath, nil
}

func appendFile(dest io.Writer, path string, buffer []byte) (int64, error) {
	src, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	var written int64
	for {
		n, readErr := src.Read(buffer)
		if n > 0 {
			if _, err := dest.Write(buffer[:n]); err != nil {
				return written, err
			}
			written += int64(n)
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

// Cleanup removes every scratch file the job can produce. Absent files are
// ignored, so calling it repeatedly is safe. Removal failures come back as
// joined *CleanupWarning values.
func Cleanup(job *Job) error {
	var warnings []error
	for _, path := range job.ScratchPaths() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			warnings = append(warnings, &CleanupWarning{Path: path, Err: err})
		}
	}
	return errors.Join(warnings...)
}
