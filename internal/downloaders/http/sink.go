package rangehttp

import (
	"errors"
	"fmt"
	"os"
)

// Sink persists the chunks of one range into its scratch file and reports
// every written chunk to a hook.
type Sink struct {
	path    string
	file    *os.File
	onChunk func(n int64)
	written int64
}

func NewSink(path string, onChunk func(n int64)) (*Sink, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening scratch file: %w", err)
	}
	return &Sink{path: path, file: file, onChunk: onChunk}, nil
}

func (s *Sink) Write(p []byte) (int, error) {
	n, err := s.file.Write(p)
	if n > 0 {
		s.written += int64(n)
		if s.onChunk != nil {
			s.onChunk(int64(n))
		}
	}
	return n, err
}

func (s *Sink) Written() int64 {
	return s.written
}

func (s *Sink) Path() string {
	return s.path
}

func (s *Sink) Close() error {
	return errors.Join(s.file.Sync(), s.file.Close())
}
