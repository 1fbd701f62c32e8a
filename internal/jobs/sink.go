package jobs

import (
	"fmt"
	"os"
	"sync"
)

// Sink receives the log lines written by a job
type Sink interface {
	WriteLine(line string) error
}

// FileSink appends lines to a file, creating it on first use
type FileSink struct {
	Path string
	mu   sync.Mutex
}

// NewFileSink creates a sink appending to path
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

// WriteLine appends line and a trailing newline
func (s *FileSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log %s: %w", s.Path, err)
	}

	if _, err := fmt.Fprintln(f, line); err != nil {
		f.Close()
		return fmt.Errorf("failed to write log %s: %w", s.Path, err)
	}
	return f.Close()
}
