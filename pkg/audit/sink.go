// Package audit provides the append-only sinks that receive transaction and
// audit lines, and the account listener that writes audit entries.
package audit

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// TimeFormat prefixes every stored line.
const TimeFormat = "2006-01-02T15:04:05"

// ErrClosed is returned when appending to a closed sink.
var ErrClosed = errors.New("audit sink closed")

func stamp(now func() time.Time, line string) string {
	return now().Format(TimeFormat) + " - " + line
}

// MemorySink keeps timestamped lines in memory.
type MemorySink struct {
	mu    sync.Mutex
	now   func() time.Time
	lines []string
}

func NewMemorySink() *MemorySink {
	return &MemorySink{now: time.Now}
}

// WithClock replaces the time source. It returns the sink for chaining.
func (s *MemorySink) WithClock(now func() time.Time) *MemorySink {
	s.now = now
	return s
}

func (s *MemorySink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, stamp(s.now, line))
	return nil
}

// Lines returns a copy of the stored lines, oldest first.
func (s *MemorySink) Lines() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...), nil
}

// FileSink appends timestamped lines to a file.
type FileSink struct {
	mu   sync.Mutex
	now  func() time.Time
	path string
	f    *os.File
}

// OpenFileSink opens path for appending, creating it if needed.
func OpenFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit file: %w", err)
	}
	return &FileSink{now: time.Now, path: path, f: f}, nil
}

func (s *FileSink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return ErrClosed
	}
	if _, err := s.f.WriteString(stamp(s.now, line) + "\n"); err != nil {
		return fmt.Errorf("write audit file: %w", err)
	}
	return nil
}

// Lines reads the whole file back.
func (s *FileSink) Lines() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("read audit file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// Appender is the write side shared by every sink.
type Appender interface {
	Append(line string) error
}

// MultiSink appends to every sink and reads history from the first one.
type MultiSink []Appender

func (m MultiSink) Append(line string) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(line); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Lines() ([]string, error) {
	for _, s := range m {
		if r, ok := s.(interface{ Lines() ([]string, error) }); ok {
			return r.Lines()
		}
	}
	return nil, nil
}
