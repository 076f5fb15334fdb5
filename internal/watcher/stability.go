package watcher

import (
	"context"
	"errors"
	"os"
	"time"
)

// ErrFileNotFound is returned when the file disappears while waiting.
var ErrFileNotFound = errors.New("file not found")

// ErrFileUnstable is returned when the file keeps changing past the timeout.
var ErrFileUnstable = errors.New("file did not stabilize within timeout")

// StabilityChecker waits until a file has stopped growing, so a spreadsheet
// still being saved or downloaded is not read half-written.
type StabilityChecker struct {
	threshold time.Duration // how long size and mtime must stay unchanged
	timeout   time.Duration
	interval  time.Duration
}

// NewStabilityChecker polls at a quarter of threshold (at least 50ms) and
// gives up after 30 seconds.
func NewStabilityChecker(threshold time.Duration) *StabilityChecker {
	interval := threshold / 4
	if interval < 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	return &StabilityChecker{
		threshold: threshold,
		timeout:   30 * time.Second,
		interval:  interval,
	}
}

// WithTimeout returns a copy of the checker with a different timeout.
func (s *StabilityChecker) WithTimeout(timeout time.Duration) *StabilityChecker {
	c := *s
	c.timeout = timeout
	return &c
}

type fileState struct {
	size    int64
	modTime time.Time
}

// WaitForStable blocks until path is unchanged for the threshold, the
// timeout passes, or ctx is cancelled.
func (s *StabilityChecker) WaitForStable(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	last, err := stat(path)
	if err != nil {
		return err
	}
	lastChange := time.Now()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrFileUnstable
			}
			return ctx.Err()
		case <-ticker.C:
			current, err := stat(path)
			if err != nil {
				return err
			}
			if current.changed(last) {
				last = current
				lastChange = time.Now()
			} else if time.Since(lastChange) >= s.threshold {
				return nil
			}
		}
	}
}

func (f fileState) changed(prev fileState) bool {
	return f.size != prev.size || !f.modTime.Equal(prev.modTime)
}

func stat(path string) (fileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileState{}, ErrFileNotFound
		}
		return fileState{}, err
	}
	return fileState{size: info.Size(), modTime: info.ModTime()}, nil
}
