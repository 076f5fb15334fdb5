package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewStabilityChecker_MinimumInterval(t *testing.T) {
	s := NewStabilityChecker(100 * time.Millisecond)
	if s.interval != 50*time.Millisecond {
		t.Errorf("interval = %v, want 50ms", s.interval)
	}
	if s.timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", s.timeout)
	}
}

func TestWaitForStable_StableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "march.csv")
	writeFile(t, path)

	s := NewStabilityChecker(100 * time.Millisecond)
	start := time.Now()
	if err := s.WaitForStable(context.Background(), path); err != nil {
		t.Fatalf("WaitForStable failed: %v", err)
	}
	if time.Since(start) < 100*time.Millisecond {
		t.Error("returned before the threshold elapsed")
	}
}

func TestWaitForStable_MissingFile(t *testing.T) {
	s := NewStabilityChecker(50 * time.Millisecond)
	err := s.WaitForStable(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestWaitForStable_GrowingFileTimesOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growing.csv")
	writeFile(t, path)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return
		}
		defer f.Close()
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				f.WriteString("Acme,10\n")
			}
		}
	}()

	s := NewStabilityChecker(200 * time.Millisecond).WithTimeout(400 * time.Millisecond)
	if err := s.WaitForStable(context.Background(), path); !errors.Is(err, ErrFileUnstable) {
		t.Errorf("expected ErrFileUnstable, got %v", err)
	}
}

func TestWaitForStable_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "march.csv")
	writeFile(t, path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewStabilityChecker(time.Second)
	if err := s.WaitForStable(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
