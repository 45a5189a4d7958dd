package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/vastavik/internal/capture"
	"github.com/five82/vastavik/internal/logging"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second},
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type flakySource struct {
	mu    sync.Mutex
	runs  int
	fails int
}

func (f *flakySource) Dir() string { return "/drop" }

func (f *flakySource) Run(ctx context.Context, emit func(capture.Gesture)) error {
	f.mu.Lock()
	f.runs++
	run := f.runs
	f.mu.Unlock()
	if run <= f.fails {
		return errors.New("watch failed")
	}
	emit(capture.Gesture{Kind: capture.GestureEnter})
	<-ctx.Done()
	return nil
}

func TestStartDropWatcher_RestartsAfterFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &flakySource{fails: 2}
	log := logrus.NewEntry(logging.Discard())
	gestures := startDropWatcher(ctx, src, log, time.Millisecond)

	select {
	case g := <-gestures:
		if g.Kind != capture.GestureEnter {
			t.Fatalf("gesture = %v, want enter", g.Kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no gesture after restarts")
	}

	src.mu.Lock()
	runs := src.runs
	src.mu.Unlock()
	if runs != 3 {
		t.Fatalf("runs = %d, want 3", runs)
	}

	cancel()
	select {
	case _, ok := <-gestures:
		if ok {
			t.Fatalf("unexpected gesture after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("gesture channel not closed after cancel")
	}
}
