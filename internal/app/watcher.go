package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/vastavik/internal/capture"
)

const (
	defaultRestartInterval = 2 * time.Second
	maxBackoff             = 30 * time.Second
	gestureBuffer          = 16
)

// gestureSource is the part of capture.Watcher the restart loop needs.
type gestureSource interface {
	Dir() string
	Run(ctx context.Context, emit func(capture.Gesture)) error
}

// StartDropWatcher runs the drop folder watcher in the background and
// returns its gestures. A watcher that fails is restarted with exponential
// backoff. The channel closes when ctx is cancelled.
func StartDropWatcher(ctx context.Context, w gestureSource, log *logrus.Entry) <-chan capture.Gesture {
	return startDropWatcher(ctx, w, log, defaultRestartInterval)
}

func startDropWatcher(ctx context.Context, w gestureSource, log *logrus.Entry, interval time.Duration) <-chan capture.Gesture {
	if interval <= 0 {
		interval = defaultRestartInterval
	}
	out := make(chan capture.Gesture, gestureBuffer)
	emit := func(g capture.Gesture) {
		select {
		case out <- g:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(out)
		failures := 0
		for {
			err := w.Run(ctx, emit)
			if ctx.Err() != nil {
				return
			}
			if err == nil {
				failures = 0
			} else {
				failures++
			}
			wait := calculateBackoff(failures, interval)
			log.WithError(err).WithFields(logrus.Fields{
				"dir":   w.Dir(),
				"retry": wait.String(),
			}).Warn("drop folder watcher stopped")

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
	return out
}

// calculateBackoff doubles interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
