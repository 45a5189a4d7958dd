package capture

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// GestureKind enumerates the drag gestures a drop target observes.
type GestureKind int

const (
	GestureEnter GestureKind = iota
	GestureOver
	GestureLeave
	GestureDrop
)

func (k GestureKind) String() string {
	switch k {
	case GestureEnter:
		return "enter"
	case GestureOver:
		return "over"
	case GestureLeave:
		return "leave"
	case GestureDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// Gesture is one drag event. Files is only set for GestureDrop.
type Gesture struct {
	Kind  GestureKind
	Files []File
}

// DefaultSettle is how long a file in the drop folder must stay untouched
// before it counts as dropped.
const DefaultSettle = 750 * time.Millisecond

// Watcher turns activity in a drop folder into drag gestures: a file
// appearing starts a drag, further writes hover, a quiet period drops and a
// removal before settling leaves.
type Watcher struct {
	dir    string
	settle time.Duration
	log    *logrus.Entry
}

// NewWatcher prepares a watcher for dir. Settle <= 0 uses DefaultSettle.
func NewWatcher(dir string, settle time.Duration, log *logrus.Entry) (*Watcher, error) {
	resolved, err := expandPath(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve drop dir: %w", err)
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Watcher{dir: resolved, settle: settle, log: log.WithField("component", "dropwatch")}, nil
}

// Dir returns the watched folder.
func (w *Watcher) Dir() string { return w.dir }

// Run blocks until ctx is cancelled, calling emit for every gesture.
func (w *Watcher) Run(ctx context.Context, emit func(Gesture)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.WithField("dir", w.dir).Info("watching drop folder")

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(tickInterval(w.settle))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ignoredName(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				_, known := pending[event.Name]
				pending[event.Name] = time.Now()
				if len(pending) == 1 && !known {
					emit(Gesture{Kind: GestureEnter})
				} else {
					emit(Gesture{Kind: GestureOver})
				}
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				if _, known := pending[event.Name]; !known {
					continue
				}
				delete(pending, event.Name)
				if len(pending) == 0 {
					emit(Gesture{Kind: GestureLeave})
				}
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("drop folder watch error")

		case now := <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			var settled []string
			for path, last := range pending {
				if now.Sub(last) >= w.settle {
					settled = append(settled, path)
				}
			}
			if len(settled) == 0 {
				continue
			}
			for _, path := range settled {
				delete(pending, path)
			}
			sort.Strings(settled)
			files, err := FromPaths(settled)
			if err != nil {
				w.log.WithError(err).Debug("skipping unusable dropped path")
			}
			if len(files) > 0 {
				emit(Gesture{Kind: GestureDrop, Files: files})
			} else if len(pending) == 0 {
				emit(Gesture{Kind: GestureLeave})
			}
		}
	}
}

// ignoredName skips hidden and partial-download files.
func ignoredName(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	lower := strings.ToLower(base)
	for _, suffix := range []string{".part", ".crdownload", ".tmp", "~"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

const minTick = 10 * time.Millisecond

// tickInterval is how often pending writes are checked for settling.
func tickInterval(settle time.Duration) time.Duration {
	return max(settle/3, minTick)
}
