package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/vastavik/internal/capture"
	"github.com/five82/vastavik/internal/logtail"
	"github.com/five82/vastavik/internal/session"
)

// sessionMsg carries an event produced by a finished session task.
type sessionMsg struct{ ev session.Event }

// pathsMsg carries paths to submit as a drop.
type pathsMsg []string

// gestureMsg carries one drop folder gesture. ok is false once the channel
// closes.
type gestureMsg struct {
	gesture capture.Gesture
	ok      bool
}

// frameMsg advances the confidence gauge animation.
type frameMsg time.Time

// activityMsg carries freshly read log records.
type activityMsg struct {
	entries []logtail.Entry
	err     error
}

// activityTickMsg triggers an activity log refresh.
type activityTickMsg time.Time

// runTask runs a session task off the update loop.
func runTask(task session.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	return func() tea.Msg {
		return sessionMsg{ev: task()}
	}
}

// applyCmd feeds ev to the session on the next update.
func applyCmd(ev session.Event) tea.Cmd {
	return func() tea.Msg {
		return sessionMsg{ev: ev}
	}
}

// waitForGesture blocks on the next gesture.
func waitForGesture(ch <-chan capture.Gesture) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		g, ok := <-ch
		return gestureMsg{gesture: g, ok: ok}
	}
}

func frameCmd() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func activityTickCmd() tea.Cmd {
	return tea.Tick(ActivityRefresh, func(t time.Time) tea.Msg {
		return activityTickMsg(t)
	})
}

// loadActivityCmd reads the tail of the log file.
func loadActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return activityMsg{}
		}
		entries, err := logtail.Tail(path, ActivityLineLimit)
		return activityMsg{entries: entries, err: err}
	}
}
