package session

import (
	"github.com/five82/vastavik/internal/capture"
	"github.com/five82/vastavik/internal/detector"
	"github.com/five82/vastavik/internal/preview"
	"github.com/five82/vastavik/internal/report"
)

// Status is the analysis lifecycle of a Session.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// View is one of the three mutually exclusive renderings of a Session.
type View int

const (
	ViewNoFile View = iota
	ViewFileNoResult
	ViewResult
)

func (v View) String() string {
	switch v {
	case ViewNoFile:
		return "no-file"
	case ViewFileNoResult:
		return "file"
	case ViewResult:
		return "result"
	default:
		return "unknown"
	}
}

// NoticeKind classifies a user-visible notice.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is a one-line message about the last export or rejected input.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Session is the state of one upload, analysis and report cycle.
type Session struct {
	File       *capture.File
	Preview    *preview.Preview
	PreviewErr error
	Status     Status
	Result     *detector.AnalysisResult
	Err        error
	DragActive bool

	Exporting bool
	Notice    Notice
	Delivery  *report.Delivery

	// Generation changes on every file submission and reset; completions
	// carrying an older value are dropped.
	Generation uint64
	RequestID  string
}

// View derives the active rendering.
func (s Session) View() View {
	switch {
	case s.Result != nil:
		return ViewResult
	case s.File != nil:
		return ViewFileNoResult
	default:
		return ViewNoFile
	}
}

// AcceptsFile reports whether a submitted file would replace the current one.
func (s Session) AcceptsFile() bool {
	return s.Status == StatusIdle || s.Status == StatusFailed
}

// CanAnalyze reports whether an analyze request would start.
func (s Session) CanAnalyze() bool {
	return s.File != nil && s.Status != StatusPending
}

// CanExport reports whether an export request would start.
func (s Session) CanExport() bool {
	return s.Result != nil && !s.Exporting
}

// FailureMessage is the operator-facing text for a failed analysis.
func (s Session) FailureMessage() string {
	if s.Status != StatusFailed || s.Err == nil {
		return ""
	}
	return detector.Describe(s.Err)
}

// Clone returns a copy that shares no pointers with s.
func (s Session) Clone() Session {
	out := s
	if s.File != nil {
		f := *s.File
		out.File = &f
	}
	if s.Preview != nil {
		p := *s.Preview
		out.Preview = &p
	}
	if s.Result != nil {
		r := *s.Result
		r.Anomalies = append([]detector.Anomaly(nil), s.Result.Anomalies...)
		out.Result = &r
	}
	if s.Delivery != nil {
		d := *s.Delivery
		out.Delivery = &d
	}
	return out
}
