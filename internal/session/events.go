package session

import (
	"github.com/five82/vastavik/internal/capture"
	"github.com/five82/vastavik/internal/detector"
	"github.com/five82/vastavik/internal/preview"
	"github.com/five82/vastavik/internal/report"
)

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// SubmitFile selects a file from the picker, a path or a drop.
type SubmitFile struct{ File capture.File }

// DragEnter, DragOver and DragLeave track a hovering drag gesture.
type (
	DragEnter struct{}
	DragOver  struct{}
	DragLeave struct{}
)

// Drop ends a drag gesture with its payload.
type Drop struct{ Files []capture.File }

// PreviewReady carries a finished preview.
type PreviewReady struct {
	Generation uint64
	Preview    preview.Preview
}

// PreviewFailed reports an unreadable image.
type PreviewFailed struct {
	Generation uint64
	Err        error
}

// AnalyzeRequested starts an analysis under RequestID.
type AnalyzeRequested struct{ RequestID string }

// AnalysisSucceeded completes the analysis identified by RequestID.
type AnalysisSucceeded struct {
	Generation uint64
	RequestID  string
	Result     detector.AnalysisResult
}

// AnalysisFailed completes the analysis identified by RequestID with an error.
type AnalysisFailed struct {
	Generation uint64
	RequestID  string
	Err        error
}

// ExportRequested asks for the report of the current result.
type ExportRequested struct{}

// ExportSucceeded reports a delivered report.
type ExportSucceeded struct {
	Generation uint64
	Delivery   report.Delivery
}

// ExportFailed reports a report that could not be fetched or saved.
type ExportFailed struct {
	Generation uint64
	Err        error
}

// Reset returns the Session to its initial state.
type Reset struct{}

// InputRejected surfaces a path or payload that could not become a file.
type InputRejected struct{ Err error }

// DismissNotice clears the current notice.
type DismissNotice struct{}

func (SubmitFile) isEvent()        {}
func (DragEnter) isEvent()         {}
func (DragOver) isEvent()          {}
func (DragLeave) isEvent()         {}
func (Drop) isEvent()              {}
func (PreviewReady) isEvent()      {}
func (PreviewFailed) isEvent()     {}
func (AnalyzeRequested) isEvent()  {}
func (AnalysisSucceeded) isEvent() {}
func (AnalysisFailed) isEvent()    {}
func (ExportRequested) isEvent()   {}
func (ExportSucceeded) isEvent()   {}
func (ExportFailed) isEvent()      {}
func (Reset) isEvent()             {}
func (InputRejected) isEvent()     {}
func (DismissNotice) isEvent()     {}

// Effect is work Reduce asks the caller to perform.
type Effect interface {
	isEffect()
}

// LoadPreview builds the preview for File.
type LoadPreview struct {
	Generation uint64
	File       capture.File
}

// RunAnalysis uploads File to the analysis service.
type RunAnalysis struct {
	Generation uint64
	RequestID  string
	File       capture.File
}

// RunExport fetches and delivers the report for Result.
type RunExport struct {
	Generation uint64
	RequestID  string
	SourceName string
	Result     detector.AnalysisResult
}

func (LoadPreview) isEffect() {}
func (RunAnalysis) isEffect() {}
func (RunExport) isEffect()   {}
