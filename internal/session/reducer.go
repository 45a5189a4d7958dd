package session

import "fmt"

// Reduce applies ev to s. It performs no I/O; any work it needs comes back
// as an Effect, or nil.
func Reduce(s Session, ev Event) (Session, Effect) {
	switch e := ev.(type) {
	case SubmitFile:
		return submit(s, e)

	case DragEnter, DragOver:
		s.DragActive = true
		return s, nil

	case DragLeave:
		s.DragActive = false
		return s, nil

	case Drop:
		s.DragActive = false
		if len(e.Files) == 0 {
			return s, nil
		}
		return submit(s, SubmitFile{File: e.Files[0]})

	case PreviewReady:
		if e.Generation != s.Generation || s.File == nil {
			return s, nil
		}
		p := e.Preview
		s.Preview = &p
		s.PreviewErr = nil
		return s, nil

	case PreviewFailed:
		if e.Generation != s.Generation || s.File == nil {
			return s, nil
		}
		s.Preview = nil
		s.PreviewErr = e.Err
		return s, nil

	case AnalyzeRequested:
		if !s.CanAnalyze() {
			return s, nil
		}
		s.Status = StatusPending
		s.RequestID = e.RequestID
		s.Result = nil
		s.Err = nil
		s.Notice = Notice{}
		return s, RunAnalysis{Generation: s.Generation, RequestID: e.RequestID, File: *s.File}

	case AnalysisSucceeded:
		if !s.awaiting(e.Generation, e.RequestID) {
			return s, nil
		}
		r := e.Result
		s.Status = StatusCompleted
		s.Result = &r
		s.Err = nil
		return s, nil

	case AnalysisFailed:
		if !s.awaiting(e.Generation, e.RequestID) {
			return s, nil
		}
		s.Status = StatusFailed
		s.Result = nil
		s.Err = e.Err
		if s.Err == nil {
			s.Err = fmt.Errorf("analysis failed")
		}
		return s, nil

	case ExportRequested:
		if !s.CanExport() {
			return s, nil
		}
		s.Exporting = true
		s.Notice = Notice{}
		name := ""
		if s.File != nil {
			name = s.File.Name
		}
		return s, RunExport{
			Generation: s.Generation,
			RequestID:  s.RequestID,
			SourceName: name,
			Result:     *s.Result,
		}

	case ExportSucceeded:
		if e.Generation != s.Generation || !s.Exporting {
			return s, nil
		}
		d := e.Delivery
		s.Exporting = false
		s.Delivery = &d
		s.Notice = Notice{Kind: NoticeSuccess, Text: "Report saved to " + d.Path}
		return s, nil

	case ExportFailed:
		if e.Generation != s.Generation || !s.Exporting {
			return s, nil
		}
		s.Exporting = false
		s.Notice = Notice{Kind: NoticeError, Text: "Report download failed: " + describe(e.Err)}
		return s, nil

	case Reset:
		return Session{
			DragActive: s.DragActive,
			Generation: s.Generation + 1,
		}, nil

	case InputRejected:
		s.Notice = Notice{Kind: NoticeError, Text: describe(e.Err)}
		return s, nil

	case DismissNotice:
		s.Notice = Notice{}
		return s, nil
	}
	return s, nil
}

func submit(s Session, e SubmitFile) (Session, Effect) {
	if !s.AcceptsFile() {
		return s, nil
	}
	f := e.File
	s.File = &f
	s.Preview = nil
	s.PreviewErr = nil
	s.Status = StatusIdle
	s.Result = nil
	s.Err = nil
	s.RequestID = ""
	s.Exporting = false
	s.Notice = Notice{}
	s.Delivery = nil
	s.Generation++
	if !f.IsImage() {
		return s, nil
	}
	return s, LoadPreview{Generation: s.Generation, File: f}
}

func (s Session) awaiting(generation uint64, requestID string) bool {
	return s.Status == StatusPending && generation == s.Generation && requestID == s.RequestID
}
