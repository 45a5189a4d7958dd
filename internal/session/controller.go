package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/five82/vastavik/internal/capture"
	"github.com/five82/vastavik/internal/detector"
	"github.com/five82/vastavik/internal/preview"
	"github.com/five82/vastavik/internal/report"
)

// Task is deferred work produced by a transition. Running it always yields
// exactly one completion Event, which goes back through Apply.
type Task func() Event

// Previewer builds image previews.
type Previewer interface {
	Build(ctx context.Context, f capture.File) (preview.Preview, error)
}

// Options wires a Controller to its collaborators.
type Options struct {
	Service      detector.Service
	Deliverer    report.Deliverer
	Previewer    Previewer
	NewRequestID func() string
	Logger       *logrus.Logger
}

// Controller owns one Session and serialises every change to it.
type Controller struct {
	mu      sync.Mutex
	session Session

	service   detector.Service
	deliverer report.Deliverer
	previewer Previewer
	newID     func() string
	log       *logrus.Entry
}

// NewController returns a Controller holding an idle Session.
func NewController(opts Options) *Controller {
	previewer := opts.Previewer
	if previewer == nil {
		previewer = preview.DefaultBuilder
	}
	newID := opts.NewRequestID
	if newID == nil {
		newID = uuid.NewString
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Controller{
		service:   opts.Service,
		deliverer: opts.Deliverer,
		previewer: previewer,
		newID:     newID,
		log:       logger.WithField("component", "session"),
	}
}

// Snapshot returns a copy of the current Session.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Clone()
}

// Apply feeds ev through Reduce and returns the task for any resulting
// effect.
func (c *Controller) Apply(ctx context.Context, ev Event) Task {
	c.mu.Lock()
	before := c.session
	next, effect := Reduce(c.session, ev)
	c.session = next
	c.mu.Unlock()

	c.logTransition(ev, before, next)
	return c.taskFor(ctx, effect)
}

// SubmitFile selects f and returns the preview task for images.
func (c *Controller) SubmitFile(ctx context.Context, f capture.File) Task {
	return c.Apply(ctx, SubmitFile{File: f})
}

// SubmitPaths resolves paths from a picker or drop payload. The first valid
// file is submitted; when none resolves the failure becomes a notice.
func (c *Controller) SubmitPaths(ctx context.Context, paths []string) Task {
	files, err := capture.FromPaths(paths)
	if len(files) == 0 {
		if err == nil {
			return nil
		}
		return c.Apply(ctx, InputRejected{Err: err})
	}
	if err != nil {
		c.log.WithError(err).Debug("ignored unreadable dropped path")
	}
	return c.Apply(ctx, Drop{Files: files})
}

// DragEnter marks a drag hovering the drop target.
func (c *Controller) DragEnter() { c.Apply(context.Background(), DragEnter{}) }

// DragOver keeps the drop target highlighted.
func (c *Controller) DragOver() { c.Apply(context.Background(), DragOver{}) }

// DragLeave clears the drop highlight.
func (c *Controller) DragLeave() { c.Apply(context.Background(), DragLeave{}) }

// Drop ends a drag gesture and submits the first file.
func (c *Controller) Drop(ctx context.Context, files []capture.File) Task {
	return c.Apply(ctx, Drop{Files: files})
}

// Analyze starts an analysis of the selected file. It returns nil when there
// is no file or one is already pending.
func (c *Controller) Analyze(ctx context.Context) Task {
	if !c.Snapshot().CanAnalyze() {
		return nil
	}
	return c.Apply(ctx, AnalyzeRequested{RequestID: c.newID()})
}

// ExportReport requests the report for the current result.
func (c *Controller) ExportReport(ctx context.Context) Task {
	return c.Apply(ctx, ExportRequested{})
}

// Reset clears the Session. Work still in flight completes into a newer
// generation and is dropped.
func (c *Controller) Reset() {
	c.Apply(context.Background(), Reset{})
}

// Await runs task and every follow-up task inline until none remain.
func (c *Controller) Await(ctx context.Context, task Task) {
	for task != nil {
		task = c.Apply(ctx, task())
	}
}

func (c *Controller) taskFor(ctx context.Context, effect Effect) Task {
	switch e := effect.(type) {
	case LoadPreview:
		return c.previewTask(ctx, e)
	case RunAnalysis:
		return c.analysisTask(ctx, e)
	case RunExport:
		return c.exportTask(ctx, e)
	default:
		return nil
	}
}

func (c *Controller) previewTask(ctx context.Context, e LoadPreview) Task {
	previewer := c.previewer
	return func() (ev Event) {
		defer recoverInto(&ev, func(err error) Event {
			return PreviewFailed{Generation: e.Generation, Err: err}
		})
		p, err := previewer.Build(ctx, e.File)
		if err != nil {
			return PreviewFailed{Generation: e.Generation, Err: err}
		}
		return PreviewReady{Generation: e.Generation, Preview: p}
	}
}

func (c *Controller) analysisTask(ctx context.Context, e RunAnalysis) Task {
	service := c.service
	log := c.log.WithFields(logrus.Fields{"request_id": e.RequestID, "file": e.File.Name})
	return func() (ev Event) {
		defer recoverInto(&ev, func(err error) Event {
			return AnalysisFailed{Generation: e.Generation, RequestID: e.RequestID, Err: err}
		})
		if service == nil {
			return AnalysisFailed{Generation: e.Generation, RequestID: e.RequestID, Err: errors.New("analysis service not configured")}
		}
		log.Info("analysis started")
		result, err := service.Analyze(ctx, e.File, e.RequestID)
		if err != nil {
			log.WithError(err).Warn("analysis failed")
			return AnalysisFailed{Generation: e.Generation, RequestID: e.RequestID, Err: err}
		}
		log.WithFields(logrus.Fields{
			"is_deepfake": result.IsDeepfake,
			"confidence":  result.ConfidenceScore,
			"anomalies":   len(result.Anomalies),
		}).Info("analysis completed")
		return AnalysisSucceeded{Generation: e.Generation, RequestID: e.RequestID, Result: result}
	}
}

func (c *Controller) exportTask(ctx context.Context, e RunExport) Task {
	service := c.service
	deliverer := c.deliverer
	log := c.log.WithField("request_id", e.RequestID)
	return func() (ev Event) {
		defer recoverInto(&ev, func(err error) Event {
			return ExportFailed{Generation: e.Generation, Err: err}
		})
		if service == nil || deliverer == nil {
			return ExportFailed{Generation: e.Generation, Err: errors.New("report export not configured")}
		}
		artifact, err := service.DownloadReport(ctx, e.Result)
		if err != nil {
			log.WithError(err).Warn("report download failed")
			return ExportFailed{Generation: e.Generation, Err: err}
		}
		delivery, err := deliverer.Deliver(ctx, report.Request{
			RequestID:  e.RequestID,
			SourceName: e.SourceName,
			Result:     e.Result,
			Artifact:   artifact,
		})
		if err != nil {
			log.WithError(err).Warn("report delivery failed")
			return ExportFailed{Generation: e.Generation, Err: err}
		}
		return ExportSucceeded{Generation: e.Generation, Delivery: delivery}
	}
}

func recoverInto(ev *Event, fail func(error) Event) {
	if r := recover(); r != nil {
		*ev = fail(fmt.Errorf("task panicked: %v", r))
	}
}

func (c *Controller) logTransition(ev Event, before, after Session) {
	if before.Status == after.Status && before.Generation == after.Generation {
		return
	}
	c.log.WithFields(logrus.Fields{
		"event":      fmt.Sprintf("%T", ev),
		"from":       before.Status.String(),
		"to":         after.Status.String(),
		"generation": after.Generation,
		"request_id": after.RequestID,
	}).Debug("session transition")
}

func describe(err error) string {
	if err == nil {
		return "unknown error"
	}
	return detector.Describe(err)
}
