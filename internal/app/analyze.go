package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/five82/vastavik/internal/capture"
	"github.com/five82/vastavik/internal/detector"
	"github.com/five82/vastavik/internal/logging"
	"github.com/five82/vastavik/internal/session"
)

// AnalyzeOptions configure a headless analysis.
type AnalyzeOptions struct {
	ConfigPath string
	APIBase    string
	Path       string
	Report     bool // also download the report
	JSON       bool // print the raw result instead of a summary
}

// Analyze runs one upload, analysis and optional report download without the
// TUI and writes the outcome to w.
func Analyze(ctx context.Context, opts AnalyzeOptions, w io.Writer) error {
	cfg, err := loadConfig(Options{ConfigPath: opts.ConfigPath, APIBase: opts.APIBase})
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	ctrl, err := newController(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return runHeadless(ctx, ctrl, opts, w)
}

func runHeadless(ctx context.Context, ctrl *session.Controller, opts AnalyzeOptions, w io.Writer) error {
	f, err := capture.FromPath(opts.Path)
	if err != nil {
		return err
	}
	ctrl.Await(ctx, ctrl.SubmitFile(ctx, f))
	ctrl.Await(ctx, ctrl.Analyze(ctx))

	s := ctrl.Snapshot()
	if s.Status == session.StatusFailed {
		return fmt.Errorf("analysis failed: %s", detector.Describe(s.Err))
	}
	if s.Result == nil {
		return fmt.Errorf("analysis did not complete")
	}

	if opts.Report {
		ctrl.Await(ctx, ctrl.ExportReport(ctx))
		s = ctrl.Snapshot()
	}

	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.Result); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	} else {
		writeSummary(w, s)
	}

	if opts.Report && s.Delivery == nil {
		return errors.New(s.Notice.Text)
	}
	return nil
}

// writeSummary prints a plain-text rendering of the result panel.
func writeSummary(w io.Writer, s session.Session) {
	r := s.Result
	var b strings.Builder
	if s.File != nil {
		fmt.Fprintf(&b, "File: %s (%s)\n", s.File.Name, s.File.SizeLabel())
	}
	fmt.Fprintf(&b, "Verdict: %s\n", r.Verdict())
	fmt.Fprintf(&b, "Confidence Score: %g%%\n", r.ConfidenceScore)
	b.WriteString("Detected Anomalies:\n")
	if len(r.Anomalies) == 0 {
		b.WriteString("  none\n")
	}
	for _, a := range r.Anomalies {
		fmt.Fprintf(&b, "  - %s (Confidence: %g%%)\n", a.Region, a.Confidence)
		if a.Description != "" {
			fmt.Fprintf(&b, "    %s\n", a.Description)
		}
	}
	if r.ProcessingTime != "" {
		fmt.Fprintf(&b, "Processing time: %s\n", r.ProcessingTime)
	}
	if s.Delivery != nil {
		fmt.Fprintf(&b, "Report saved to %s\n", s.Delivery.Path)
		if s.Delivery.ArchiveURL != "" {
			fmt.Fprintf(&b, "Report archived at %s\n", s.Delivery.ArchiveURL)
		}
	}
	_, _ = io.WriteString(w, b.String())
}
