package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/five82/vastavik/internal/detector"
)

const (
	// ReportFileName is the fixed name every delivered report is saved under.
	ReportFileName = "deepfake_report.pdf"
	// SummaryFileName is the optional YAML sidecar written next to the report.
	SummaryFileName = "deepfake_report.yaml"
)

// Request is one generated artifact ready to hand to the user.
type Request struct {
	RequestID  string
	SourceName string
	Result     detector.AnalysisResult
	Artifact   []byte
}

// Delivery describes where a report ended up.
type Delivery struct {
	Path        string
	SummaryPath string
	ArchiveURL  string
}

// Deliverer hands a generated report to the user.
type Deliverer interface {
	Deliver(ctx context.Context, req Request) (Delivery, error)
}

// Ensure LocalDeliverer implements Deliverer at compile time.
var _ Deliverer = (*LocalDeliverer)(nil)

// LocalDeliverer saves reports into Dir. Only the report write can fail a
// delivery; summary, archive and open problems are logged.
type LocalDeliverer struct {
	Dir          string
	WriteSummary bool
	Archive      Archiver
	Opener       func(path string) error
	Log          *logrus.Entry

	now func() time.Time
}

// Summary is the YAML sidecar describing the analysed file.
type Summary struct {
	RequestID       string           `yaml:"request_id,omitempty"`
	Source          string           `yaml:"source,omitempty"`
	GeneratedAt     time.Time        `yaml:"generated_at"`
	Verdict         string           `yaml:"verdict"`
	IsDeepfake      bool             `yaml:"is_deepfake"`
	ConfidenceScore float64          `yaml:"confidence_score"`
	ProcessingTime  string           `yaml:"processing_time"`
	Report          string           `yaml:"report"`
	Anomalies       []SummaryAnomaly `yaml:"anomalies"`
}

// SummaryAnomaly is one anomaly row in the sidecar.
type SummaryAnomaly struct {
	Region      string  `yaml:"region"`
	Confidence  float64 `yaml:"confidence"`
	Description string  `yaml:"description,omitempty"`
}

// Deliver writes the artifact to Dir/deepfake_report.pdf, replacing any
// previous report atomically.
func (d *LocalDeliverer) Deliver(ctx context.Context, req Request) (Delivery, error) {
	if d == nil {
		return Delivery{}, errors.New("deliverer is nil")
	}
	if len(req.Artifact) == 0 {
		return Delivery{}, errors.New("report artifact is empty")
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Delivery{}, fmt.Errorf("create download dir: %w", err)
	}

	path, err := writeAtomic(dir, ReportFileName, req.Artifact)
	if err != nil {
		return Delivery{}, fmt.Errorf("save report: %w", err)
	}
	delivery := Delivery{Path: path}
	log := d.logger().WithFields(logrus.Fields{"request_id": req.RequestID, "path": path})
	log.Info("report saved")

	if d.WriteSummary {
		summaryPath, err := d.writeSummary(dir, path, req)
		if err != nil {
			log.WithError(err).Warn("summary not written")
		} else {
			delivery.SummaryPath = summaryPath
		}
	}

	if d.Archive != nil {
		key := ArchiveKey(d.clock(), req.RequestID)
		url, err := d.Archive.Upload(ctx, path, key)
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("report archive failed")
		} else {
			delivery.ArchiveURL = url
			log.WithField("archive_url", url).Info("report archived")
		}
	}

	if d.Opener != nil {
		if err := d.Opener(path); err != nil {
			log.WithError(err).Warn("open report failed")
		}
	}
	return delivery, nil
}

func (d *LocalDeliverer) writeSummary(dir, reportPath string, req Request) (string, error) {
	summary := Summary{
		RequestID:       req.RequestID,
		Source:          req.SourceName,
		GeneratedAt:     d.clock().UTC(),
		Verdict:         req.Result.Verdict(),
		IsDeepfake:      req.Result.IsDeepfake,
		ConfidenceScore: req.Result.ConfidenceScore,
		ProcessingTime:  req.Result.ProcessingTime,
		Report:          filepath.Base(reportPath),
		Anomalies:       make([]SummaryAnomaly, 0, len(req.Result.Anomalies)),
	}
	for _, a := range req.Result.Anomalies {
		summary.Anomalies = append(summary.Anomalies, SummaryAnomaly{
			Region:      a.Region,
			Confidence:  a.Confidence,
			Description: a.Description,
		})
	}
	data, err := yaml.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	return writeAtomic(dir, SummaryFileName, data)
}

func (d *LocalDeliverer) logger() *logrus.Entry {
	if d.Log != nil {
		return d.Log
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return logrus.NewEntry(discard)
}

func (d *LocalDeliverer) clock() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now()
}

// writeAtomic stages data in a temp file beside the target and renames it
// into place. The temp file never outlives the call.
func writeAtomic(dir, name string, data []byte) (string, error) {
	final := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		return "", fmt.Errorf("rename into place: %w", err)
	}
	committed = true
	return final, nil
}
