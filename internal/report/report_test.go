package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/five82/vastavik/internal/detector"
)

type fakeArchive struct {
	calls []string
	err   error
}

func (f *fakeArchive) Upload(_ context.Context, localPath, key string) (string, error) {
	f.calls = append(f.calls, localPath+"|"+key)
	if f.err != nil {
		return "", f.err
	}
	return "http://archive/" + key, nil
}

func sampleRequest() Request {
	return Request{
		RequestID:  "abc-123",
		SourceName: "knee.jpg",
		Result: detector.AnalysisResult{
			IsDeepfake:      true,
			ConfidenceScore: 87.5,
			ProcessingTime:  "2.3 seconds",
			Anomalies: []detector.Anomaly{
				{Region: "Knee Joint", Confidence: 92.4, Description: "Inconsistent texture patterns"},
			},
		},
		Artifact: []byte("%PDF-1.4 report"),
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestDeliver_WritesFixedNameAndOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Downloads")
	d := &LocalDeliverer{Dir: dir}

	delivery, err := d.Deliver(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if delivery.Path != filepath.Join(dir, ReportFileName) {
		t.Fatalf("Path = %q", delivery.Path)
	}

	req := sampleRequest()
	req.Artifact = []byte("second")
	if _, err := d.Deliver(context.Background(), req); err != nil {
		t.Fatalf("second Deliver returned error: %v", err)
	}
	data, err := os.ReadFile(delivery.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("report = %q, want overwritten content", data)
	}
	if names := listDir(t, dir); len(names) != 1 || names[0] != ReportFileName {
		t.Fatalf("dir = %v, want only %s", names, ReportFileName)
	}
	info, err := os.Stat(delivery.Path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Fatalf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestDeliver_EmptyArtifact(t *testing.T) {
	d := &LocalDeliverer{Dir: t.TempDir()}
	req := sampleRequest()
	req.Artifact = nil
	if _, err := d.Deliver(context.Background(), req); err == nil {
		t.Fatalf("Deliver returned nil error for empty artifact")
	}
}

func TestDeliver_RenameFailureLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, ReportFileName)
	if err := os.MkdirAll(filepath.Join(blocker, "child"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	d := &LocalDeliverer{Dir: dir}
	if _, err := d.Deliver(context.Background(), sampleRequest()); err == nil {
		t.Fatalf("Deliver returned nil error, want rename failure")
	}
	for _, name := range listDir(t, dir) {
		if strings.HasSuffix(name, ".tmp") {
			t.Fatalf("temp file %q left behind", name)
		}
	}
}

func TestDeliver_WritesSummary(t *testing.T) {
	dir := t.TempDir()
	d := &LocalDeliverer{Dir: dir, WriteSummary: true, now: fixedClock}

	delivery, err := d.Deliver(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if delivery.SummaryPath != filepath.Join(dir, SummaryFileName) {
		t.Fatalf("SummaryPath = %q", delivery.SummaryPath)
	}
	data, err := os.ReadFile(delivery.SummaryPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var got Summary
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if got.RequestID != "abc-123" || got.Source != "knee.jpg" || got.Report != ReportFileName {
		t.Fatalf("summary = %#v", got)
	}
	if got.Verdict != "Potential Deepfake Detected!" || got.ConfidenceScore != 87.5 {
		t.Fatalf("summary verdict = %#v", got)
	}
	if len(got.Anomalies) != 1 || got.Anomalies[0].Region != "Knee Joint" {
		t.Fatalf("summary anomalies = %#v", got.Anomalies)
	}
	if !got.GeneratedAt.Equal(fixedClock()) {
		t.Fatalf("GeneratedAt = %v", got.GeneratedAt)
	}
}

func TestDeliver_ArchivesAndOpens(t *testing.T) {
	dir := t.TempDir()
	archive := &fakeArchive{}
	var opened string
	d := &LocalDeliverer{
		Dir:     dir,
		Archive: archive,
		Opener:  func(path string) error { opened = path; return nil },
		now:     fixedClock,
	}

	delivery, err := d.Deliver(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	wantKey := "reports/2026-05-04/abc-123.pdf"
	if len(archive.calls) != 1 || archive.calls[0] != delivery.Path+"|"+wantKey {
		t.Fatalf("archive calls = %v", archive.calls)
	}
	if delivery.ArchiveURL != "http://archive/"+wantKey {
		t.Fatalf("ArchiveURL = %q", delivery.ArchiveURL)
	}
	if opened != delivery.Path {
		t.Fatalf("opened = %q, want %q", opened, delivery.Path)
	}
}

func TestDeliver_ArchiveAndOpenFailuresAreNotFatal(t *testing.T) {
	d := &LocalDeliverer{
		Dir:     t.TempDir(),
		Archive: &fakeArchive{err: errors.New("bucket gone")},
		Opener:  func(string) error { return errors.New("no viewer") },
	}
	delivery, err := d.Deliver(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if delivery.ArchiveURL != "" {
		t.Fatalf("ArchiveURL = %q, want empty", delivery.ArchiveURL)
	}
}

func TestArchiveKey(t *testing.T) {
	if got := ArchiveKey(fixedClock(), "id-1"); got != "reports/2026-05-04/id-1.pdf" {
		t.Fatalf("ArchiveKey = %q", got)
	}
	if got := ArchiveKey(fixedClock(), " "); !strings.HasPrefix(got, "reports/2026-05-04/report-") {
		t.Fatalf("ArchiveKey without id = %q", got)
	}
}

func TestNewMinioArchive_RequiresEndpointAndBucket(t *testing.T) {
	if _, err := NewMinioArchive(context.Background(), ArchiveConfig{Bucket: "b"}); err == nil {
		t.Fatalf("NewMinioArchive returned nil error without endpoint")
	}
}
