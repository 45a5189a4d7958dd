package stub

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/five82/vastavik/internal/capture"
	"github.com/five82/vastavik/internal/detector"
)

type fixedDetector []Detection

func (f fixedDetector) Detect([]byte) []Detection { return f }

func multipartUpload(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write(data)
	if err := mw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestAnalyze_ReportsLabelsAndAverage(t *testing.T) {
	router := NewRouter(Options{Detector: fixedDetector{
		{Label: "real", Confidence: 70},
		{Label: "Fake", Confidence: 91.4},
	}})

	body, contentType := multipartUpload(t, "file", "knee.jpg", []byte("jpeg"))
	req := httptest.NewRequest(http.MethodPost, "/analyze/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result detector.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !result.IsDeepfake || result.ConfidenceScore != 80.7 || result.ProcessingTime != "0.5 seconds" {
		t.Fatalf("result = %#v", result)
	}
	if len(result.Anomalies) != 2 || result.Anomalies[1].Region != "Fake" {
		t.Fatalf("anomalies = %#v", result.Anomalies)
	}
}

func TestAnalyze_MissingFileIs422(t *testing.T) {
	router := NewRouter(Options{})
	body, contentType := multipartUpload(t, "upload", "knee.jpg", []byte("jpeg"))
	req := httptest.NewRequest(http.MethodPost, "/analyze/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestAnalyze_DemoMode(t *testing.T) {
	router := NewRouter(Options{Demo: true})
	body, contentType := multipartUpload(t, "file", "knee.jpg", []byte("jpeg"))
	req := httptest.NewRequest(http.MethodPost, "/analyze/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var result detector.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if result.ConfidenceScore != 87.5 || len(result.Anomalies) != 2 || result.Anomalies[1].Region != "Upper Knee" {
		t.Fatalf("demo result = %#v", result)
	}
	if _, ok := result.Extra["heatmapUrl"]; !ok {
		t.Fatalf("demo result lost heatmapUrl: %#v", result.Extra)
	}
}

func TestDownloadReport_ReturnsPDF(t *testing.T) {
	router := NewRouter(Options{Now: func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }})
	payload := `{"isDeepfake":true,"confidenceScore":87.5,"processingTime":"2.3 seconds","anomalies":[{"region":"Knee Joint","confidence":92.4,"description":"Inconsistent texture patterns"}]}`
	req := httptest.NewRequest(http.MethodPost, "/download-report/", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("Content-Type = %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("body is not a PDF: %q", rec.Body.Bytes()[:16])
	}
	if rec.Header().Get("X-Report-ID") == "" {
		t.Fatalf("missing X-Report-ID")
	}
}

func TestDownloadReport_BadBodyIs422(t *testing.T) {
	router := NewRouter(Options{})
	req := httptest.NewRequest(http.MethodPost, "/download-report/", strings.NewReader("nope"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := NewRouter(Options{})
	req := httptest.NewRequest(http.MethodOptions, "/analyze/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("missing Access-Control-Allow-Origin; headers %v", rec.Header())
	}
}

func TestHashDetector_Deterministic(t *testing.T) {
	a := HashDetector{}.Detect([]byte("same bytes"))
	b := HashDetector{}.Detect([]byte("same bytes"))
	if len(a) != len(b) {
		t.Fatalf("detections differ: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("detections differ: %v vs %v", a, b)
		}
		if a[i].Confidence < 0 || a[i].Confidence > 100 {
			t.Fatalf("confidence out of range: %v", a[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	if fake, score := Summarize(nil); fake || score != 0 {
		t.Fatalf("Summarize(nil) = %v, %v", fake, score)
	}
	fake, score := Summarize([]Detection{{Label: "real", Confidence: 50}, {Label: "real", Confidence: 60.555}})
	if fake || score != 55.28 {
		t.Fatalf("Summarize = %v, %v", fake, score)
	}
}

func TestClientAgainstStub(t *testing.T) {
	server := httptest.NewServer(NewRouter(Options{Demo: true}))
	t.Cleanup(server.Close)

	client, err := detector.NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()
	result, err := client.Analyze(ctx, capture.FromBytes("knee.png", "image/png", []byte("png")), "req")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	pdf, err := client.DownloadReport(ctx, result)
	if err != nil {
		t.Fatalf("DownloadReport: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("report is not a PDF")
	}
}
