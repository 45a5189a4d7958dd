package detector

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/five82/vastavik/internal/capture"
)

const scenarioPayload = `{
  "isDeepfake": true,
  "confidenceScore": 87.5,
  "processingTime": "2.3 seconds",
  "anomalies": [
    {"region": "Knee Joint", "confidence": 92.4, "description": "Inconsistent texture patterns"}
  ]
}`

func scenarioResult() AnalysisResult {
	return AnalysisResult{
		IsDeepfake:      true,
		ConfidenceScore: 87.5,
		ProcessingTime:  "2.3 seconds",
		Anomalies: []Anomaly{
			{Region: "Knee Joint", Confidence: 92.4, Description: "Inconsistent texture patterns"},
		},
	}
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultAPIBase {
		t.Fatalf("url = %q, want %q", u.String(), defaultAPIBase)
	}

	u, err = parseBaseURL("10.0.0.5:8000/ignored?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "10.0.0.5:8000" || u.Path != "" || u.RawQuery != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL(http://) returned nil error, want missing host")
	}
}

func TestClient_AnalyzeSendsMultipartAndDecodes(t *testing.T) {
	t.Parallel()

	var (
		gotFilename  string
		gotPartType  string
		gotContent   string
		gotRequestID string
		gotUserAgent string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != analyzePath || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		gotRequestID = r.Header.Get("X-Request-ID")
		gotUserAgent = r.Header.Get("User-Agent")
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotFilename = header.Filename
		gotPartType = header.Header.Get("Content-Type")
		gotContent = string(data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(scenarioPayload))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	f := capture.FromBytes("knee.jpg", "image/jpeg", []byte("jpeg-bytes"))
	got, err := c.Analyze(ctx, f, "req-1")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if !reflect.DeepEqual(got, scenarioResult()) {
		t.Fatalf("Analyze = %#v, want %#v", got, scenarioResult())
	}
	if gotFilename != "knee.jpg" || gotPartType != "image/jpeg" || gotContent != "jpeg-bytes" {
		t.Fatalf("multipart part = (%q, %q, %q), want knee.jpg image/jpeg jpeg-bytes", gotFilename, gotPartType, gotContent)
	}
	if gotRequestID != "req-1" {
		t.Fatalf("X-Request-ID = %q, want req-1", gotRequestID)
	}
	if !strings.HasPrefix(gotUserAgent, "vastavik/") {
		t.Fatalf("User-Agent = %q, want vastavik/*", gotUserAgent)
	}
}

func TestClient_AnalyzeErrorsAreClassified(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("X-Request-ID") {
		case "status":
			http.Error(w, "model exploded", http.StatusInternalServerError)
		case "garbage":
			_, _ = w.Write([]byte("{not-json"))
		case "range":
			_, _ = w.Write([]byte(`{"isDeepfake":false,"confidenceScore":140,"processingTime":"1s","anomalies":[]}`))
		case "null":
			_, _ = w.Write([]byte(`null`))
		case "empty":
			_, _ = w.Write([]byte(`{}`))
		case "no-verdict":
			_, _ = w.Write([]byte(`{"anomalies":null}`))
		case "null-score":
			_, _ = w.Write([]byte(`{"isDeepfake":false,"confidenceScore":null}`))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	f := capture.FromBytes("knee.png", "image/png", []byte("x"))

	_, err = c.Analyze(context.Background(), f, "status")
	var status *StatusError
	var network *NetworkError
	if !errors.As(err, &status) || !errors.As(err, &network) {
		t.Fatalf("status error = %v, want *StatusError inside *NetworkError", err)
	}
	if status.StatusCode != http.StatusInternalServerError || status.Body != "model exploded" {
		t.Fatalf("StatusError = %#v, want 500 with body", status)
	}

	var parse *ParseError
	if _, err = c.Analyze(context.Background(), f, "garbage"); !errors.As(err, &parse) {
		t.Fatalf("garbage error = %v, want *ParseError", err)
	}
	if _, err = c.Analyze(context.Background(), f, "range"); !errors.As(err, &parse) {
		t.Fatalf("range error = %v, want *ParseError", err)
	}

	for _, id := range []string{"null", "empty", "no-verdict", "null-score"} {
		result, err := c.Analyze(context.Background(), f, id)
		if !errors.As(err, &parse) {
			t.Fatalf("%s: error = %v result = %#v, want *ParseError", id, err, result)
		}
		if parse.Op != "validate response" {
			t.Fatalf("%s: ParseError.Op = %q, want validate response", id, parse.Op)
		}
	}
}

type failingTransport struct{ calls int }

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.calls++
	return nil, errors.New("connection reset by peer")
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	rt := &failingTransport{}
	c, err := NewClient("http://detector.invalid:8000", WithTransport(rt))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	f := capture.FromBytes("knee.png", "image/png", []byte("x"))

	var network *NetworkError
	if _, err := c.Analyze(context.Background(), f, ""); !errors.As(err, &network) {
		t.Fatalf("Analyze error = %v, want *NetworkError", err)
	}
	if _, err := c.DownloadReport(context.Background(), AnalysisResult{}); !errors.As(err, &network) {
		t.Fatalf("DownloadReport error = %v, want *NetworkError", err)
	}
	if rt.calls != 2 {
		t.Fatalf("transport calls = %d, want 2", rt.calls)
	}
}

func TestClient_AnalyzeUnreachableIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Analyze(context.Background(), capture.FromBytes("a.png", "image/png", []byte("x")), "")
	var network *NetworkError
	if !errors.As(err, &network) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if got := Describe(err); !strings.Contains(got, "Could not reach") {
		t.Fatalf("Describe = %q, want unreachable message", got)
	}
}

func TestClient_DownloadReportPostsFullResult(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != reportPath {
			http.NotFound(w, r)
			return
		}
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, WithReportTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(`{"isDeepfake":true,"confidenceScore":87.5,"processingTime":"2.3 seconds","anomalies":[],"heatmapUrl":"/api/placeholder/500/400"}`), &result); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	artifact, err := c.DownloadReport(context.Background(), result)
	if err != nil {
		t.Fatalf("DownloadReport returned error: %v", err)
	}
	if string(artifact) != "%PDF-1.4 fake" {
		t.Fatalf("artifact = %q", artifact)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotBody["heatmapUrl"] != "/api/placeholder/500/400" || gotBody["confidenceScore"] != 87.5 {
		t.Fatalf("report body = %#v, want full result including extra keys", gotBody)
	}
}

func TestClient_DownloadReportEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	var parse *ParseError
	if _, err := c.DownloadReport(context.Background(), scenarioResult()); !errors.As(err, &parse) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestNilClient(t *testing.T) {
	var c *Client
	if _, err := c.Analyze(context.Background(), capture.File{}, ""); err == nil {
		t.Fatalf("Analyze on nil client returned nil error")
	}
	if _, err := c.DownloadReport(context.Background(), AnalysisResult{}); err == nil {
		t.Fatalf("DownloadReport on nil client returned nil error")
	}
}
