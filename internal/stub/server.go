package stub

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/five82/vastavik/internal/detector"
)

const (
	processingTime = "0.5 seconds"
	maxUploadBytes = 64 << 20
	maxResultBytes = 4 << 20
)

// Options configures the stub router.
type Options struct {
	// Demo answers every analysis with the fixed sample result.
	Demo     bool
	Detector Detector
	Log      *logrus.Entry
	Now      func() time.Time
}

type server struct {
	demo     bool
	detector Detector
	log      *logrus.Entry
	now      func() time.Time
}

// NewRouter returns the HTTP handler serving /analyze/ and /download-report/.
func NewRouter(opts Options) http.Handler {
	s := &server{demo: opts.Demo, detector: opts.Detector, log: opts.Log, now: opts.Now}
	if s.detector == nil {
		s.detector = HashDetector{}
	}
	if s.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		s.log = logrus.NewEntry(discard)
	}
	if s.now == nil {
		s.now = time.Now
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.Post("/analyze/", s.wrap(s.handleAnalyze))
	mux.Post("/download-report/", s.wrap(s.handleReport))
	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// requestError is a client mistake, answered with 422 and a FastAPI-style
// detail body.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func (s *server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			s.log.WithField("path", req.URL.Path).WithError(err).Info("rejected request")
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": reqErr.msg})
			return
		}
		s.log.WithField("path", req.URL.Path).WithError(err).Error("request failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// POST /analyze/
// Body: multipart form with the upload in field "file".
func (s *server) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	file, header, err := req.FormFile("file")
	if err != nil {
		return &requestError{msg: "field 'file' is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	if s.demo {
		s.log.WithField("file", header.Filename).Info("served demo result")
		return writeJSON(w, http.StatusOK, DemoResult())
	}

	detections := s.detector.Detect(data)
	isDeepfake, confidence := Summarize(detections)
	s.log.WithFields(logrus.Fields{
		"file":        header.Filename,
		"bytes":       len(data),
		"detections":  len(detections),
		"is_deepfake": isDeepfake,
	}).Info("analyzed upload")

	return writeJSON(w, http.StatusOK, map[string]any{
		"isDeepfake":      isDeepfake,
		"confidenceScore": confidence,
		"processingTime":  processingTime,
		"anomalies":       detections,
	})
}

// POST /download-report/
// Body: the analysis result JSON as returned by /analyze/.
func (s *server) handleReport(w http.ResponseWriter, req *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(req.Body, maxResultBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	var result detector.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return &requestError{msg: "body must be an analysis result"}
	}

	pdf, id, err := RenderReport(result, s.now())
	if err != nil {
		return err
	}
	s.log.WithField("report_id", id).Info("rendered report")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="deepfake_report.pdf"`)
	w.Header().Set("X-Report-ID", id)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(pdf)
	return err
}

// DemoResult is the fixed sample result served in demo mode.
func DemoResult() map[string]any {
	return map[string]any{
		"isDeepfake":      true,
		"confidenceScore": 87.5,
		"heatmapUrl":      "/api/placeholder/500/400",
		"originalUrl":     "/api/placeholder/500/400",
		"processingTime":  "2.3 seconds",
		"anomalies": []map[string]any{
			{"region": "Knee Joint", "confidence": 92.4, "description": "Inconsistent texture patterns"},
			{"region": "Upper Knee", "confidence": 85.2, "description": "Abnormal edge characteristics"},
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
