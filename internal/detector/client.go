package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/five82/vastavik/internal/capture"
)

// Service is the remote analysis collaborator. It is implemented by *Client
// and faked in tests.
type Service interface {
	Analyze(ctx context.Context, f capture.File, requestID string) (AnalysisResult, error)
	DownloadReport(ctx context.Context, result AnalysisResult) ([]byte, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the analysis service HTTP API.
type Client struct {
	baseURL     *url.URL
	analyzeHTTP *http.Client
	reportHTTP  *http.Client
	userAgent   string
}

const (
	defaultAPIBase       = "http://127.0.0.1:8000"
	defaultUserAgent     = "vastavik/0.1"
	defaultReportTimeout = 30 * time.Second

	analyzePath = "/analyze/"
	reportPath  = "/download-report/"

	maxResultBytes = 4 << 20
	maxReportBytes = 256 << 20
	errorBodyLimit = 512
)

// Option customises a Client.
type Option func(*Client)

// WithReportTimeout bounds report generation requests. Analysis requests are
// never timed out by the client; they end with the context.
func WithReportTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.reportHTTP.Timeout = d
		}
	}
}

// WithTransport swaps the HTTP transport for both endpoints.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.analyzeHTTP.Transport = rt
		c.reportHTTP.Transport = rt
	}
}

// NewClient builds a Client for apiBase, a URL or host:port.
func NewClient(apiBase string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:     base,
		analyzeHTTP: &http.Client{},
		reportHTTP:  &http.Client{Timeout: defaultReportTimeout},
		userAgent:   defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client targets.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

// Analyze uploads f as the multipart field "file" and decodes the result.
func (c *Client) Analyze(ctx context.Context, f capture.File, requestID string) (AnalysisResult, error) {
	if c == nil {
		return AnalysisResult{}, fmt.Errorf("client is nil")
	}
	body, contentType, err := multipartBody(f)
	if err != nil {
		return AnalysisResult{}, err
	}

	req, err := c.newRequest(ctx, analyzePath, body)
	if err != nil {
		return AnalysisResult{}, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	payload, err := c.execute(c.analyzeHTTP, req, "analyze", maxResultBytes)
	if err != nil {
		return AnalysisResult{}, err
	}

	var result AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return AnalysisResult{}, &ParseError{Op: "decode response", Err: err}
	}
	if err := requireResultShape(payload); err != nil {
		return AnalysisResult{}, &ParseError{Op: "validate response", Err: err}
	}
	if err := result.Validate(); err != nil {
		return AnalysisResult{}, &ParseError{Op: "validate response", Err: err}
	}
	return result, nil
}

// DownloadReport posts result as JSON and returns the generated artifact.
func (c *Client) DownloadReport(ctx context.Context, result AnalysisResult) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	req, err := c.newRequest(ctx, reportPath, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf, application/octet-stream")

	artifact, err := c.execute(c.reportHTTP, req, "download report", maxReportBytes)
	if err != nil {
		return nil, err
	}
	if len(artifact) == 0 {
		return nil, &ParseError{Op: "download report", Err: fmt.Errorf("empty report body")}
	}
	return artifact, nil
}

func (c *Client) newRequest(ctx context.Context, path string, body io.Reader) (*http.Request, error) {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

func (c *Client) execute(hc *http.Client, req *http.Request, op string, limit int64) ([]byte, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, &NetworkError{Op: op, Err: &StatusError{
			Endpoint:   req.URL.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if int64(len(data)) > limit {
		return nil, &ParseError{Op: op, Err: fmt.Errorf("response larger than %d bytes", limit)}
	}
	return data, nil
}

func multipartBody(f capture.File) (io.Reader, string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
	mediaType := f.MediaType
	if strings.TrimSpace(mediaType) == "" {
		mediaType = "application/octet-stream"
	}
	header.Set("Content-Type", mediaType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return nil, "", fmt.Errorf("read %s: %w", f.Name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base %q: missing host", apiBase)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
