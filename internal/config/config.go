package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the client settings for vastavik.
type Config struct {
	APIBase       string
	DownloadDir   string
	ReportTimeout time.Duration
	DropDir       string
	LogFile       string
	LogLevel      string
	WriteSummary  bool
	OpenReports   bool
	Archive       Archive
}

// Archive configures the optional S3-compatible report archive. It is
// disabled unless both Endpoint and Bucket are set.
type Archive struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Enabled reports whether an archive target is configured.
func (a Archive) Enabled() bool {
	return strings.TrimSpace(a.Endpoint) != "" && strings.TrimSpace(a.Bucket) != ""
}

const (
	defaultConfigPath    = "~/.config/vastavik/config.toml"
	defaultAPIBase       = "http://127.0.0.1:8000"
	defaultDownloadDir   = "~/Downloads"
	defaultLogFile       = "~/.local/state/vastavik/vastavik.log"
	defaultLogLevel      = "info"
	defaultReportTimeout = 30 * time.Second

	envAPIBase     = "VASTAVIK_API_BASE"
	envDownloadDir = "VASTAVIK_DOWNLOAD_DIR"
)

type rawConfig struct {
	APIBase              string `toml:"api_base"`
	DownloadDir          string `toml:"download_dir"`
	ReportTimeoutSeconds int    `toml:"report_timeout_seconds"`
	DropDir              string `toml:"drop_dir"`
	LogFile              string `toml:"log_file"`
	LogLevel             string `toml:"log_level"`
	WriteSummary         bool   `toml:"write_summary"`
	OpenReports          bool   `toml:"open_reports"`
	Archive              struct {
		Endpoint  string `toml:"endpoint"`
		Bucket    string `toml:"bucket"`
		Region    string `toml:"region"`
		AccessKey string `toml:"access_key"`
		SecretKey string `toml:"secret_key"`
		UseSSL    bool   `toml:"use_ssl"`
	} `toml:"archive"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBase:       defaultAPIBase,
		DownloadDir:   mustExpand(defaultDownloadDir),
		ReportTimeout: defaultReportTimeout,
		LogFile:       mustExpand(defaultLogFile),
		LogLevel:      defaultLogLevel,
	}
}

// Load reads the config file at path (or the default location), falling back
// to defaults when it is missing. Environment overrides apply last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(raw.DownloadDir); v != "" {
		cfg.DownloadDir = mustExpand(v)
	}
	if raw.ReportTimeoutSeconds < 0 {
		return Config{}, fmt.Errorf("parse config: report_timeout_seconds must not be negative")
	}
	if raw.ReportTimeoutSeconds > 0 {
		cfg.ReportTimeout = time.Duration(raw.ReportTimeoutSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.DropDir); v != "" {
		cfg.DropDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	cfg.WriteSummary = raw.WriteSummary
	cfg.OpenReports = raw.OpenReports
	cfg.Archive = Archive{
		Endpoint:  strings.TrimSpace(raw.Archive.Endpoint),
		Bucket:    strings.TrimSpace(raw.Archive.Bucket),
		Region:    strings.TrimSpace(raw.Archive.Region),
		AccessKey: strings.TrimSpace(raw.Archive.AccessKey),
		SecretKey: strings.TrimSpace(raw.Archive.SecretKey),
		UseSSL:    raw.Archive.UseSSL,
	}

	applyEnv(&cfg)
	return cfg, nil
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(envAPIBase)); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(os.Getenv(envDownloadDir)); v != "" {
		cfg.DownloadDir = mustExpand(v)
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
