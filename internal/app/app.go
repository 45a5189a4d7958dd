package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/vastavik/internal/capture"
	"github.com/five82/vastavik/internal/config"
	"github.com/five82/vastavik/internal/detector"
	"github.com/five82/vastavik/internal/logging"
	"github.com/five82/vastavik/internal/prefs"
	"github.com/five82/vastavik/internal/report"
	"github.com/five82/vastavik/internal/session"
	"github.com/five82/vastavik/internal/ui"
)

// Options configure the vastavik application.
type Options struct {
	ConfigPath string
	PrefsPath  string   // empty uses default ~/.config/vastavik/prefs.toml
	Files      []string // submitted on start, first valid one wins
	DropDir    string   // overrides drop_dir from the config file
	APIBase    string   // overrides api_base from the config file
}

// Run boots the vastavik TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.WithError(err).Warn("could not load preferences, using defaults")
	}

	ctrl, err := newController(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var gestures <-chan capture.Gesture
	if cfg.DropDir != "" {
		watcher, err := capture.NewWatcher(cfg.DropDir, capture.DefaultSettle, logger.WithField("component", "app"))
		if err != nil {
			return fmt.Errorf("init drop folder: %w", err)
		}
		gestures = StartDropWatcher(ctx, watcher, logger.WithField("component", "app"))
	}

	logger.WithFields(logrus.Fields{
		"api_base":     cfg.APIBase,
		"download_dir": cfg.DownloadDir,
		"drop_dir":     cfg.DropDir,
	}).Info("vastavik started")

	err = ui.Run(ui.Options{
		Context:      ctx,
		Controller:   ctrl,
		Gestures:     gestures,
		InitialPaths: opts.Files,
		ThemeName:    userPrefs.Theme,
		PrefsPath:    opts.PrefsPath,
		StartDir:     userPrefs.PickerDir,
		LogFile:      cfg.LogFile,
		APIBase:      cfg.APIBase,
		DropDir:      cfg.DropDir,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	logger.Info("vastavik stopped")
	return err
}

func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.APIBase != "" {
		cfg.APIBase = opts.APIBase
	}
	if opts.DropDir != "" {
		dir, err := config.ExpandPath(opts.DropDir)
		if err != nil {
			return config.Config{}, fmt.Errorf("drop dir: %w", err)
		}
		cfg.DropDir = dir
	}
	return cfg, nil
}

// newController wires the analysis client and report delivery into a
// session controller.
func newController(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*session.Controller, error) {
	client, err := detector.NewClient(cfg.APIBase, detector.WithReportTimeout(cfg.ReportTimeout))
	if err != nil {
		return nil, fmt.Errorf("init analysis client: %w", err)
	}

	deliverer := &report.LocalDeliverer{
		Dir:          cfg.DownloadDir,
		WriteSummary: cfg.WriteSummary,
		Log:          logger.WithField("component", "report"),
	}
	if cfg.OpenReports {
		deliverer.Opener = report.SystemOpener()
	}
	if cfg.Archive.Enabled() {
		archive, err := report.NewMinioArchive(ctx, report.ArchiveConfig{
			Endpoint:  cfg.Archive.Endpoint,
			Bucket:    cfg.Archive.Bucket,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			logger.WithError(err).Warn("report archive unavailable")
		} else {
			deliverer.Archive = archive
		}
	}

	return session.NewController(session.Options{
		Service:   client,
		Deliverer: deliverer,
		Logger:    logger,
	}), nil
}
