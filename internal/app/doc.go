// Package app is the composition root for vastavik.
//
// # Overview
//
// This package wires configuration, logging, preferences, the analysis
// client, report delivery and the drop folder watcher into a
// session.Controller, then hands it to the terminal UI. It also offers a
// headless path used by the analyze command.
//
// # Startup
//
//  1. Load ~/.config/vastavik/config.toml (or --config), apply flag overrides
//  2. Open the rotating JSON log file
//  3. Load UI preferences (theme)
//  4. Build the detector client and the local report deliverer, adding the
//     S3 archive and system opener when configured
//  5. Start the drop folder watcher when a drop dir is set
//  6. Run the TUI until the user quits or the context is cancelled
//
// # Drop Folder
//
// StartDropWatcher runs capture.Watcher in a goroutine and forwards its
// gestures on a buffered channel. When the watcher stops with an error it is
// restarted after an exponential backoff (2s doubling, capped at 30s).
//
// # Headless Analysis
//
// Analyze submits one file, waits for the analysis and optionally downloads
// the report, then prints either a text summary or the raw JSON result. A
// failed analysis or report download is returned as an error.
package app
