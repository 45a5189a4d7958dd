// Package config loads the vastavik client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/vastavik/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//  5. VASTAVIK_API_BASE and VASTAVIK_DOWNLOAD_DIR override the result
//
// # Default Values
//
//   - Analysis service: http://127.0.0.1:8000
//   - Report directory: ~/Downloads
//   - Report request timeout: 30 seconds
//   - Log file: ~/.local/state/vastavik/vastavik.log
//   - Drop folder: none
//
// # TOML Format
//
//	api_base = "http://127.0.0.1:8000"
//	download_dir = "~/Downloads"
//	report_timeout_seconds = 30
//	drop_dir = "~/Dropbox/scans"
//	log_file = "~/.local/state/vastavik/vastavik.log"
//	log_level = "info"
//	write_summary = false
//	open_reports = false
//
//	[archive]
//	endpoint = "minio.internal:9000"
//	bucket = "deepfake-reports"
//	region = ""
//	access_key = "..."
//	secret_key = "..."
//	use_ssl = true
//
// Every field is optional. Tilde expansion is applied to download_dir,
// drop_dir and log_file. The archive is only used when both endpoint and
// bucket are set.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors and a negative report timeout. A missing
// file is not an error.
package config
