// Package logtail reads the tail of the vastavik log file for the activity
// view.
//
// # Reading
//
// Read extracts the last N lines from a file with a ring buffer, so memory
// stays at O(maxLines) regardless of file size. A missing file yields no
// lines and no error, since the log is created lazily on first write.
//
//	lines, err := logtail.Read(path, 400)
//
// # Parsing
//
// The logging package writes one JSON object per line (logrus JSON
// formatter). Parse turns such a line into an Entry with the timestamp, the
// level, the message and the remaining fields as strings:
//
//	{"level":"info","msg":"analysis completed","request_id":"…","time":"2026-01-02T15:04:05Z"}
//
// Lines that are not JSON are kept verbatim in Entry.Message so nothing is
// lost when the file was written by something else.
//
// Tail combines both and skips blank lines.
package logtail
