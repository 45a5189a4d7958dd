// Package ui provides the Bubble Tea terminal interface for vastavik.
//
// # Architecture Overview
//
// The Model holds a snapshot of the session and re-reads it after every
// change. All state changes go through a Controller: key presses, pasted
// paths, picker selections and drop folder gestures become controller calls,
// and the tasks those calls return run as tea.Cmds whose results are applied
// back through Controller.Apply. The UI never mutates the session directly.
//
// # Package Structure
//
//   - app.go: Model, Update loop and key handling
//   - messages.go: tea messages and the commands that produce them
//   - views.go: drop zone, upload and results panels, notices, picker
//   - header.go: title bar and command bar
//   - confidence.go: spring-animated confidence bar
//   - about.go: about overlay rendered with glamour
//   - activity.go: activity overlay backed by logtail
//   - help.go, keys.go: key map and help overlay
//   - theme.go, style_helpers.go: color themes and background-safe styling
//
// # Views
//
// The main screen follows the session view:
//
//   - No file: a drop zone. It highlights while a drag hovers the drop folder.
//   - File selected: the upload panel with preview and size, next to the
//     results panel showing idle, pending or failed state.
//   - Result: verdict banner, confidence bar, anomalies, processing time and
//     the report actions.
//
// # Uploading
//
// A file can be chosen with the picker (o), pasted or dropped onto the
// terminal as a path (bracketed paste), passed on the command line, or
// dropped into the configured drop folder.
//
// # Key Bindings
//
//   - o: Select file
//   - a or Enter: Analyze (retry after a failure)
//   - d: Download report
//   - r: Reset
//   - A: About, L: Activity log, ?: Help
//   - esc: Close overlay or dismiss notice
//   - T: Cycle theme (saved to prefs)
//   - q or Ctrl+C: Quit
package ui
