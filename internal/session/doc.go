// Package session holds the upload, analysis and report state machine.
//
// # Model
//
// A Session is a plain value. Reduce is a pure function from a Session and
// an Event to the next Session and, optionally, an Effect describing work
// to do (build a preview, call the analysis service, fetch and save a
// report). Reduce never performs I/O.
//
// The Controller owns the single live Session behind a mutex. Each public
// method feeds an Event through Reduce and turns the Effect into a Task, a
// closure that performs the work and returns exactly one completion Event.
// The caller decides where the Task runs: the terminal UI wraps it in a
// tea.Cmd, the headless command and the tests call Await.
//
// # Analysis lifecycle
//
//	Idle --analyze--> Pending --ok--> Completed
//	                  Pending --error--> Failed --analyze--> Pending
//	any --reset--> Idle
//
// A failed analysis keeps the selected file so it can be retried. A new
// file is only accepted while Idle or Failed; once a result exists the
// user must reset first.
//
// # Stale completions
//
// Nothing in flight is cancelled. Every file submission and every reset
// bumps Session.Generation, and each analysis carries a RequestID. A
// completion whose generation or request ID no longer matches is dropped,
// so a slow response cannot land in a session that has moved on.
package session
