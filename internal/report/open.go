package report

import (
	"io"

	"github.com/pkg/browser"
)

// SystemOpener returns an Opener that hands the saved report to the
// desktop's default viewer. The launcher's own output is discarded so it
// cannot scribble over the terminal UI.
func SystemOpener() func(path string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenFile
}
