package capture

import "fmt"

// InputError reports a path that could not be turned into a File.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("cannot use %q: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
