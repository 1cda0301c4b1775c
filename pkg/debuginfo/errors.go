package debuginfo

import "fmt"

// ModelError is the error variant surfaced by the debug-entry model and the
// frame-tree visitor.
type ModelError error

func MakeModelError(err error, detailsBody string, args ...any) ModelError {
	return fmt.Errorf("%w: "+detailsBody, append([]any{err}, args...)...)
}

var (
	ErrEmitterState    = fmt.Errorf("debug entry referenced before it was laid out")
	ErrMalformedLVT    = fmt.Errorf("malformed local-variable table")
	ErrIllegalRangeSet = fmt.Errorf("range does not fit within its parent")
	ErrNoCompiledRange = fmt.Errorf("class entry has no compiled method")
)
