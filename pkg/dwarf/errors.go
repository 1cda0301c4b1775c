package dwarf

import "fmt"

// EmitterError is the error variant surfaced by Emitter.Emit.
type EmitterError error

func MakeEmitterError(err error, detailsBody string, args ...any) EmitterError {
	return fmt.Errorf("%w: "+detailsBody, append([]any{err}, args...)...)
}

// ErrUnsupportedVersion is raised when an Emitter is asked to target a
// DWARF version other than 4 or 5.
var ErrUnsupportedVersion = fmt.Errorf("unsupported DWARF version")
