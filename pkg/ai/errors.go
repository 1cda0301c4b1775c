package ai

import "fmt"

// AnalysisError is the single error variant the abstract interpreter
// surfaces to its caller. Partial state is always discarded on error.
type AnalysisError error

// MakeAnalysisError wraps a taxonomy sentinel (see the Err* values below)
// with a formatted detail message.
func MakeAnalysisError(err error, detailsBody string, args ...any) AnalysisError {
	return fmt.Errorf("%w: "+detailsBody, append([]any{err}, args...)...)
}

var (
	// ErrStackUnderflow is raised by peek/pop on an empty operand stack.
	ErrStackUnderflow = fmt.Errorf("stack underflow")
	// ErrMissingLocal is raised by a local-variable-table get for an absent index.
	ErrMissingLocal = fmt.Errorf("missing local variable")
	// ErrSlotMismatch is raised when a merge finds differing slot widths at the same position.
	ErrSlotMismatch = fmt.Errorf("slot width mismatch")
	// ErrStackShapeMismatch is raised when a merge finds operand stacks of differing length.
	ErrStackShapeMismatch = fmt.Errorf("operand stack shape mismatch")
	// ErrUnsupportedOpcode is raised for JSR, RET, JSR_W, BREAKPOINT, WIDE.
	ErrUnsupportedOpcode = fmt.Errorf("unsupported opcode")
	// ErrMalformedBytecode is raised when the bytecode stream cannot be decoded.
	ErrMalformedBytecode = fmt.Errorf("malformed bytecode")
	// ErrCancelled is raised when the caller-supplied cancellation token fires.
	ErrCancelled = fmt.Errorf("analysis cancelled")
)
