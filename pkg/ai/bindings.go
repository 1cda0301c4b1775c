package ai

import "context"

// BytecodeStream is the bytecode stream collaborator. The
// interpreter never writes to it.
type BytecodeStream interface {
	Bci() int
	Opcode() OpCode
	NextBci() int
	ReadByte() int8
	ReadShort() int16
	ReadLocalIndex() int
	ReadIncrement() int
	ReadBranchDest() int
	// ReadCpIndex reads a constant-pool index; wide selects the 4-byte
	// encoding used by e.g. LDC_W/LDC2_W/INVOKEDYNAMIC over the 2-byte
	// encoding used by e.g. LDC/GETFIELD.
	ReadCpIndex(wide bool) int
	// Advance moves the stream to the next instruction.
	Advance()
	// AtEnd reports whether the stream has been fully consumed.
	AtEnd() bool
}

// ResolvedType is an opaque handle to a resolved JVM type, supplied by the
// host. Its only role in the interpreter is identity.
type ResolvedType any

// ResolvedField is an opaque handle to a resolved field. Kind determines
// the slot width GETSTATIC/PUTSTATIC/GETFIELD/PUTFIELD push or pop.
type ResolvedField interface {
	Kind() ValueKind
}

// ResolvedMethod is an opaque handle to a resolved method. HasReceiver
// lets the host communicate that a call site was rewritten to a static
// method, so INVOKEVIRTUAL must be treated as receiver-less.
type ResolvedMethod interface {
	HasReceiver() bool
	IsStatic() bool
	ParameterCount() int
	ParameterKind(i int) ValueKind
	ReturnKind() ValueKind
}

// ConstantPool is the constant pool collaborator.
// LoadReferencedType may fail; failures must be caught by the caller and
// the type left unresolved rather than aborting analysis.
type ConstantPool interface {
	LookupConstant(cpi int, opcode OpCode) (any, error)
	LookupType(cpi int, opcode OpCode) (ResolvedType, error)
	LookupField(cpi int, method ResolvedMethod, opcode OpCode) (ResolvedField, error)
	LookupMethod(cpi int, opcode OpCode, method ResolvedMethod) (ResolvedMethod, error)
	LookupAppendix(cpi int, opcode OpCode) (any, error)
	LoadReferencedType(cpi int, opcode OpCode, initializing bool) (ResolvedType, error)
}

// ValueKind is the JVM value kind of a parameter, local, or return value;
// it determines slot width (TWO for long/double, ONE otherwise).
type ValueKind int

const (
	ValueKind_Int ValueKind = iota
	ValueKind_Long
	ValueKind_Float
	ValueKind_Double
	ValueKind_Object
	ValueKind_Void
	ValueKind_Illegal
)

func (k ValueKind) Slots() Slots {
	if k == ValueKind_Long || k == ValueKind_Double {
		return TWO
	}
	return ONE
}

// FrameMark is a compilation mark tying a program-counter offset to a
// frame-size-change event.
type FrameMark struct {
	ID       FrameMarkID
	PcOffset int
}

type FrameMarkID int

const (
	FrameMark_PrologueDecdRSP FrameMarkID = iota
	FrameMark_EpilogueIncdRSP
	FrameMark_EpilogueEnd
)

// FrameTreeVisitor is implemented by the debug-info builder (pkg/debuginfo)
// to consume the compilation's inlining tree. args is an opaque payload
// the concrete visitor threads through the recursion.
type FrameTreeVisitor interface {
	VisitChildren(node any, args ...any) error
}

// CompilationResult is the compilation result collaborator.
type CompilationResult interface {
	TotalFrameSize() int
	TargetCodeSize() int
	Marks() []FrameMark
	CompilationID() int64
	// FrameTree returns the root of the inlining tree; its shape is
	// opaque to ai and only traversed via VisitChildren.
	FrameTree() any
	VisitChildren(node any, visitor FrameTreeVisitor, args ...any) error
	NumLocals() int
	LocalValue(i int) any
	LocalKind(i int) ValueKind
}

// ArchDialect parametrizes the frame-section emitter over a CPU
// architecture: AArch64 and x86_64 are the two dialects in
// scope.
type ArchDialect interface {
	Name() string
	HeapBaseRegister() int
	ThreadRegister() int
	ReturnAddressSize() int
	InitialCIEInstructions() []byte
}

// CancellationToken is the interpreter's cooperative cancellation
// mechanism. A nil token means cancellation is never checked.
type CancellationToken = context.Context
