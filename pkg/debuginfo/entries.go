package debuginfo

// FieldEntry describes one field of an InstanceType/EnumType/ForeignStruct.
type FieldEntry struct {
	Name   string
	Type   TypeEntry
	Offset int64
}

// MethodEntry is the debug-entry graph's method node: signature-derived
// parameters, `this` prepended when non-static, and the subset of the
// method's local-variable table that survives past the last parameter slot.
type MethodEntry struct {
	Name       string
	Owner      TypeEntry
	ReturnType TypeEntry
	Parameters []*LocalEntry
	Locals     []*LocalEntry

	// DeclarationOffset is the .debug_info byte offset of this method's
	// DW_TAG_subprogram declaration DIE; -1 until laid out.
	DeclarationOffset int64
}

// LocalEntry is a single local variable or parameter slot.
type LocalEntry struct {
	Name      string
	Type      TypeEntry
	Slot      int
	FirstLine int
}

// LocalValueEntry is a tagged union describing where a local's value lives
// over a given range: a sum type with one variant per storage class.
type LocalValueEntry interface {
	isLocalValueEntry()
}

// RegisterValue is a local held in a CPU register.
type RegisterValue struct {
	Register int
}

func (RegisterValue) isLocalValueEntry() {}

// StackValue is a local held at a frame-relative stack offset.
type StackValue struct {
	Offset int64
}

func (StackValue) isLocalValueEntry() {}

// ConstantValue is a local whose value is known at compile time; HeapOffset
// is non-zero when Constant is an oop encoded as an address expression
// rather than a literal.
type ConstantValue struct {
	HeapOffset int64
	Constant   int64
}

func (ConstantValue) isLocalValueEntry() {}

// UndefinedValue marks a local with no known location over a range (it is
// optimized away, or the range predates its first assignment).
type UndefinedValue struct{}

func (UndefinedValue) isLocalValueEntry() {}
