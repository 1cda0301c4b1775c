package debuginfo

// TypeEntry is the debug-entry graph's polymorphic type node: a tagged
// union expressed as an interface closed over a fixed set of
// marker-implementing variants rather than a class hierarchy. Each variant
// carries exactly the payload its kind needs, and a type switch replaces
// virtual dispatch.
type TypeEntry interface {
	isTypeEntry()
	Common() *TypeEntryCommon
}

// TypeEntryCommon is the payload shared by every TypeEntry variant.
type TypeEntryCommon struct {
	Name        string
	Size        int
	ClassOffset int64 // .debug_info byte offset of this type's DIE; -1 until laid out

	TypeSignature           uint64
	CompressedTypeSignature uint64
	LayoutTypeSignature     uint64
}

// PrimitiveType is a JVM primitive (int, long, float, double, boolean,
// byte, char, short, void).
type PrimitiveType struct {
	TypeEntryCommon
}

func (*PrimitiveType) isTypeEntry()             {}
func (t *PrimitiveType) Common() *TypeEntryCommon { return &t.TypeEntryCommon }

// HeaderType models the object header layout shared by every instance and
// array type (the "pseudo-type" the emitter uses to describe the mark word
// and klass pointer fields common to all heap objects).
type HeaderType struct {
	TypeEntryCommon
}

func (*HeaderType) isTypeEntry()             {}
func (t *HeaderType) Common() *TypeEntryCommon { return &t.TypeEntryCommon }

// ArrayType is a JVM array type; ElementType is nil until the element has
// been separately registered and linked (cyclic-graph arena+index rule,
// : this is a reference by TypeEntry pointer into the model's own
// arena, never an owning copy).
type ArrayType struct {
	TypeEntryCommon
	ElementType TypeEntry
}

func (*ArrayType) isTypeEntry()             {}
func (t *ArrayType) Common() *TypeEntryCommon { return &t.TypeEntryCommon }

// InstanceType is an ordinary class.
type InstanceType struct {
	TypeEntryCommon
	Superclass TypeEntry // nil for java.lang.Object
	Fields     []*FieldEntry
	File       *FileEntry
	Loader     *LoaderEntry
}

func (*InstanceType) isTypeEntry()             {}
func (t *InstanceType) Common() *TypeEntryCommon { return &t.TypeEntryCommon }

// InterfaceType is a JVM interface type.
type InterfaceType struct {
	TypeEntryCommon
	File   *FileEntry
	Loader *LoaderEntry
}

func (*InterfaceType) isTypeEntry()             {}
func (t *InterfaceType) Common() *TypeEntryCommon { return &t.TypeEntryCommon }

// EnumType is a JVM enum type; it is otherwise laid out like InstanceType.
type EnumType struct {
	TypeEntryCommon
	Superclass TypeEntry
	Fields     []*FieldEntry
	File       *FileEntry
	Loader     *LoaderEntry
}

func (*EnumType) isTypeEntry()             {}
func (t *EnumType) Common() *TypeEntryCommon { return &t.TypeEntryCommon }

// ForeignWord is a word-sized non-JVM type surfaced through the foreign
// function interface (e.g. a native pointer-sized scalar with no further
// structure).
type ForeignWord struct {
	TypeEntryCommon
}

func (*ForeignWord) isTypeEntry()             {}
func (t *ForeignWord) Common() *TypeEntryCommon { return &t.TypeEntryCommon }

// ForeignStruct is a foreign aggregate type with named, typed members.
type ForeignStruct struct {
	TypeEntryCommon
	Fields []*FieldEntry
}

func (*ForeignStruct) isTypeEntry()             {}
func (t *ForeignStruct) Common() *TypeEntryCommon { return &t.TypeEntryCommon }

// ForeignPointer is a foreign pointer type; PointeeType may be nil when the
// pointee is opaque (e.g. `void*`).
type ForeignPointer struct {
	TypeEntryCommon
	PointeeType TypeEntry
}

func (*ForeignPointer) isTypeEntry()             {}
func (t *ForeignPointer) Common() *TypeEntryCommon { return &t.TypeEntryCommon }

// ForeignInteger is a foreign fixed-width integer type (distinguishing
// signedness, which the JVM's own primitive kinds do not need to).
type ForeignInteger struct {
	TypeEntryCommon
	Signed bool
}

func (*ForeignInteger) isTypeEntry()             {}
func (t *ForeignInteger) Common() *TypeEntryCommon { return &t.TypeEntryCommon }

// ForeignFloat is a foreign floating-point type.
type ForeignFloat struct {
	TypeEntryCommon
}

func (*ForeignFloat) isTypeEntry()             {}
func (t *ForeignFloat) Common() *TypeEntryCommon { return &t.TypeEntryCommon }
