package debuginfo

// Range is a node of a compilation's range tree: PrimaryRange is always the root; CallRange and LeafRange are its
// descendants. A range's [Lo, Hi) lies strictly within its parent's, and
// sibling ranges at the same depth are disjoint and ordered.
type Range interface {
	isRange()
	Bounds() (lo, hi int)
}

// PrimaryRange covers an entire compilation and roots its range tree.
type PrimaryRange struct {
	Lo, Hi     int
	CodeOffset int64
	Children   []Range
}

func (*PrimaryRange) isRange()              {}
func (r *PrimaryRange) Bounds() (int, int)   { return r.Lo, r.Hi }

// CallRange represents an inlined call site: a non-leaf range whose
// children are the inlined callee's own ranges.
type CallRange struct {
	Lo, Hi   int
	Line     int
	Method   *MethodEntry
	File     *FileEntry
	Children []Range
}

func (*CallRange) isRange()            {}
func (r *CallRange) Bounds() (int, int) { return r.Lo, r.Hi }

// LeafRange is a straight-line code region attributed to a single bytecode
// position, carrying the local-variable location lists observed over its
// extent.
type LeafRange struct {
	Lo, Hi int
	Line   int
	Method *MethodEntry
	File   *FileEntry
	Locals map[*LocalEntry]LocalValueEntry
}

func (*LeafRange) isRange()            {}
func (r *LeafRange) Bounds() (int, int) { return r.Lo, r.Hi }

// FrameSizeChangeKind distinguishes a stack-pointer extension (prologue)
// from a contraction (epilogue), per compilation mark.
type FrameSizeChangeKind int

const (
	FrameSizeExtend FrameSizeChangeKind = iota
	FrameSizeContract
)

// FrameSizeChange ties a program-counter offset to a frame-size adjustment
// event, consumed by the `.debug_frame` FDE encoder.
type FrameSizeChange struct {
	PcOffset int
	Kind     FrameSizeChangeKind
}

// CompiledMethodEntry is one compiled method's debug-info contribution:
// its range tree, the frame-size-change events derived from its
// compilation marks, and the owning class entry.
type CompiledMethodEntry struct {
	Primary          *PrimaryRange
	FrameSizeChanges []FrameSizeChange
	FrameSize        int
	ClassEntry       *ClassEntry

	// InfoOffset is the .debug_info byte offset of this compilation's
	// method-location DIE; -1 until laid out.
	InfoOffset int64
}

// ClassEntry owns the lists of methods, compiled methods, files and
// directories contributed by one JVM class.
type ClassEntry struct {
	Name            string
	Methods         []*MethodEntry
	CompiledMethods []*CompiledMethodEntry
	Files           []*FileEntry
	Dirs            []*DirEntry
}

// LowPC is the minimum of every compiled method's primary-range low bound.
// It is illegal to call this when no compiled method is present.
func (c *ClassEntry) LowPC() (int, error) {
	if len(c.CompiledMethods) == 0 {
		return 0, MakeModelError(ErrNoCompiledRange, "class %q has no compiled methods", c.Name)
	}
	lo := c.CompiledMethods[0].Primary.Lo
	for _, cm := range c.CompiledMethods[1:] {
		if cm.Primary.Lo < lo {
			lo = cm.Primary.Lo
		}
	}
	return lo, nil
}

// HighPC is the maximum of every compiled method's primary-range high
// bound. It is illegal to call this when no compiled method is present.
func (c *ClassEntry) HighPC() (int, error) {
	if len(c.CompiledMethods) == 0 {
		return 0, MakeModelError(ErrNoCompiledRange, "class %q has no compiled methods", c.Name)
	}
	hi := c.CompiledMethods[0].Primary.Hi
	for _, cm := range c.CompiledMethods[1:] {
		if cm.Primary.Hi > hi {
			hi = cm.Primary.Hi
		}
	}
	return hi, nil
}
