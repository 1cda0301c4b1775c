package debuginfo

import (
	"fmt"

	"github.com/Manu343726/aidwarf/pkg/ai"
)

// FrameNode is the frame tree's concrete node shape: the
// root corresponds to the primary method, internal nodes are inlined call
// sites, and leaves are straight-line code regions carrying a bytecode
// position. Bci == -1 marks a substitution/snippet frame, skipped by the
// visitor.
type FrameNode struct {
	Kind     FrameNodeKind
	StartPc  int
	EndPc    int
	Method   SharedMethod
	Bci      int
	Line     int
	Children []*FrameNode
}

type FrameNodeKind int

const (
	FrameNode_Call FrameNodeKind = iota
	FrameNode_Leaf
)

// VisitPolicy selects the frame-tree visiting mode:
// top-level-only emits every inlined call directly under the root as an
// opaque call range with no children; multi-level descends into inlined
// calls up to MaxDepth.
type VisitPolicy struct {
	MultiLevel bool
	MaxDepth   int
}

const topLevelOnlyDepth = 1

// VisitCtx is the explicit state threaded through the visitor's recursion:
// the enclosing method and the range being built under.
type VisitCtx struct {
	Caller *MethodEntry
	Parent Range
}

var ErrUnrecognizedFrameTree = fmt.Errorf("frame tree root is not a *debuginfo.FrameNode")

// VisitFrameTree walks a compilation's frame tree and produces its
// PrimaryRange. The tree's concrete shape is *FrameNode;
// hosts that model inlining differently must adapt to this shape before
// calling in.
func VisitFrameTree(m *Model, rootMethod *MethodEntry, compilation ai.CompilationResult, policy VisitPolicy) (*PrimaryRange, error) {
	root, ok := compilation.FrameTree().(*FrameNode)
	if !ok {
		return nil, MakeModelError(ErrUnrecognizedFrameTree, "got %T", compilation.FrameTree())
	}

	primary := &PrimaryRange{Lo: root.StartPc, Hi: root.EndPc, CodeOffset: 0}

	children, err := visitChildren(m, rootMethod, compilation, root.Children, VisitCtx{Caller: rootMethod}, 1, policy)
	if err != nil {
		return nil, err
	}
	primary.Children = children
	return primary, nil
}

func visitChildren(
	m *Model,
	rootMethod *MethodEntry,
	compilation ai.CompilationResult,
	nodes []*FrameNode,
	ctx VisitCtx,
	depth int,
	policy VisitPolicy,
) ([]Range, error) {
	maxDepth := policy.MaxDepth
	if !policy.MultiLevel {
		maxDepth = topLevelOnlyDepth
	}

	var ranges []Range
	var lastLeaf *LeafRange

	for _, node := range nodes {
		if node.Bci == -1 {
			continue
		}

		switch node.Kind {
		case FrameNode_Leaf:
			leaf, err := m.buildLeafRange(compilation, node, ctx.Caller)
			if err != nil {
				return nil, err
			}
			repairBadLeaf(leaf, ctx, rootMethod)

			if lastLeaf != nil && canMergeLeaves(lastLeaf, leaf) {
				lastLeaf.Hi = leaf.Hi
				for entry, value := range leaf.Locals {
					lastLeaf.Locals[entry] = value
				}
				continue
			}
			ranges = append(ranges, leaf)
			lastLeaf = leaf

		case FrameNode_Call:
			methodEntry, err := m.lookupMethodEntry(node.Method)
			if err != nil {
				return nil, err
			}
			callRange := &CallRange{Lo: node.StartPc, Hi: node.EndPc, Line: node.Line, Method: methodEntry}

			if depth >= maxDepth {
				// top-level-only cap: the inlined call is emitted as an
				// opaque call range with no children.
				ranges = append(ranges, callRange)
				lastLeaf = nil
				continue
			}

			var prologue *LeafRange
			if len(node.Children) > 0 && node.Children[0].StartPc > node.StartPc {
				prologue = &LeafRange{
					Lo: node.StartPc, Hi: node.Children[0].StartPc,
					Line: node.Line, Method: methodEntry,
					Locals: make(map[*LocalEntry]LocalValueEntry),
				}
			}

			childCtx := VisitCtx{Caller: methodEntry, Parent: callRange}
			childRanges, err := visitChildren(m, rootMethod, compilation, node.Children, childCtx, depth+1, policy)
			if err != nil {
				return nil, err
			}
			if prologue != nil {
				callRange.Children = append([]Range{prologue}, childRanges...)
			} else {
				callRange.Children = childRanges
			}

			ranges = append(ranges, callRange)
			lastLeaf = nil
		}
	}

	return ranges, nil
}

// canMergeLeaves reports whether two adjacent leaves at the same depth
// under the same parent share their method and form one contiguous range.
func canMergeLeaves(a, b *LeafRange) bool {
	return a.Method == b.Method && a.Hi == b.Lo
}

// repairBadLeaf rewrites a leaf directly under the primary that claims an
// inlined caller, attributing it to the root method instead.
func repairBadLeaf(leaf *LeafRange, ctx VisitCtx, rootMethod *MethodEntry) {
	if ctx.Parent == nil && leaf.Method != rootMethod {
		leaf.Method = rootMethod
	}
}

func (m *Model) buildLeafRange(compilation ai.CompilationResult, node *FrameNode, caller *MethodEntry) (*LeafRange, error) {
	methodEntry := caller
	if node.Method != nil {
		var err error
		methodEntry, err = m.lookupMethodEntry(node.Method)
		if err != nil {
			return nil, err
		}
	}

	locals, err := m.buildPerRangeLocals(methodEntry, compilation)
	if err != nil {
		return nil, err
	}

	return &LeafRange{
		Lo: node.StartPc, Hi: node.EndPc,
		Line: node.Line, Method: methodEntry,
		File:   fileOf(methodEntry),
		Locals: locals,
	}, nil
}

func fileOf(m *MethodEntry) *FileEntry {
	switch t := m.Owner.(type) {
	case *InstanceType:
		return t.File
	case *EnumType:
		return t.File
	case *InterfaceType:
		return t.File
	default:
		return nil
	}
}

// buildPerRangeLocals implements per-range local synthesis:
// for each bytecode frame slot with a legal kind, prefer the method's own
// LVT entry; if none exists and the slot is beyond the last parameter,
// synthesize a placeholder local. Two-slot kinds need no special casing
// here since the JVM always reports the following slot as Illegal.
func (m *Model) buildPerRangeLocals(methodEntry *MethodEntry, compilation ai.CompilationResult) (map[*LocalEntry]LocalValueEntry, error) {
	locals := make(map[*LocalEntry]LocalValueEntry)
	lastParamSlot := len(methodEntry.Parameters) - 1

	for i := 0; i < compilation.NumLocals(); i++ {
		kind := compilation.LocalKind(i)
		if kind == ai.ValueKind_Illegal {
			continue
		}

		entry := findLocalBySlot(methodEntry, i)
		if entry == nil {
			if i <= lastParamSlot {
				continue
			}
			entry = m.synthesizeLocal(i, kind)
		}

		value := compilation.LocalValue(i)
		lve, ok := value.(LocalValueEntry)
		if !ok {
			lve = UndefinedValue{}
		}
		locals[entry] = lve
	}

	return locals, nil
}

func findLocalBySlot(m *MethodEntry, slot int) *LocalEntry {
	for _, p := range m.Parameters {
		if p.Slot == slot {
			return p
		}
	}
	for _, l := range m.Locals {
		if l.Slot == slot {
			return l
		}
	}
	return nil
}

// synthesizeLocal names a placeholder local "__<kindChar><slot>" typed
// Object for object kinds, or the kind's primitive type otherwise.
func (m *Model) synthesizeLocal(slot int, kind ai.ValueKind) *LocalEntry {
	name := fmt.Sprintf("__%s%d", kindChar(kind), slot)
	return &LocalEntry{Name: name, Type: m.primitiveTypeForKind(kind), Slot: slot}
}

func kindChar(kind ai.ValueKind) string {
	switch kind {
	case ai.ValueKind_Int:
		return "i"
	case ai.ValueKind_Long:
		return "l"
	case ai.ValueKind_Float:
		return "f"
	case ai.ValueKind_Double:
		return "d"
	case ai.ValueKind_Object:
		return "a"
	default:
		return "v"
	}
}

// primitiveTypeForKind returns a shared PrimitiveType/InstanceType for a
// synthesized local's kind, lazily building and caching one per kind
// (there is no SharedType key to register these under).
func (m *Model) primitiveTypeForKind(kind ai.ValueKind) TypeEntry {
	m.typesMu.Lock()
	defer m.typesMu.Unlock()
	if m.syntheticKindTypes == nil {
		m.syntheticKindTypes = make(map[ai.ValueKind]TypeEntry)
	}
	if t, ok := m.syntheticKindTypes[kind]; ok {
		return t
	}

	var t TypeEntry
	switch kind {
	case ai.ValueKind_Object:
		t = &InstanceType{TypeEntryCommon: TypeEntryCommon{Name: "java.lang.Object", ClassOffset: -1}}
	default:
		t = &PrimitiveType{TypeEntryCommon: TypeEntryCommon{Name: primitiveKindName(kind), ClassOffset: -1}}
	}
	m.syntheticKindTypes[kind] = t
	return t
}

func primitiveKindName(kind ai.ValueKind) string {
	switch kind {
	case ai.ValueKind_Int:
		return "int"
	case ai.ValueKind_Long:
		return "long"
	case ai.ValueKind_Float:
		return "float"
	case ai.ValueKind_Double:
		return "double"
	default:
		return "void"
	}
}
