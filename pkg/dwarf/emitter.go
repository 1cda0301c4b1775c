// Package dwarf encodes the normalized debug-entry graph built by
// pkg/debuginfo into the DWARF sections GDB consumes: `.debug_abbrev`,
// `.debug_info`, `.debug_line`, `.debug_loclists`/`.debug_loc`,
// `.debug_str`, and `.debug_frame`, plus the GDB JIT-registration
// interface for just-in-time compiled methods.
package dwarf

import (
	"github.com/Manu343726/aidwarf/pkg/ai"
	"github.com/Manu343726/aidwarf/pkg/debuginfo"
)

// Sections is the emitter's pure-byte-array output, one entry per ELF
// debug section; each is independently test-observable by hashing.
type Sections struct {
	DebugStr      []byte
	DebugAbbrev   []byte
	DebugInfo     []byte
	DebugLine     []byte
	DebugLocLists []byte
	DebugFrame    []byte
}

// Emitter drives the two-pass (size-then-write) encoding of one class
// entry's compiled methods. A fresh Emitter is built per class entry;
// `.debug_str` uniquing is shared across classes via the model's own
// StringTable.
type Emitter struct {
	Model   *debuginfo.Model
	Version Version
	Arch    ai.ArchDialect

	abbrev   *AbbrevTable
	loclists *LocListsTable

	// declDies maps a method's declaration DIE to the MethodEntry it
	// layouts, so DeclarationOffset can be back-filled once assignOffsets
	// has fixed every die's offset.
	declDies map[*die]*debuginfo.MethodEntry
	locDies  map[*die]*debuginfo.CompiledMethodEntry
}

func NewEmitter(model *debuginfo.Model, version Version, arch ai.ArchDialect) *Emitter {
	return &Emitter{
		Model:    model,
		Version:  version,
		Arch:     arch,
		abbrev:   NewAbbrevTable(),
		loclists: NewLocListsTable(version),
		declDies: make(map[*die]*debuginfo.MethodEntry),
		locDies:  make(map[*die]*debuginfo.CompiledMethodEntry),
	}
}

// Emit encodes one class entry's full debug-info contribution. Order:
// `.debug_frame` is built first, so its CIE sits at a fixed offset before
// any FDE references it; then `.debug_info`'s DIE tree, which also
// finalizes `.debug_abbrev` as it declares shapes and fills
// `.debug_loclists` with each leaf range's local expressions as it goes
// (no DIE references a location list); then `.debug_line`; `.debug_str`
// is read last since every prior stage may still intern strings into it.
func (e *Emitter) Emit(class *debuginfo.ClassEntry) (*Sections, error) {
	if e.Version != Version4 && e.Version != Version5 {
		return nil, MakeEmitterError(ErrUnsupportedVersion, "got %d, want 4 or 5", int(e.Version))
	}

	frame := e.encodeFrame(class)

	root := e.buildClassDIE(class)

	var cursor int64
	assignOffsets(root, &cursor)
	e.backfillOffsets()
	info := write(nil, root)

	lineProgram := NewLineProgram(e.Version, class.Dirs, class.Files)
	for _, row := range collectLineRows(class) {
		lineProgram.AddRow(row)
	}

	return &Sections{
		DebugStr:      e.Model.Strings.Bytes(),
		DebugAbbrev:   e.abbrev.Encode(),
		DebugInfo:     info,
		DebugLine:     lineProgram.Encode(),
		DebugLocLists: e.loclists.Encode(),
		DebugFrame:    frame,
	}, nil
}

func (e *Emitter) encodeFrame(class *debuginfo.ClassEntry) []byte {
	frame := EncodeCIE(e.Arch)
	for _, cm := range class.CompiledMethods {
		lowPC := uint64(cm.Primary.Lo)
		addrRange := uint64(cm.Primary.Hi - cm.Primary.Lo)
		frame = append(frame, EncodeFDE(0, lowPC, addrRange, cm.FrameSizeChanges, cm.FrameSize)...)
	}
	return frame
}

func (e *Emitter) backfillOffsets() {
	for d, m := range e.declDies {
		m.DeclarationOffset = d.offset
	}
	for d, cm := range e.locDies {
		cm.InfoOffset = d.offset
	}
}

func collectLineRows(class *debuginfo.ClassEntry) []LineRow {
	var rows []LineRow
	for _, cm := range class.CompiledMethods {
		rows = append(rows, lineRowsOf(cm.Primary.Children)...)
	}
	return rows
}

func lineRowsOf(ranges []debuginfo.Range) []LineRow {
	var rows []LineRow
	for _, r := range ranges {
		switch v := r.(type) {
		case *debuginfo.LeafRange:
			rows = append(rows, LineRow{Address: v.Lo, File: 1, Line: v.Line, IsStmt: true})
		case *debuginfo.CallRange:
			rows = append(rows, lineRowsOf(v.Children)...)
		}
	}
	return rows
}

// buildClassDIE constructs the DIE tree for one class entry: a
// compile-unit root holding the class-layout DIE, one declaration DIE per
// method, and one method-location subtree (with inlined-subroutine
// children) per compiled method.
func (e *Emitter) buildClassDIE(class *debuginfo.ClassEntry) *die {
	cu := e.newDIE(TagCompileUnit, true, []AbbrevAttr{
		{AttrProducer, FormStrp},
		{AttrStmtList, FormSecOffset},
	}, []dieAttr{
		leafAttr(FormStrp, e.strp("aidwarf")),
		leafAttr(FormSecOffset, appendUint32(nil, 0)),
	})

	cu.children = append(cu.children, e.buildTypeDIE(class))

	declDies := make(map[*debuginfo.MethodEntry]*die, len(class.Methods))
	for _, method := range class.Methods {
		d := e.buildMethodDeclDIE(method)
		declDies[method] = d
		e.declDies[d] = method
		cu.children = append(cu.children, d)
	}

	for _, cm := range class.CompiledMethods {
		d := e.buildMethodLocationDIE(cm, declDies)
		e.locDies[d] = cm
		cu.children = append(cu.children, d)
	}

	return cu
}

func (e *Emitter) buildTypeDIE(class *debuginfo.ClassEntry) *die {
	return e.newDIE(TagClassType, false, []AbbrevAttr{
		{AttrName, FormStrp},
	}, []dieAttr{
		leafAttr(FormStrp, e.strp(class.Name)),
	})
}

func (e *Emitter) buildMethodDeclDIE(m *debuginfo.MethodEntry) *die {
	d := e.newDIE(TagSubprogram, true, []AbbrevAttr{
		{AttrName, FormStrp},
		{AttrExternal, FormFlagPresent},
	}, []dieAttr{
		leafAttr(FormStrp, e.strp(m.Name)),
		leafAttr(FormFlagPresent, nil),
	})

	for _, p := range m.Parameters {
		d.children = append(d.children, e.buildLocalDIE(TagFormalParameter, p))
	}
	for _, l := range m.Locals {
		d.children = append(d.children, e.buildLocalDIE(TagVariable, l))
	}

	return d
}

func (e *Emitter) buildLocalDIE(tag Tag, l *debuginfo.LocalEntry) *die {
	return e.newDIE(tag, false, []AbbrevAttr{
		{AttrName, FormStrp},
	}, []dieAttr{
		leafAttr(FormStrp, e.strp(l.Name)),
	})
}

// buildMethodLocationDIE builds the method-location DIE and its
// inlined-subroutine descendants from the compiled method's range tree. It
// carries a ref_addr back to the method's own declaration DIE, resolved by
// assignOffsets before write serializes it.
func (e *Emitter) buildMethodLocationDIE(cm *debuginfo.CompiledMethodEntry, declDies map[*debuginfo.MethodEntry]*die) *die {
	shape := []AbbrevAttr{
		{AttrLowpc, FormAddr},
		{AttrHighpc, FormData8},
	}
	attrs := []dieAttr{
		leafAttr(FormAddr, appendUint64(nil, uint64(cm.Primary.Lo))),
		leafAttr(FormData8, appendUint64(nil, uint64(cm.Primary.Hi-cm.Primary.Lo))),
	}

	var origin *die
	for _, child := range cm.Primary.Children {
		if lr, ok := firstLeafMethod(child); ok {
			origin = declDies[lr]
			break
		}
	}
	if origin != nil {
		shape = append(shape, AbbrevAttr{AttrAbstractOrigin, FormRefAddr})
		attrs = append(attrs, refAttr(&origin.offset))
	}

	d := e.newDIE(TagSubprogram, true, shape, attrs)

	for _, child := range cm.Primary.Children {
		if sub := e.buildRangeDIE(child, declDies); sub != nil {
			d.children = append(d.children, sub)
		}
	}

	return d
}

// firstLeafMethod finds the MethodEntry attributed to the first leaf range
// reachable under node, identifying which declaration DIE a compiled
// method's top-level location DIE originates from.
func firstLeafMethod(node debuginfo.Range) (*debuginfo.MethodEntry, bool) {
	switch v := node.(type) {
	case *debuginfo.LeafRange:
		return v.Method, v.Method != nil
	case *debuginfo.CallRange:
		for _, c := range v.Children {
			if m, ok := firstLeafMethod(c); ok {
				return m, true
			}
		}
	}
	return nil, false
}

func (e *Emitter) buildRangeDIE(r debuginfo.Range, declDies map[*debuginfo.MethodEntry]*die) *die {
	switch v := r.(type) {
	case *debuginfo.CallRange:
		shape := []AbbrevAttr{
			{AttrLowpc, FormAddr},
			{AttrHighpc, FormData8},
			{AttrCallLine, FormUdata},
		}
		attrs := []dieAttr{
			leafAttr(FormAddr, appendUint64(nil, uint64(v.Lo))),
			leafAttr(FormData8, appendUint64(nil, uint64(v.Hi-v.Lo))),
			leafAttr(FormUdata, appendUleb128(nil, uint64(v.Line))),
		}
		if origin, ok := declDies[v.Method]; ok {
			shape = append(shape, AbbrevAttr{AttrAbstractOrigin, FormRefAddr})
			attrs = append(attrs, refAttr(&origin.offset))
		}

		d := e.newDIE(TagInlinedSubroutine, true, shape, attrs)
		for _, c := range v.Children {
			if sub := e.buildRangeDIE(c, declDies); sub != nil {
				d.children = append(d.children, sub)
			}
		}
		return d
	case *debuginfo.LeafRange:
		for _, value := range v.Locals {
			e.loclists.Add([]LocEntry{{Lo: v.Lo, Hi: v.Hi, Expr: EncodeLocationExpr(value)}})
		}
		return nil
	default:
		return nil
	}
}

func (e *Emitter) strp(s string) []byte {
	return appendUint32(nil, e.Model.Strings.Unique(s))
}

func (e *Emitter) newDIE(tag Tag, hasChildren bool, shape []AbbrevAttr, attrs []dieAttr) *die {
	code := e.abbrev.Declare(tag, hasChildren, shape)
	return &die{abbrevCode: code, attrs: attrs}
}
