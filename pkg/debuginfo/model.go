// Package debuginfo builds the normalized debug-entry graph (types,
// methods, compiled methods, files, ranges, local values) that the DWARF
// emitter serializes. It consumes the frame-tree output of pkg/ai's
// compilations but has no dependency on pkg/ai's internals beyond the
// CompilationResult/FrameTreeVisitor collaborator contracts.
package debuginfo

import (
	"sync"

	"github.com/Manu343726/aidwarf/pkg/ai"
)

// SharedType, SharedMethod and SharedField are opaque host handles, mirroring
// ai.ResolvedType/ResolvedMethod/ResolvedField: the model's only use for
// them is as map keys and as arguments to the resolver collaborators below.
type SharedType any
type SharedMethod any
type SharedField any

// TypeKind selects which TypeEntry variant lookupTypeEntry constructs.
type TypeKind int

const (
	TypeKind_Primitive TypeKind = iota
	TypeKind_Header
	TypeKind_Array
	TypeKind_Instance
	TypeKind_Interface
	TypeKind_Enum
	TypeKind_ForeignWord
	TypeKind_ForeignStruct
	TypeKind_ForeignPointer
	TypeKind_ForeignInteger
	TypeKind_ForeignFloat
)

// TypeResolver is the host collaborator the model consults to build a
// TypeEntry from a SharedType the first time it is seen.
type TypeResolver interface {
	Name(t SharedType) string
	Kind(t SharedType) TypeKind
	Size(t SharedType) int
	LoaderTag(t SharedType) string
	Superclass(t SharedType) SharedType // nil (or untyped nil) when none
	Fields(t SharedType) []SharedField
	ElementType(t SharedType) SharedType // non-nil for TypeKind_Array
	PointeeType(t SharedType) SharedType // non-nil for TypeKind_ForeignPointer
	SignedInteger(t SharedType) bool
	// SourceFile reports a known source path for t; ok is false when the
	// host has none, in which case the model normalizes one from the dotted
	// name.
	SourceFile(t SharedType) (dir, file string, ok bool)
}

type FieldResolver interface {
	Name(f SharedField) string
	Type(f SharedField) SharedType
	Offset(f SharedField) int64
}

// LocalVariableTableEntry is one row of a method's local-variable table, as
// the host exposes it.
type LocalVariableTableEntry struct {
	Slot      int
	Name      string
	Type      SharedType
	FirstLine int
}

// MethodResolver is the host collaborator consulted to build a MethodEntry.
type MethodResolver interface {
	Name(m SharedMethod) string
	Owner(m SharedMethod) SharedType
	ReturnType(m SharedMethod) SharedType
	IsStatic(m SharedMethod) bool
	ParameterTypes(m SharedMethod) []SharedType
	// LocalVariableTable returns the method's LVT rows, or nil when the
	// method carries none.
	LocalVariableTable(m SharedMethod) []LocalVariableTableEntry
	// EntryLine resolves the source line for bci from the method's
	// line-number table.
	EntryLine(m SharedMethod, bci int) int
}

// Model is the process-wide debug-entry graph: inserted-once registration
// by source key, with compare-and-put insertion so a race loser discards
// its locally built object and adopts the winner's.
type Model struct {
	Types   TypeResolver
	Fields  FieldResolver
	Methods MethodResolver
	Strings *StringTable

	typesMu            sync.Mutex
	types              map[SharedType]TypeEntry
	syntheticKindTypes map[ai.ValueKind]TypeEntry

	methodsMu sync.Mutex
	methods   map[SharedMethod]*MethodEntry

	compiledMu sync.Mutex
	compiled   map[compiledKey]*CompiledMethodEntry

	dirsMu sync.Mutex
	dirs   map[string]*DirEntry

	filesMu sync.Mutex
	files   map[fileKey]*FileEntry

	loadersMu sync.Mutex
	loaders   map[string]*LoaderEntry
}

type fileKey struct {
	dir  string
	name string
}

type compiledKey struct {
	method        SharedMethod
	compilationID int64
}

func NewModel(types TypeResolver, fields FieldResolver, methods MethodResolver) *Model {
	return &Model{
		Types:    types,
		Fields:   fields,
		Methods:  methods,
		Strings:  NewStringTable(),
		types:    make(map[SharedType]TypeEntry),
		methods:  make(map[SharedMethod]*MethodEntry),
		compiled: make(map[compiledKey]*CompiledMethodEntry),
		dirs:     make(map[string]*DirEntry),
		files:    make(map[fileKey]*FileEntry),
		loaders:  make(map[string]*LoaderEntry),
	}
}

// lookupDirEntry returns the DirEntry for path, index 0 being reserved for
// the empty path.
func (m *Model) lookupDirEntry(path string) *DirEntry {
	m.dirsMu.Lock()
	defer m.dirsMu.Unlock()
	if d, ok := m.dirs[path]; ok {
		return d
	}
	d := &DirEntry{Path: path}
	m.dirs[path] = d
	return d
}

func (m *Model) lookupFileEntry(dir, name string) *FileEntry {
	key := fileKey{dir: dir, name: name}
	m.filesMu.Lock()
	defer m.filesMu.Unlock()
	if f, ok := m.files[key]; ok {
		return f
	}
	f := &FileEntry{Name: name, Dir: m.lookupDirEntry(dir)}
	m.files[key] = f
	return f
}

func (m *Model) lookupLoaderEntry(id string) *LoaderEntry {
	if id == "" {
		return nil
	}
	m.loadersMu.Lock()
	defer m.loadersMu.Unlock()
	if l, ok := m.loaders[id]; ok {
		return l
	}
	l := &LoaderEntry{ID: id}
	m.loaders[id] = l
	return l
}

// resolveFileEntry returns the FileEntry for a type, using the host's
// reported source file when available, else synthesizing one from the
// type's dotted name.
func (m *Model) resolveFileEntry(t SharedType, name string) *FileEntry {
	if dir, file, ok := m.Types.SourceFile(t); ok {
		return m.lookupFileEntry(dir, file)
	}
	dir, file := NormalizeSourcePath(name)
	return m.lookupFileEntry(dir, file)
}

// ResolveType registers (or returns the already-registered) TypeEntry for a
// host type handle.
func (m *Model) ResolveType(t SharedType) (TypeEntry, error) {
	return m.lookupTypeEntry(t)
}

// ResolveMethod registers (or returns the already-registered) MethodEntry
// for a host method handle.
func (m *Model) ResolveMethod(sm SharedMethod) (*MethodEntry, error) {
	return m.lookupMethodEntry(sm)
}

// RegisterCompilation registers one compiled method's debug-info
// contribution against classEntry, appending it to classEntry's
// CompiledMethods on first registration.
func (m *Model) RegisterCompilation(classEntry *ClassEntry, sm SharedMethod, compilation ai.CompilationResult, policy VisitPolicy) (*CompiledMethodEntry, error) {
	return m.lookupCompiledMethodEntry(classEntry, sm, compilation, policy)
}

// lookupTypeEntry implements type registration: construct the
// appropriate variant if absent, insert under compare-and-put (the race
// loser's candidate is discarded), then post-process. Post-processing is
// idempotent, so running it again on an already-inserted entry is safe but
// unnecessary; only the actual inserter runs it.
func (m *Model) lookupTypeEntry(t SharedType) (TypeEntry, error) {
	m.typesMu.Lock()
	if existing, ok := m.types[t]; ok {
		m.typesMu.Unlock()
		return existing, nil
	}
	m.typesMu.Unlock()

	candidate := m.buildTypeEntry(t)

	m.typesMu.Lock()
	if existing, ok := m.types[t]; ok {
		m.typesMu.Unlock()
		return existing, nil
	}
	m.types[t] = candidate
	m.typesMu.Unlock()

	if err := m.postProcessType(candidate, t); err != nil {
		return nil, err
	}
	return candidate, nil
}

func (m *Model) buildTypeEntry(t SharedType) TypeEntry {
	name := m.Types.Name(t)
	size := m.Types.Size(t)
	loaderTag := m.Types.LoaderTag(t)

	common := TypeEntryCommon{
		Name:                    name,
		Size:                    size,
		ClassOffset:             -1,
		TypeSignature:           typeSignature(name, loaderTag),
		CompressedTypeSignature: compressedTypeSignature(name, loaderTag),
		LayoutTypeSignature:     layoutTypeSignature(name, loaderTag, size),
	}

	switch m.Types.Kind(t) {
	case TypeKind_Primitive:
		return &PrimitiveType{TypeEntryCommon: common}
	case TypeKind_Header:
		return &HeaderType{TypeEntryCommon: common}
	case TypeKind_Array:
		return &ArrayType{TypeEntryCommon: common}
	case TypeKind_Instance:
		return &InstanceType{TypeEntryCommon: common}
	case TypeKind_Interface:
		return &InterfaceType{TypeEntryCommon: common}
	case TypeKind_Enum:
		return &EnumType{TypeEntryCommon: common}
	case TypeKind_ForeignWord:
		return &ForeignWord{TypeEntryCommon: common}
	case TypeKind_ForeignStruct:
		return &ForeignStruct{TypeEntryCommon: common}
	case TypeKind_ForeignPointer:
		return &ForeignPointer{TypeEntryCommon: common}
	case TypeKind_ForeignInteger:
		return &ForeignInteger{TypeEntryCommon: common, Signed: m.Types.SignedInteger(t)}
	default:
		return &ForeignFloat{TypeEntryCommon: common}
	}
}

func (m *Model) postProcessType(entry TypeEntry, t SharedType) error {
	switch v := entry.(type) {
	case *ArrayType:
		if elem := m.Types.ElementType(t); elem != nil {
			elemEntry, err := m.lookupTypeEntry(elem)
			if err != nil {
				return err
			}
			v.ElementType = elemEntry
		}
	case *ForeignPointer:
		if pointee := m.Types.PointeeType(t); pointee != nil {
			pointeeEntry, err := m.lookupTypeEntry(pointee)
			if err != nil {
				return err
			}
			v.PointeeType = pointeeEntry
		}
	case *InstanceType:
		if err := m.populateFields(&v.Fields, t); err != nil {
			return err
		}
		if super := m.Types.Superclass(t); super != nil {
			superEntry, err := m.lookupTypeEntry(super)
			if err != nil {
				return err
			}
			v.Superclass = superEntry
		}
		v.File = m.resolveFileEntry(t, v.Name)
		v.Loader = m.lookupLoaderEntry(m.Types.LoaderTag(t))
	case *EnumType:
		if err := m.populateFields(&v.Fields, t); err != nil {
			return err
		}
		if super := m.Types.Superclass(t); super != nil {
			superEntry, err := m.lookupTypeEntry(super)
			if err != nil {
				return err
			}
			v.Superclass = superEntry
		}
		v.File = m.resolveFileEntry(t, v.Name)
		v.Loader = m.lookupLoaderEntry(m.Types.LoaderTag(t))
	case *InterfaceType:
		v.File = m.resolveFileEntry(t, v.Name)
		v.Loader = m.lookupLoaderEntry(m.Types.LoaderTag(t))
	case *ForeignStruct:
		return m.populateFields(&v.Fields, t)
	}
	return nil
}

func (m *Model) populateFields(out *[]*FieldEntry, t SharedType) error {
	for _, sf := range m.Types.Fields(t) {
		fieldType, err := m.lookupTypeEntry(m.Fields.Type(sf))
		if err != nil {
			return err
		}
		*out = append(*out, &FieldEntry{
			Name:   m.Fields.Name(sf),
			Type:   fieldType,
			Offset: m.Fields.Offset(sf),
		})
	}
	return nil
}

// lookupMethodEntry implements method registration.
func (m *Model) lookupMethodEntry(sm SharedMethod) (*MethodEntry, error) {
	m.methodsMu.Lock()
	if existing, ok := m.methods[sm]; ok {
		m.methodsMu.Unlock()
		return existing, nil
	}
	m.methodsMu.Unlock()

	owner, err := m.lookupTypeEntry(m.Methods.Owner(sm))
	if err != nil {
		return nil, err
	}
	returnType, err := m.lookupTypeEntry(m.Methods.ReturnType(sm))
	if err != nil {
		return nil, err
	}

	entry := &MethodEntry{
		Name:              m.Methods.Name(sm),
		Owner:             owner,
		ReturnType:        returnType,
		DeclarationOffset: -1,
	}

	slot := 0
	if !m.Methods.IsStatic(sm) {
		entry.Parameters = append(entry.Parameters, &LocalEntry{Name: "this", Type: owner, Slot: 0})
		slot = 1
	}
	for _, pt := range m.Methods.ParameterTypes(sm) {
		paramType, err := m.lookupTypeEntry(pt)
		if err != nil {
			return nil, err
		}
		entry.Parameters = append(entry.Parameters, &LocalEntry{Type: paramType, Slot: slot})
		slot++
	}
	lastParamSlot := slot - 1

	for _, row := range m.Methods.LocalVariableTable(sm) {
		if row.Slot <= lastParamSlot {
			continue
		}
		localType, err := m.lookupTypeEntry(row.Type)
		if err != nil {
			return nil, err
		}
		entry.Locals = append(entry.Locals, &LocalEntry{
			Name:      row.Name,
			Type:      localType,
			Slot:      row.Slot,
			FirstLine: row.FirstLine,
		})
	}

	m.methodsMu.Lock()
	if existing, ok := m.methods[sm]; ok {
		m.methodsMu.Unlock()
		return existing, nil
	}
	m.methods[sm] = entry
	m.methodsMu.Unlock()

	return entry, nil
}

// lookupCompiledMethodEntry implements compilation
// registration: the frame tree is visited to produce the range tree (§4.3),
// and frame-size-change events are derived from the compilation's marks.
func (m *Model) lookupCompiledMethodEntry(classEntry *ClassEntry, sm SharedMethod, compilation ai.CompilationResult, policy VisitPolicy) (*CompiledMethodEntry, error) {
	key := compiledKey{method: sm, compilationID: compilation.CompilationID()}

	m.compiledMu.Lock()
	if existing, ok := m.compiled[key]; ok {
		m.compiledMu.Unlock()
		return existing, nil
	}
	m.compiledMu.Unlock()

	methodEntry, err := m.lookupMethodEntry(sm)
	if err != nil {
		return nil, err
	}

	primary, err := VisitFrameTree(m, methodEntry, compilation, policy)
	if err != nil {
		return nil, err
	}

	entry := &CompiledMethodEntry{
		Primary:          primary,
		FrameSizeChanges: frameSizeChangesFromMarks(compilation.Marks(), compilation.TargetCodeSize()),
		FrameSize:        compilation.TotalFrameSize(),
		ClassEntry:       classEntry,
		InfoOffset:       -1,
	}

	m.compiledMu.Lock()
	if existing, ok := m.compiled[key]; ok {
		m.compiledMu.Unlock()
		return existing, nil
	}
	m.compiled[key] = entry
	m.compiledMu.Unlock()

	classEntry.CompiledMethods = append(classEntry.CompiledMethods, entry)
	return entry, nil
}

// frameSizeChangesFromMarks implements the mark-to-event mapping of
// : PROLOGUE_DECD_RSP becomes Extend, EPILOGUE_INCD_RSP becomes
// Contract, and an EPILOGUE_END observed before code end implies another
// Extend (the method falls back into straight-line code after an early
// return's epilogue, e.g. multiple return statements).
func frameSizeChangesFromMarks(marks []ai.FrameMark, codeSize int) []FrameSizeChange {
	var changes []FrameSizeChange
	for _, mk := range marks {
		switch mk.ID {
		case ai.FrameMark_PrologueDecdRSP:
			changes = append(changes, FrameSizeChange{PcOffset: mk.PcOffset, Kind: FrameSizeExtend})
		case ai.FrameMark_EpilogueIncdRSP:
			changes = append(changes, FrameSizeChange{PcOffset: mk.PcOffset, Kind: FrameSizeContract})
		case ai.FrameMark_EpilogueEnd:
			if mk.PcOffset < codeSize {
				changes = append(changes, FrameSizeChange{PcOffset: mk.PcOffset, Kind: FrameSizeExtend})
			}
		}
	}
	return changes
}
