// Package fixtures provides in-memory host collaborators (type/field/method
// resolvers, a compilation result) for exercising pkg/debuginfo without a
// real compiler or class hierarchy.
package fixtures

import (
	"github.com/Manu343726/aidwarf/pkg/ai"
	"github.com/Manu343726/aidwarf/pkg/debuginfo"
)

// Type is a fixture SharedType: a plain struct passed by pointer, and used
// as a map key by pointer identity in tests (each distinct *Type pointer is
// a distinct type, whatever its name).
type Type struct {
	TypeName    string
	Kind        debuginfo.TypeKind
	TypeSize    int
	Loader      string
	Super       *Type
	FieldsList  []*Field
	Elem        *Type
	Pointee     *Type
	Signed      bool
	File, Dir   string
	HasSource   bool
}

// Field is a fixture SharedField.
type Field struct {
	FieldName string
	FieldType *Type
	FieldOff  int64
}

// Resolver implements debuginfo.TypeResolver over *Type values; the
// debuginfo.FieldResolver side is FieldHost, below.
type Resolver struct{}

func (Resolver) Name(t debuginfo.SharedType) string { return t.(*Type).TypeName }
func (Resolver) Kind(t debuginfo.SharedType) debuginfo.TypeKind { return t.(*Type).Kind }
func (Resolver) Size(t debuginfo.SharedType) int { return t.(*Type).TypeSize }
func (Resolver) LoaderTag(t debuginfo.SharedType) string { return t.(*Type).Loader }

func (Resolver) Superclass(t debuginfo.SharedType) debuginfo.SharedType {
	if s := t.(*Type).Super; s != nil {
		return s
	}
	return nil
}

func (Resolver) Fields(t debuginfo.SharedType) []debuginfo.SharedField {
	fs := t.(*Type).FieldsList
	out := make([]debuginfo.SharedField, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

func (Resolver) ElementType(t debuginfo.SharedType) debuginfo.SharedType {
	if e := t.(*Type).Elem; e != nil {
		return e
	}
	return nil
}

func (Resolver) PointeeType(t debuginfo.SharedType) debuginfo.SharedType {
	if p := t.(*Type).Pointee; p != nil {
		return p
	}
	return nil
}

func (Resolver) SignedInteger(t debuginfo.SharedType) bool { return t.(*Type).Signed }

func (Resolver) SourceFile(t debuginfo.SharedType) (dir, file string, ok bool) {
	ty := t.(*Type)
	return ty.Dir, ty.File, ty.HasSource
}

// FieldHost implements debuginfo.FieldResolver over *Field values. It is a
// distinct type from Resolver since FieldResolver.Name and
// TypeResolver.Name take different argument types and Go methods cannot be
// overloaded on a single receiver type.
type FieldHost struct{}

func (FieldHost) Name(f debuginfo.SharedField) string   { return f.(*Field).FieldName }
func (FieldHost) Type(f debuginfo.SharedField) debuginfo.SharedType { return f.(*Field).FieldType }
func (FieldHost) Offset(f debuginfo.SharedField) int64  { return f.(*Field).FieldOff }

// Method is a fixture SharedMethod.
type Method struct {
	MethodName string
	OwnerType  *Type
	RetType    *Type
	Static     bool
	Params     []*Type
	LVT        []debuginfo.LocalVariableTableEntry
	Line       int
}

// MethodHost implements debuginfo.MethodResolver over *Method values.
type MethodHost struct{}

func (MethodHost) Name(m debuginfo.SharedMethod) string           { return m.(*Method).MethodName }
func (MethodHost) Owner(m debuginfo.SharedMethod) debuginfo.SharedType { return m.(*Method).OwnerType }
func (MethodHost) ReturnType(m debuginfo.SharedMethod) debuginfo.SharedType { return m.(*Method).RetType }
func (MethodHost) IsStatic(m debuginfo.SharedMethod) bool         { return m.(*Method).Static }

func (MethodHost) ParameterTypes(m debuginfo.SharedMethod) []debuginfo.SharedType {
	ps := m.(*Method).Params
	out := make([]debuginfo.SharedType, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

func (MethodHost) LocalVariableTable(m debuginfo.SharedMethod) []debuginfo.LocalVariableTableEntry {
	return m.(*Method).LVT
}

func (MethodHost) EntryLine(m debuginfo.SharedMethod, bci int) int { return m.(*Method).Line }

// Compilation is a fixture ai.CompilationResult backed by a FrameNode tree
// built directly by the test.
type Compilation struct {
	Root        *debuginfo.FrameNode
	Frame       int
	CodeSize    int
	ID          int64
	MarksList   []ai.FrameMark
	Locals      int
	LocalKinds  []ai.ValueKind
	LocalValues []debuginfo.LocalValueEntry
}

func (c *Compilation) TotalFrameSize() int       { return c.Frame }
func (c *Compilation) TargetCodeSize() int       { return c.CodeSize }
func (c *Compilation) Marks() []ai.FrameMark     { return c.MarksList }
func (c *Compilation) CompilationID() int64      { return c.ID }
func (c *Compilation) FrameTree() any            { return c.Root }
func (c *Compilation) NumLocals() int            { return c.Locals }

func (c *Compilation) LocalValue(i int) any {
	if i < 0 || i >= len(c.LocalValues) {
		return debuginfo.UndefinedValue{}
	}
	return c.LocalValues[i]
}

func (c *Compilation) LocalKind(i int) ai.ValueKind {
	if i < 0 || i >= len(c.LocalKinds) {
		return ai.ValueKind_Illegal
	}
	return c.LocalKinds[i]
}

func (c *Compilation) VisitChildren(node any, visitor ai.FrameTreeVisitor, args ...any) error {
	n := node.(*debuginfo.FrameNode)
	for _, child := range n.Children {
		if err := visitor.VisitChildren(child, args...); err != nil {
			return err
		}
	}
	return nil
}
