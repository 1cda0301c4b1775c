package debuginfo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/aidwarf/pkg/ai"
	"github.com/Manu343726/aidwarf/pkg/debuginfo"
	"github.com/Manu343726/aidwarf/pkg/debuginfo/fixtures"
)

func newTestModel() *debuginfo.Model {
	return debuginfo.NewModel(fixtures.Resolver{}, fixtures.FieldHost{}, fixtures.MethodHost{})
}

func TestModel_InstanceTypeGetsExpectedVariantAndFields(t *testing.T) {
	fieldType := &fixtures.Type{TypeName: "int", Kind: debuginfo.TypeKind_Primitive, TypeSize: 4}
	widget := &fixtures.Type{
		TypeName: "com.example.Widget",
		Kind:     debuginfo.TypeKind_Instance,
		TypeSize: 16,
		Loader:   "app",
		FieldsList: []*fixtures.Field{
			{FieldName: "count", FieldType: fieldType, FieldOff: 8},
		},
	}

	m := newTestModel()
	entry, err := debuginfo.ExportLookupTypeEntry(m, widget)
	require.NoError(t, err)

	instance, ok := entry.(*debuginfo.InstanceType)
	require.True(t, ok)
	assert.Equal(t, "com.example.Widget", instance.Name)
	require.Len(t, instance.Fields, 1)
	assert.Equal(t, "count", instance.Fields[0].Name)
	assert.Equal(t, int64(8), instance.Fields[0].Offset)
	assert.Equal(t, "int", instance.Fields[0].Type.Common().Name)
	assert.Equal(t, "com/example", instance.File.Dir.Path)
	assert.Equal(t, "Widget.java", instance.File.Name)
	assert.Equal(t, "app", instance.Loader.ID)
}

func TestModel_LookupTypeEntryIsIdempotentForSamePointer(t *testing.T) {
	widget := &fixtures.Type{TypeName: "Widget", Kind: debuginfo.TypeKind_Instance}
	m := newTestModel()

	a, err := debuginfo.ExportLookupTypeEntry(m, widget)
	require.NoError(t, err)
	b, err := debuginfo.ExportLookupTypeEntry(m, widget)
	require.NoError(t, err)

	assert.Same(t, a, b)
}

func TestModel_ArrayTypeLinksElementType(t *testing.T) {
	elem := &fixtures.Type{TypeName: "int", Kind: debuginfo.TypeKind_Primitive}
	arr := &fixtures.Type{TypeName: "[I", Kind: debuginfo.TypeKind_Array, Elem: elem}

	m := newTestModel()
	entry, err := debuginfo.ExportLookupTypeEntry(m, arr)
	require.NoError(t, err)

	arrType, ok := entry.(*debuginfo.ArrayType)
	require.True(t, ok)
	require.NotNil(t, arrType.ElementType)
	assert.Equal(t, "int", arrType.ElementType.Common().Name)
}

func TestModel_MethodEntryPrependsThisWhenNonStatic(t *testing.T) {
	owner := &fixtures.Type{TypeName: "Widget", Kind: debuginfo.TypeKind_Instance}
	intType := &fixtures.Type{TypeName: "int", Kind: debuginfo.TypeKind_Primitive}
	method := &fixtures.Method{
		MethodName: "add",
		OwnerType:  owner,
		RetType:    intType,
		Static:     false,
		Params:     []*fixtures.Type{intType},
	}

	m := newTestModel()
	entry, err := debuginfo.ExportLookupMethodEntry(m, method)
	require.NoError(t, err)

	require.Len(t, entry.Parameters, 2)
	assert.Equal(t, "this", entry.Parameters[0].Name)
	assert.Equal(t, 0, entry.Parameters[0].Slot)
	assert.Equal(t, 1, entry.Parameters[1].Slot)
}

func TestModel_MethodEntryDropsLVTRowsWithinParameterSlots(t *testing.T) {
	owner := &fixtures.Type{TypeName: "Widget", Kind: debuginfo.TypeKind_Instance}
	intType := &fixtures.Type{TypeName: "int", Kind: debuginfo.TypeKind_Primitive}
	method := &fixtures.Method{
		MethodName: "add",
		OwnerType:  owner,
		RetType:    intType,
		Static:     true,
		Params:     []*fixtures.Type{intType},
		LVT: []debuginfo.LocalVariableTableEntry{
			{Slot: 0, Name: "x", Type: intType},
			{Slot: 1, Name: "total", Type: intType, FirstLine: 3},
		},
	}

	m := newTestModel()
	entry, err := debuginfo.ExportLookupMethodEntry(m, method)
	require.NoError(t, err)

	require.Len(t, entry.Parameters, 1)
	require.Len(t, entry.Locals, 1)
	assert.Equal(t, "total", entry.Locals[0].Name)
	assert.Equal(t, 1, entry.Locals[0].Slot)
}

func TestModel_CompiledMethodEntryIsCachedByCompilationID(t *testing.T) {
	owner := &fixtures.Type{TypeName: "Widget", Kind: debuginfo.TypeKind_Instance}
	voidType := &fixtures.Type{TypeName: "void", Kind: debuginfo.TypeKind_Primitive}
	method := &fixtures.Method{MethodName: "run", OwnerType: owner, RetType: voidType, Static: true}

	root := &debuginfo.FrameNode{Kind: debuginfo.FrameNode_Call, StartPc: 0, EndPc: 10}
	compilation := &fixtures.Compilation{Root: root, ID: 1, Frame: 32, CodeSize: 10}
	classEntry := &debuginfo.ClassEntry{Name: "Widget"}

	m := newTestModel()
	a, err := debuginfo.ExportLookupCompiledMethodEntry(m, classEntry, method, compilation, debuginfo.VisitPolicy{})
	require.NoError(t, err)
	b, err := debuginfo.ExportLookupCompiledMethodEntry(m, classEntry, method, compilation, debuginfo.VisitPolicy{})
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Len(t, classEntry.CompiledMethods, 1)
}

func TestFrameSizeChangesFromMarks_MapsEachMarkKind(t *testing.T) {
	marks := []ai.FrameMark{
		{ID: ai.FrameMark_PrologueDecdRSP, PcOffset: 0},
		{ID: ai.FrameMark_EpilogueIncdRSP, PcOffset: 20},
		{ID: ai.FrameMark_EpilogueEnd, PcOffset: 24},
	}

	changes := debuginfo.ExportFrameSizeChangesFromMarks(marks, 40)
	require.Len(t, changes, 3)
	assert.Equal(t, debuginfo.FrameSizeExtend, changes[0].Kind)
	assert.Equal(t, debuginfo.FrameSizeContract, changes[1].Kind)
	assert.Equal(t, debuginfo.FrameSizeExtend, changes[2].Kind)
}

func TestFrameSizeChangesFromMarks_EpilogueEndAtCodeEndIsNotExtend(t *testing.T) {
	marks := []ai.FrameMark{
		{ID: ai.FrameMark_EpilogueEnd, PcOffset: 40},
	}

	changes := debuginfo.ExportFrameSizeChangesFromMarks(marks, 40)
	assert.Empty(t, changes)
}

func TestClassEntry_LowHighPCFailWithoutCompiledMethods(t *testing.T) {
	c := &debuginfo.ClassEntry{Name: "Empty"}

	_, err := c.LowPC()
	assert.ErrorIs(t, err, debuginfo.ErrNoCompiledRange)

	_, err = c.HighPC()
	assert.ErrorIs(t, err, debuginfo.ErrNoCompiledRange)
}

func TestClassEntry_LowHighPCSpanAllCompiledMethods(t *testing.T) {
	c := &debuginfo.ClassEntry{
		Name: "Widget",
		CompiledMethods: []*debuginfo.CompiledMethodEntry{
			{Primary: &debuginfo.PrimaryRange{Lo: 10, Hi: 20}},
			{Primary: &debuginfo.PrimaryRange{Lo: 0, Hi: 8}},
		},
	}

	lo, err := c.LowPC()
	require.NoError(t, err)
	hi, err := c.HighPC()
	require.NoError(t, err)

	assert.Equal(t, 0, lo)
	assert.Equal(t, 20, hi)
}
