package debuginfo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/aidwarf/pkg/ai"
	"github.com/Manu343726/aidwarf/pkg/debuginfo"
	"github.com/Manu343726/aidwarf/pkg/debuginfo/fixtures"
)

func widgetMethod(name string, owner *fixtures.Type, static bool) *fixtures.Method {
	voidType := &fixtures.Type{TypeName: "void", Kind: debuginfo.TypeKind_Primitive}
	return &fixtures.Method{MethodName: name, OwnerType: owner, RetType: voidType, Static: static}
}

func TestVisitFrameTree_StraightLineMergesAdjacentLeaves(t *testing.T) {
	owner := &fixtures.Type{TypeName: "Widget", Kind: debuginfo.TypeKind_Instance}
	root := widgetMethod("run", owner, true)

	tree := &debuginfo.FrameNode{
		Kind: debuginfo.FrameNode_Call, StartPc: 0, EndPc: 10,
		Children: []*debuginfo.FrameNode{
			{Kind: debuginfo.FrameNode_Leaf, StartPc: 0, EndPc: 4, Bci: 0, Line: 1},
			{Kind: debuginfo.FrameNode_Leaf, StartPc: 4, EndPc: 10, Bci: 4, Line: 1},
		},
	}
	compilation := &fixtures.Compilation{Root: tree, CodeSize: 10}

	m := debuginfo.NewModel(fixtures.Resolver{}, fixtures.FieldHost{}, fixtures.MethodHost{})
	rootEntry, err := debuginfo.ExportLookupMethodEntry(m, root)
	require.NoError(t, err)

	primary, err := debuginfo.VisitFrameTree(m, rootEntry, compilation, debuginfo.VisitPolicy{})
	require.NoError(t, err)

	require.Len(t, primary.Children, 1)
	leaf, ok := primary.Children[0].(*debuginfo.LeafRange)
	require.True(t, ok)
	assert.Equal(t, 0, leaf.Lo)
	assert.Equal(t, 10, leaf.Hi)
}

func TestVisitFrameTree_SkipsSubstitutionFramesWithBciMinusOne(t *testing.T) {
	owner := &fixtures.Type{TypeName: "Widget", Kind: debuginfo.TypeKind_Instance}
	root := widgetMethod("run", owner, true)

	tree := &debuginfo.FrameNode{
		Kind: debuginfo.FrameNode_Call, StartPc: 0, EndPc: 10,
		Children: []*debuginfo.FrameNode{
			{Kind: debuginfo.FrameNode_Leaf, StartPc: 0, EndPc: 2, Bci: -1, Line: 1},
			{Kind: debuginfo.FrameNode_Leaf, StartPc: 2, EndPc: 10, Bci: 0, Line: 1},
		},
	}
	compilation := &fixtures.Compilation{Root: tree, CodeSize: 10}

	m := debuginfo.NewModel(fixtures.Resolver{}, fixtures.FieldHost{}, fixtures.MethodHost{})
	rootEntry, err := debuginfo.ExportLookupMethodEntry(m, root)
	require.NoError(t, err)

	primary, err := debuginfo.VisitFrameTree(m, rootEntry, compilation, debuginfo.VisitPolicy{})
	require.NoError(t, err)

	require.Len(t, primary.Children, 1)
	leaf := primary.Children[0].(*debuginfo.LeafRange)
	assert.Equal(t, 2, leaf.Lo)
}

func TestVisitFrameTree_InlinedCallGetsSyntheticPrologueLeaf(t *testing.T) {
	owner := &fixtures.Type{TypeName: "Widget", Kind: debuginfo.TypeKind_Instance}
	root := widgetMethod("run", owner, true)
	callee := widgetMethod("helper", owner, true)

	tree := &debuginfo.FrameNode{
		Kind: debuginfo.FrameNode_Call, StartPc: 0, EndPc: 20,
		Children: []*debuginfo.FrameNode{
			{
				Kind: debuginfo.FrameNode_Call, StartPc: 4, EndPc: 16, Bci: 4, Line: 2, Method: callee,
				Children: []*debuginfo.FrameNode{
					{Kind: debuginfo.FrameNode_Leaf, StartPc: 8, EndPc: 16, Bci: 0, Line: 3},
				},
			},
		},
	}
	compilation := &fixtures.Compilation{Root: tree, CodeSize: 20}

	m := debuginfo.NewModel(fixtures.Resolver{}, fixtures.FieldHost{}, fixtures.MethodHost{})
	rootEntry, err := debuginfo.ExportLookupMethodEntry(m, root)
	require.NoError(t, err)

	primary, err := debuginfo.VisitFrameTree(m, rootEntry, compilation, debuginfo.VisitPolicy{MultiLevel: true, MaxDepth: 8})
	require.NoError(t, err)

	require.Len(t, primary.Children, 1)
	callRange, ok := primary.Children[0].(*debuginfo.CallRange)
	require.True(t, ok)
	require.Len(t, callRange.Children, 2)

	prologue, ok := callRange.Children[0].(*debuginfo.LeafRange)
	require.True(t, ok)
	assert.Equal(t, 4, prologue.Lo)
	assert.Equal(t, 8, prologue.Hi)
}

func TestVisitFrameTree_TopLevelOnlyCapsDescentAtCallSite(t *testing.T) {
	owner := &fixtures.Type{TypeName: "Widget", Kind: debuginfo.TypeKind_Instance}
	root := widgetMethod("run", owner, true)
	callee := widgetMethod("helper", owner, true)

	tree := &debuginfo.FrameNode{
		Kind: debuginfo.FrameNode_Call, StartPc: 0, EndPc: 20,
		Children: []*debuginfo.FrameNode{
			{
				Kind: debuginfo.FrameNode_Call, StartPc: 0, EndPc: 20, Bci: 4, Line: 2, Method: callee,
				Children: []*debuginfo.FrameNode{
					{Kind: debuginfo.FrameNode_Leaf, StartPc: 8, EndPc: 16, Bci: 0, Line: 3},
				},
			},
		},
	}
	compilation := &fixtures.Compilation{Root: tree, CodeSize: 20}

	m := debuginfo.NewModel(fixtures.Resolver{}, fixtures.FieldHost{}, fixtures.MethodHost{})
	rootEntry, err := debuginfo.ExportLookupMethodEntry(m, root)
	require.NoError(t, err)

	primary, err := debuginfo.VisitFrameTree(m, rootEntry, compilation, debuginfo.VisitPolicy{})
	require.NoError(t, err)

	require.Len(t, primary.Children, 1)
	callRange := primary.Children[0].(*debuginfo.CallRange)
	assert.Empty(t, callRange.Children)
}

func TestVisitFrameTree_BadLeafDirectlyUnderPrimaryIsReattributedToRoot(t *testing.T) {
	owner := &fixtures.Type{TypeName: "Widget", Kind: debuginfo.TypeKind_Instance}
	root := widgetMethod("run", owner, true)
	other := widgetMethod("unrelated", owner, true)

	tree := &debuginfo.FrameNode{
		Kind: debuginfo.FrameNode_Call, StartPc: 0, EndPc: 10,
		Children: []*debuginfo.FrameNode{
			{Kind: debuginfo.FrameNode_Leaf, StartPc: 0, EndPc: 10, Bci: 0, Line: 1, Method: other},
		},
	}
	compilation := &fixtures.Compilation{Root: tree, CodeSize: 10}

	m := debuginfo.NewModel(fixtures.Resolver{}, fixtures.FieldHost{}, fixtures.MethodHost{})
	rootEntry, err := debuginfo.ExportLookupMethodEntry(m, root)
	require.NoError(t, err)

	primary, err := debuginfo.VisitFrameTree(m, rootEntry, compilation, debuginfo.VisitPolicy{})
	require.NoError(t, err)

	leaf := primary.Children[0].(*debuginfo.LeafRange)
	assert.Same(t, rootEntry, leaf.Method)
}

func TestVisitFrameTree_PerRangeLocalsSkipIllegalKindAndCarryValues(t *testing.T) {
	owner := &fixtures.Type{TypeName: "Widget", Kind: debuginfo.TypeKind_Instance}
	intType := &fixtures.Type{TypeName: "int", Kind: debuginfo.TypeKind_Primitive}
	root := &fixtures.Method{
		MethodName: "run", OwnerType: owner,
		RetType: &fixtures.Type{TypeName: "void", Kind: debuginfo.TypeKind_Primitive},
		Static:  true,
		Params:  []*fixtures.Type{intType},
		LVT: []debuginfo.LocalVariableTableEntry{
			{Slot: 1, Name: "total", Type: intType},
		},
	}

	tree := &debuginfo.FrameNode{
		Kind: debuginfo.FrameNode_Call, StartPc: 0, EndPc: 4,
		Children: []*debuginfo.FrameNode{
			{Kind: debuginfo.FrameNode_Leaf, StartPc: 0, EndPc: 4, Bci: 0, Line: 1},
		},
	}
	compilation := &fixtures.Compilation{
		Root: tree, CodeSize: 4,
		Locals:      2,
		LocalKinds:  []ai.ValueKind{ai.ValueKind_Int, ai.ValueKind_Int},
		LocalValues: []debuginfo.LocalValueEntry{debuginfo.RegisterValue{Register: 3}, debuginfo.StackValue{Offset: 16}},
	}

	m := debuginfo.NewModel(fixtures.Resolver{}, fixtures.FieldHost{}, fixtures.MethodHost{})
	rootEntry, err := debuginfo.ExportLookupMethodEntry(m, root)
	require.NoError(t, err)

	primary, err := debuginfo.VisitFrameTree(m, rootEntry, compilation, debuginfo.VisitPolicy{})
	require.NoError(t, err)

	leaf := primary.Children[0].(*debuginfo.LeafRange)
	require.Len(t, leaf.Locals, 2)

	total := findLocalByName(rootEntry, "total")
	require.NotNil(t, total)
	assert.Equal(t, debuginfo.StackValue{Offset: 16}, leaf.Locals[total])
}

func findLocalByName(m *debuginfo.MethodEntry, name string) *debuginfo.LocalEntry {
	for _, l := range m.Parameters {
		if l.Name == name {
			return l
		}
	}
	for _, l := range m.Locals {
		if l.Name == name {
			return l
		}
	}
	return nil
}
