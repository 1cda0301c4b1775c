package debuginfo

import "github.com/Manu343726/aidwarf/pkg/ai"

// Exported for debuginfo_test: the model's lookup/build methods are
// unexported since hosts never call them directly, only through the
// exported entry points ResolveType, ResolveMethod and RegisterCompilation.

func ExportLookupTypeEntry(m *Model, t SharedType) (TypeEntry, error) {
	return m.lookupTypeEntry(t)
}

func ExportLookupMethodEntry(m *Model, sm SharedMethod) (*MethodEntry, error) {
	return m.lookupMethodEntry(sm)
}

func ExportLookupCompiledMethodEntry(m *Model, classEntry *ClassEntry, sm SharedMethod, compilation ai.CompilationResult, policy VisitPolicy) (*CompiledMethodEntry, error) {
	return m.lookupCompiledMethodEntry(classEntry, sm, compilation, policy)
}

func ExportFrameSizeChangesFromMarks(marks []ai.FrameMark, codeSize int) []FrameSizeChange {
	return frameSizeChangesFromMarks(marks, codeSize)
}
