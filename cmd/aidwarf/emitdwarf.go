package aidwarf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Manu343726/aidwarf/pkg/ai"
	"github.com/Manu343726/aidwarf/pkg/debuginfo"
	"github.com/Manu343726/aidwarf/pkg/debuginfo/fixtures"
	"github.com/Manu343726/aidwarf/pkg/dwarf"
)

var emitDwarfOutDir string

var emitDwarfCmd = &cobra.Command{
	Use:   "emit-dwarf",
	Short: "Emit DWARF sections for a demo compiled method",
	RunE:  runEmitDwarf,
}

func init() {
	emitDwarfCmd.Flags().StringVarP(&emitDwarfOutDir, "out", "o", ".", "directory to write the .debug_* section files into")
}

// demoClassEntry builds a one-method class with a single compiled
// method, its frame tree split across two line-table rows, and a pair of
// prologue/epilogue frame marks, the same shape emitter_test.go exercises.
func demoClassEntry() (*debuginfo.Model, *debuginfo.ClassEntry) {
	intType := &fixtures.Type{TypeName: "int", Kind: debuginfo.TypeKind_Primitive, TypeSize: 4}
	owner := &fixtures.Type{TypeName: "Greeter", Kind: debuginfo.TypeKind_Instance}
	method := &fixtures.Method{
		MethodName: "greet",
		OwnerType:  owner,
		RetType:    intType,
		Static:     true,
	}

	model := debuginfo.NewModel(fixtures.Resolver{}, fixtures.FieldHost{}, fixtures.MethodHost{})

	methodEntry, err := model.ResolveMethod(method)
	if err != nil {
		panic(err)
	}

	root := &debuginfo.FrameNode{
		Kind:    debuginfo.FrameNode_Leaf,
		StartPc: 0,
		EndPc:   64,
		Method:  method,
		Bci:     0,
		Line:    10,
	}
	root.Children = []*debuginfo.FrameNode{
		{Kind: debuginfo.FrameNode_Leaf, StartPc: 0, EndPc: 32, Method: method, Bci: 0, Line: 10},
		{Kind: debuginfo.FrameNode_Leaf, StartPc: 32, EndPc: 64, Method: method, Bci: 4, Line: 11},
	}

	compilation := &fixtures.Compilation{
		Root:     root,
		Frame:    48,
		CodeSize: 64,
		ID:       1,
		MarksList: []ai.FrameMark{
			{ID: ai.FrameMark_PrologueDecdRSP, PcOffset: 4},
			{ID: ai.FrameMark_EpilogueIncdRSP, PcOffset: 60},
		},
	}

	class := &debuginfo.ClassEntry{Name: "Greeter"}
	if _, err := model.RegisterCompilation(class, method, compilation, debuginfo.VisitPolicy{}); err != nil {
		panic(err)
	}
	class.Methods = append(class.Methods, methodEntry)

	return model, class
}

func runEmitDwarf(cmd *cobra.Command, args []string) error {
	version := dwarf.Version5
	if cfg != nil && cfg.DWARFVersion == 4 {
		version = dwarf.Version4
	}

	model, class := demoClassEntry()
	emitter := dwarf.NewEmitter(model, version, dwarf.X86_64{})

	sections, err := emitter.Emit(class)
	if err != nil {
		return fmt.Errorf("emitting DWARF sections: %w", err)
	}

	files := map[string][]byte{
		"debug_str.bin":      sections.DebugStr,
		"debug_abbrev.bin":   sections.DebugAbbrev,
		"debug_info.bin":     sections.DebugInfo,
		"debug_line.bin":     sections.DebugLine,
		"debug_loclists.bin": sections.DebugLocLists,
		"debug_frame.bin":    sections.DebugFrame,
	}
	for name, data := range files {
		path := filepath.Join(emitDwarfOutDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	if cfg != nil && cfg.JITRegistration {
		registry := dwarf.NewJITRegistry()
		registry.Register(sections.DebugInfo)
	}

	if logger != nil {
		logger.Info("emitted DWARF sections", "dir", emitDwarfOutDir, "info_bytes", len(sections.DebugInfo))
	}
	return nil
}
