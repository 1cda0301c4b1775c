// Package fixtures provides in-memory collaborator implementations (a
// bytecode stream, a constant pool, a resolved method) for exercising
// pkg/ai without a real classfile reader. bci is simply the instruction's
// index in the program slice; that is an implementation detail of the
// fixture, not a constraint pkg/ai imposes on real hosts.
package fixtures

import (
	"fmt"

	"github.com/Manu343726/aidwarf/pkg/ai"
)

// Instr is one fixture instruction. Only the fields relevant to its Op are
// read by the interpreter.
type Instr struct {
	Op            ai.OpCode
	Byte          int8
	Short         int16
	LocalIndex    int
	Increment     int
	BranchDest    int
	CpIndex       int
	WideCpIndex   int
	SwitchTargets []int
}

// Stream is a program given as a flat instruction slice addressed by index.
type Stream struct {
	Instrs []Instr
	pos    int
}

func NewStream(instrs []Instr) *Stream {
	return &Stream{Instrs: instrs}
}

func (s *Stream) Bci() int       { return s.pos }
func (s *Stream) Opcode() ai.OpCode { return s.Instrs[s.pos].Op }
func (s *Stream) NextBci() int   { return s.pos + 1 }

func (s *Stream) ReadByte() int8       { return s.Instrs[s.pos].Byte }
func (s *Stream) ReadShort() int16     { return s.Instrs[s.pos].Short }
func (s *Stream) ReadLocalIndex() int  { return s.Instrs[s.pos].LocalIndex }
func (s *Stream) ReadIncrement() int   { return s.Instrs[s.pos].Increment }
func (s *Stream) ReadBranchDest() int  { return s.Instrs[s.pos].BranchDest }

func (s *Stream) ReadCpIndex(wide bool) int {
	if wide {
		return s.Instrs[s.pos].WideCpIndex
	}
	return s.Instrs[s.pos].CpIndex
}

func (s *Stream) Advance()      { s.pos++ }
func (s *Stream) AtEnd() bool   { return s.pos >= len(s.Instrs) }
func (s *Stream) SeekTo(bci int) { s.pos = bci }

func (s *Stream) SwitchTargets() []int { return s.Instrs[s.pos].SwitchTargets }

// Method is a fixture ResolvedMethod.
type Method struct {
	Receiver bool
	Static   bool
	Params   []ai.ValueKind
	Return   ai.ValueKind
}

func (m *Method) HasReceiver() bool          { return m.Receiver }
func (m *Method) IsStatic() bool             { return m.Static }
func (m *Method) ParameterCount() int        { return len(m.Params) }
func (m *Method) ParameterKind(i int) ai.ValueKind { return m.Params[i] }
func (m *Method) ReturnKind() ai.ValueKind    { return m.Return }

// Field is a fixture ResolvedField.
type Field struct {
	ValueKind ai.ValueKind
}

func (f *Field) Kind() ai.ValueKind { return f.ValueKind }

// ConstantPool is a fixture ConstantPool backed by plain maps; a missing
// entry is reported as an error, mirroring the "silently swallowed"
// resolution-failure contract the interpreter relies on.
type ConstantPool struct {
	Constants  map[int]any
	Types      map[int]ai.ResolvedType
	Fields     map[int]ai.ResolvedField
	Methods    map[int]ai.ResolvedMethod
	Appendices map[int]any
}

func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		Constants:  make(map[int]any),
		Types:      make(map[int]ai.ResolvedType),
		Fields:     make(map[int]ai.ResolvedField),
		Methods:    make(map[int]ai.ResolvedMethod),
		Appendices: make(map[int]any),
	}
}

func (cp *ConstantPool) LookupConstant(cpi int, opcode ai.OpCode) (any, error) {
	if v, ok := cp.Constants[cpi]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no constant at index %d", cpi)
}

func (cp *ConstantPool) LookupType(cpi int, opcode ai.OpCode) (ai.ResolvedType, error) {
	if v, ok := cp.Types[cpi]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no type at index %d", cpi)
}

func (cp *ConstantPool) LookupField(cpi int, method ai.ResolvedMethod, opcode ai.OpCode) (ai.ResolvedField, error) {
	if v, ok := cp.Fields[cpi]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no field at index %d", cpi)
}

func (cp *ConstantPool) LookupMethod(cpi int, opcode ai.OpCode, method ai.ResolvedMethod) (ai.ResolvedMethod, error) {
	if v, ok := cp.Methods[cpi]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no method at index %d", cpi)
}

func (cp *ConstantPool) LookupAppendix(cpi int, opcode ai.OpCode) (any, error) {
	if v, ok := cp.Appendices[cpi]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no appendix at index %d", cpi)
}

func (cp *ConstantPool) LoadReferencedType(cpi int, opcode ai.OpCode, initializing bool) (ai.ResolvedType, error) {
	return cp.LookupType(cpi, opcode)
}
