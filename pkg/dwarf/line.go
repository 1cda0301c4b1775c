package dwarf

import (
	"github.com/Manu343726/aidwarf/pkg/debuginfo"
)

// LineRow is one (address, file, line) sample the line-number program
// encodes a state-machine transition for.
type LineRow struct {
	Address int
	File    int // 1-based index into the unit's file table
	Line    int
	IsStmt  bool
}

// LineProgram builds the `.debug_line` byte content for one class entry's
// compiled methods: a standard header (include directories, file names)
// followed by one sequence of state-machine opcodes per contiguous run of
// rows, terminated by DW_LNE_end_sequence.
type LineProgram struct {
	version Version
	dirs    []*debuginfo.DirEntry
	files   []*debuginfo.FileEntry
	rows    []LineRow
}

func NewLineProgram(version Version, dirs []*debuginfo.DirEntry, files []*debuginfo.FileEntry) *LineProgram {
	return &LineProgram{version: version, dirs: dirs, files: files}
}

func (p *LineProgram) AddRow(row LineRow) {
	p.rows = append(p.rows, row)
}

// Encode produces the full `.debug_line` unit: a length-prefixed header
// (with its own header_length back-patched after the file/dir tables) and
// the opcode stream for every accumulated row. The v5 header is simplified
// to the v4 directory/file table shape (no entry-format descriptors); GDB
// accepts this as it falls back on the classic fields.
func (p *LineProgram) Encode() []byte {
	header := p.encodeHeader()
	program := p.encodeProgram()

	unitLength := 2 /* version */ + 4 /* header_length */ + len(header) + len(program)

	var out []byte
	out = appendUint32(out, uint32(unitLength))
	out = appendUint16(out, uint16(p.version))
	out = appendUint32(out, uint32(len(header)))
	out = append(out, header...)
	out = append(out, program...)
	return out
}

func (p *LineProgram) encodeHeader() []byte {
	var h []byte
	h = append(h, minInstLen)
	if p.version >= Version5 {
		h = append(h, maxOpsPerInst)
	}
	h = append(h, defaultIsStmt, byte(lineBase&0xff), lineRange, opcodeBase)

	// standard_opcode_lengths for opcodes 1..12: advance_pc, advance_line,
	// set_file, set_column, fixed_advance_pc and set_isa take one operand;
	// copy, negate_stmt, set_basic_block, const_add_pc, set_prologue_end
	// and set_epilogue_begin take none.
	opLens := []byte{0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 1}
	h = append(h, opLens...)

	for _, d := range p.dirs {
		h = append(h, []byte(d.Path)...)
		h = append(h, 0)
	}
	h = append(h, 0)

	for _, f := range p.files {
		h = append(h, []byte(f.Name)...)
		h = append(h, 0)
		h = appendUleb128(h, dirIndex(p.dirs, f.Dir))
		h = appendUleb128(h, 0) // mtime
		h = appendUleb128(h, 0) // length
	}
	h = append(h, 0)

	return h
}

func dirIndex(dirs []*debuginfo.DirEntry, dir *debuginfo.DirEntry) uint64 {
	for i, d := range dirs {
		if d == dir {
			return uint64(i)
		}
	}
	return 0
}

func (p *LineProgram) encodeProgram() []byte {
	var buf []byte

	curFile, curLine, curAddr := 1, 1, 0
	for i, row := range p.rows {
		if i > 0 && row.Address < p.rows[i-1].Address {
			// new sequence: a lower address than the previous row means a
			// different compiled method started, so the machine resets.
			buf = endSequence(buf, curAddr)
			curFile, curLine, curAddr = 1, 1, 0
		}

		if row.File != curFile {
			buf = append(buf, LNSSetFile)
			buf = appendUleb128(buf, uint64(row.File))
			curFile = row.File
		}

		addrAdvance := row.Address - curAddr
		lineAdvance := row.Line - curLine
		curAddr = row.Address
		curLine = row.Line

		if special, ok := specialOpcode(addrAdvance, lineAdvance); ok {
			buf = append(buf, special)
			continue
		}

		if addrAdvance != 0 {
			buf = append(buf, LNSAdvancePC)
			buf = appendUleb128(buf, uint64(addrAdvance))
		}
		if lineAdvance != 0 {
			buf = append(buf, LNSAdvanceLine)
			buf = appendSleb128(buf, int64(lineAdvance))
		}
		buf = append(buf, LNSCopy)
	}
	buf = endSequence(buf, curAddr)

	return buf
}

func endSequence(buf []byte, addr int) []byte {
	buf = append(buf, LNSAdvancePC)
	buf = appendUleb128(buf, 0)
	buf = append(buf, 0x00)
	buf = appendUleb128(buf, 1)
	buf = append(buf, LNEEndSequence)
	_ = addr
	return buf
}

// specialOpcode attempts to encode (addrAdvance, lineAdvance) as a single
// special opcode in [opcodeBase, 255], per the standard
// opcode = (lineAdvance - lineBase) + (lineRange * addrAdvance) + opcodeBase
// formula.
func specialOpcode(addrAdvance, lineAdvance int) (byte, bool) {
	if lineAdvance < lineBase || lineAdvance >= lineBase+lineRange {
		return 0, false
	}
	if addrAdvance < 0 {
		return 0, false
	}
	opcode := (lineAdvance-lineBase) + (lineRange*addrAdvance) + opcodeBase
	if opcode < opcodeBase || opcode > 255 {
		return 0, false
	}
	return byte(opcode), true
}

func appendUint16(buf []byte, v uint16) []byte {
	return append(buf, byte(v), byte(v>>8))
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendUint64(buf []byte, v uint64) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24), byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}
