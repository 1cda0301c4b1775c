package dwarf

import "github.com/Manu343726/aidwarf/pkg/debuginfo"

// CIE is the one common information entry shared by every compiled
// method's FDE, carrying the architecture's initial register rules.
type CIE struct {
	Arch ArchDialectLike
}

// ArchDialectLike mirrors ai.ArchDialect without importing pkg/ai, so
// pkg/dwarf's frame encoder has no compile-time dependency on the
// interpreter package; the emitter passes an ai.ArchDialect value through
// directly since it already satisfies this shape.
type ArchDialectLike interface {
	Name() string
	HeapBaseRegister() int
	ThreadRegister() int
	ReturnAddressSize() int
	InitialCIEInstructions() []byte
}

// EncodeCIE renders the `.debug_frame` common information entry: length,
// CIE_id sentinel (0xffffffff), version, empty augmentation, code/data
// alignment factors, return-address register, then the architecture's
// initial instructions.
func EncodeCIE(arch ArchDialectLike) []byte {
	var body []byte
	body = append(body, 4) // version
	body = append(body, 0) // augmentation (empty, NUL-terminated)
	body = appendUleb128(body, 1)   // code_alignment_factor
	body = appendSleb128(body, -8)  // data_alignment_factor
	raReg := uint64(16) // x86_64: DWARF column 16 holds the return address
	if arch.Name() == "aarch64" {
		raReg = 30 // AArch64: x30, the link register
	}
	body = appendUleb128(body, raReg)
	body = append(body, arch.InitialCIEInstructions()...)

	var out []byte
	out = appendUint32(out, uint32(4+len(body)))
	out = appendUint32(out, 0xffffffff)
	out = append(out, body...)
	return out
}

// EncodeFDE renders the frame description entry for one compiled method:
// cieOffset is this method's CIE's `.debug_frame`-relative byte offset,
// lowPC/addressRange describe the compiled code's extent, and changes are
// the prologue/epilogue frame-size events translated into
// DW_CFA_def_cfa_offset instructions at their program-counter deltas.
func EncodeFDE(cieOffset uint32, lowPC uint64, addressRange uint64, changes []debuginfo.FrameSizeChange, frameSize int) []byte {
	var body []byte
	body = appendUint32(body, cieOffset)
	body = appendUint64(body, lowPC)
	body = appendUint64(body, addressRange)
	body = append(body, encodeFrameInstructions(changes, frameSize)...)

	var out []byte
	out = appendUint32(out, uint32(len(body)))
	out = append(out, body...)
	return out
}

// encodeFrameInstructions walks the frame-size-change events in
// program-counter order, advancing the row location with
// DW_CFA_advance_loc and recording each extend/contract as a
// DW_CFA_def_cfa_offset to the new (running) frame size.
func encodeFrameInstructions(changes []debuginfo.FrameSizeChange, finalFrameSize int) []byte {
	var buf []byte
	lastPc := 0
	size := 0

	for _, c := range changes {
		if delta := c.PcOffset - lastPc; delta > 0 {
			buf = appendAdvanceLoc(buf, delta)
		}
		lastPc = c.PcOffset

		switch c.Kind {
		case debuginfo.FrameSizeExtend:
			size = finalFrameSize
		case debuginfo.FrameSizeContract:
			size = 0
		}
		buf = append(buf, dwCFADefCfaOffset)
		buf = appendUleb128(buf, uint64(size))
	}

	return buf
}

func appendAdvanceLoc(buf []byte, delta int) []byte {
	if delta < 64 {
		return append(buf, dwCFAAdvanceLoc|byte(delta))
	}
	buf = append(buf, 0x02) // DW_CFA_advance_loc2
	buf = appendUint16(buf, uint16(delta))
	return buf
}
