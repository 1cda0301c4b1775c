package dwarf

// AArch64 and X86_64 are the two ai.ArchDialect implementations the frame
// emitter parametrizes over: each fixes the DWARF register numbers used by
// the CIE's initial rules for the heap-base and thread registers.
type AArch64 struct{}

func (AArch64) Name() string             { return "aarch64" }
func (AArch64) HeapBaseRegister() int     { return 27 }
func (AArch64) ThreadRegister() int       { return 28 }
func (AArch64) ReturnAddressSize() int    { return 8 }
func (AArch64) InitialCIEInstructions() []byte {
	return []byte{
		dwCFADefCfa, 31, 0,
		dwCFASameValue, 27,
		dwCFASameValue, 28,
	}
}

type X86_64 struct{}

func (X86_64) Name() string          { return "x86_64" }
func (X86_64) HeapBaseRegister() int  { return 14 }
func (X86_64) ThreadRegister() int    { return 15 }
func (X86_64) ReturnAddressSize() int { return 8 }
func (X86_64) InitialCIEInstructions() []byte {
	return []byte{
		dwCFADefCfa, 7, 8,
		dwCFAOffset | 16, 1,
		dwCFASameValue, 14,
		dwCFASameValue, 15,
	}
}

// DW_CFA_* call-frame instruction opcodes (DWARF §6.4.2) used by the
// CIE/FDE encoder in frame.go.
const (
	dwCFAAdvanceLoc  = 0x40 // high 2 bits 01, low 6 bits carry the delta
	dwCFAOffset      = 0x80 // high 2 bits 10, low 6 bits carry the register
	dwCFADefCfa      = 0x0c
	dwCFADefCfaOffset = 0x0e
	dwCFASameValue   = 0x08
	dwCFARestore     = 0xc0
)
