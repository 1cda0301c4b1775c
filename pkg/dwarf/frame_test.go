package dwarf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/aidwarf/pkg/debuginfo"
	"github.com/Manu343726/aidwarf/pkg/dwarf"
)

func TestEncodeCIE_LengthPrefixMatchesRemainingBytes(t *testing.T) {
	cie := dwarf.EncodeCIE(dwarf.X86_64{})
	require.True(t, len(cie) > 4)
	length := uint32(cie[0]) | uint32(cie[1])<<8 | uint32(cie[2])<<16 | uint32(cie[3])<<24
	assert.EqualValues(t, len(cie)-4, length)
}

func TestEncodeCIE_CarriesTheSentinelCIEId(t *testing.T) {
	cie := dwarf.EncodeCIE(dwarf.AArch64{})
	id := uint32(cie[4]) | uint32(cie[5])<<8 | uint32(cie[6])<<16 | uint32(cie[7])<<24
	assert.EqualValues(t, 0xffffffff, id)
}

func TestEncodeCIE_DiffersBetweenArchDialects(t *testing.T) {
	a := dwarf.EncodeCIE(dwarf.AArch64{})
	x := dwarf.EncodeCIE(dwarf.X86_64{})
	assert.NotEqual(t, a, x)
}

func TestEncodeFDE_LengthPrefixMatchesRemainingBytes(t *testing.T) {
	fde := dwarf.EncodeFDE(0, 0x1000, 0x40, nil, 0)
	length := uint32(fde[0]) | uint32(fde[1])<<8 | uint32(fde[2])<<16 | uint32(fde[3])<<24
	assert.EqualValues(t, len(fde)-4, length)
}

func TestEncodeFDE_EmbedsCieOffset(t *testing.T) {
	fde := dwarf.EncodeFDE(0x20, 0x1000, 0x40, nil, 0)
	off := uint32(fde[4]) | uint32(fde[5])<<8 | uint32(fde[6])<<16 | uint32(fde[7])<<24
	assert.EqualValues(t, 0x20, off)
}

func TestEncodeFDE_FrameSizeChangesProduceLongerInstructionStream(t *testing.T) {
	withoutChanges := dwarf.EncodeFDE(0, 0, 0x100, nil, 0)
	withChanges := dwarf.EncodeFDE(0, 0, 0x100, []debuginfo.FrameSizeChange{
		{PcOffset: 4, Kind: debuginfo.FrameSizeExtend},
		{PcOffset: 96, Kind: debuginfo.FrameSizeContract},
	}, 48)
	assert.Greater(t, len(withChanges), len(withoutChanges))
}
