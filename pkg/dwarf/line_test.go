package dwarf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/aidwarf/pkg/debuginfo"
	"github.com/Manu343726/aidwarf/pkg/dwarf"
)

func TestLineProgram_EncodeUnitLengthMatchesRemainingBytes(t *testing.T) {
	dir := &debuginfo.DirEntry{Path: "src"}
	file := &debuginfo.FileEntry{Name: "Foo.java", Dir: dir}

	p := dwarf.NewLineProgram(dwarf.Version4, []*debuginfo.DirEntry{dir}, []*debuginfo.FileEntry{file})
	p.AddRow(dwarf.LineRow{Address: 0, File: 1, Line: 10, IsStmt: true})
	p.AddRow(dwarf.LineRow{Address: 16, File: 1, Line: 11, IsStmt: true})

	buf := p.Encode()
	require.True(t, len(buf) > 4)

	unitLength := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	assert.EqualValues(t, len(buf)-4, unitLength)
}

func TestLineProgram_EncodeIsDeterministicAcrossRuns(t *testing.T) {
	build := func() []byte {
		dir := &debuginfo.DirEntry{Path: "src"}
		file := &debuginfo.FileEntry{Name: "Foo.java", Dir: dir}
		p := dwarf.NewLineProgram(dwarf.Version4, []*debuginfo.DirEntry{dir}, []*debuginfo.FileEntry{file})
		p.AddRow(dwarf.LineRow{Address: 0, File: 1, Line: 10, IsStmt: true})
		p.AddRow(dwarf.LineRow{Address: 4, File: 1, Line: 12, IsStmt: true})
		return p.Encode()
	}
	assert.Equal(t, build(), build())
}

func TestLineProgram_EncodeWithNoRowsStillEmitsHeader(t *testing.T) {
	p := dwarf.NewLineProgram(dwarf.Version4, nil, nil)
	buf := p.Encode()
	assert.True(t, len(buf) > 0)
}
