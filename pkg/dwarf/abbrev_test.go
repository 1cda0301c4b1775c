package dwarf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Manu343726/aidwarf/pkg/dwarf"
)

func TestAbbrevTable_DeclareAssignsSequentialCodesStartingAtOne(t *testing.T) {
	tbl := dwarf.NewAbbrevTable()
	a := tbl.Declare(dwarf.TagSubprogram, true, []dwarf.AbbrevAttr{{Attr: dwarf.AttrName, Form: dwarf.FormStrp}})
	b := tbl.Declare(dwarf.TagVariable, false, []dwarf.AbbrevAttr{{Attr: dwarf.AttrName, Form: dwarf.FormStrp}})
	assert.EqualValues(t, 1, a)
	assert.EqualValues(t, 2, b)
}

func TestAbbrevTable_DeclareReusesCodeForIdenticalShape(t *testing.T) {
	tbl := dwarf.NewAbbrevTable()
	shape := []dwarf.AbbrevAttr{{Attr: dwarf.AttrName, Form: dwarf.FormStrp}}
	a := tbl.Declare(dwarf.TagSubprogram, true, shape)
	b := tbl.Declare(dwarf.TagSubprogram, true, shape)
	assert.Equal(t, a, b)
}

func TestAbbrevTable_DeclareDistinguishesHasChildren(t *testing.T) {
	tbl := dwarf.NewAbbrevTable()
	shape := []dwarf.AbbrevAttr{{Attr: dwarf.AttrName, Form: dwarf.FormStrp}}
	a := tbl.Declare(dwarf.TagSubprogram, true, shape)
	b := tbl.Declare(dwarf.TagSubprogram, false, shape)
	assert.NotEqual(t, a, b)
}

func TestAbbrevTable_EncodeTerminatesWithZeroCode(t *testing.T) {
	tbl := dwarf.NewAbbrevTable()
	tbl.Declare(dwarf.TagSubprogram, false, nil)
	buf := tbl.Encode()
	assert.Equal(t, byte(0), buf[len(buf)-1])
}

func TestAbbrevTable_EncodeIsDeterministicAcrossRuns(t *testing.T) {
	build := func() []byte {
		tbl := dwarf.NewAbbrevTable()
		tbl.Declare(dwarf.TagSubprogram, true, []dwarf.AbbrevAttr{{Attr: dwarf.AttrName, Form: dwarf.FormStrp}})
		tbl.Declare(dwarf.TagVariable, false, []dwarf.AbbrevAttr{{Attr: dwarf.AttrType, Form: dwarf.FormRefAddr}})
		return tbl.Encode()
	}
	assert.Equal(t, build(), build())
}
