package dwarf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/aidwarf/pkg/dwarf"
)

func TestJITRegistry_RegisterTwoEntriesLinksHeadFirst(t *testing.T) {
	r := dwarf.NewJITRegistry()

	e1 := r.Register([]byte("one"))
	e2 := r.Register([]byte("two"))

	d := r.Descriptor()
	require.Same(t, e2, d.FirstEntry)
	assert.Nil(t, e2.Prev)
	assert.Same(t, e1, e2.Next)
	assert.Same(t, e2, e1.Prev)
}

func TestJITRegistry_UnregisterHeadRestoresNextAsFirst(t *testing.T) {
	r := dwarf.NewJITRegistry()

	e1 := r.Register([]byte("one"))
	e2 := r.Register([]byte("two"))

	r.Unregister(e2)

	d := r.Descriptor()
	assert.Same(t, e1, d.FirstEntry)
	assert.Nil(t, e1.Prev)
}

func TestJITRegistry_UnregisterClearsEntryLinks(t *testing.T) {
	r := dwarf.NewJITRegistry()
	e1 := r.Register([]byte("one"))

	r.Unregister(e1)

	assert.Nil(t, e1.Next)
	assert.Nil(t, e1.Prev)
}

func TestJITRegistry_DescriptorStartsEmpty(t *testing.T) {
	r := dwarf.NewJITRegistry()
	d := r.Descriptor()
	assert.Nil(t, d.FirstEntry)
	assert.EqualValues(t, 1, d.Version)
}
