package dwarf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendUleb128_SmallValueIsSingleByte(t *testing.T) {
	buf := appendUleb128(nil, 5)
	assert.Equal(t, []byte{0x05}, buf)
}

func TestAppendUleb128_MultiByteValue(t *testing.T) {
	buf := appendUleb128(nil, 624485)
	assert.Equal(t, []byte{0xe5, 0x8e, 0x26}, buf)
}

func TestAppendUleb128_ZeroIsSingleZeroByte(t *testing.T) {
	buf := appendUleb128(nil, 0)
	assert.Equal(t, []byte{0x00}, buf)
}

func TestAppendSleb128_NegativeValue(t *testing.T) {
	buf := appendSleb128(nil, -123456)
	assert.Equal(t, []byte{0xc0, 0xbb, 0x78}, buf)
}

func TestAppendSleb128_PositiveValue(t *testing.T) {
	buf := appendSleb128(nil, 2)
	assert.Equal(t, []byte{0x02}, buf)
}

func TestAppendSleb128_SmallNegativeValue(t *testing.T) {
	buf := appendSleb128(nil, -2)
	assert.Equal(t, []byte{0x7e}, buf)
}
