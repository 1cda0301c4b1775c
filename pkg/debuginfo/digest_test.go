package debuginfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeSignature_SameInputsProduceSameDigest(t *testing.T) {
	a := typeSignature("java.lang.String", "bootstrap")
	b := typeSignature("java.lang.String", "bootstrap")
	assert.Equal(t, a, b)
}

func TestTypeSignature_DifferentLoaderTagChangesDigest(t *testing.T) {
	a := typeSignature("java.lang.String", "bootstrap")
	b := typeSignature("java.lang.String", "app")
	assert.NotEqual(t, a, b)
}

func TestSignatures_AreIndependentAcrossKinds(t *testing.T) {
	plain := typeSignature("Foo", "L1")
	compressed := compressedTypeSignature("Foo", "L1")
	layout := layoutTypeSignature("Foo", "L1", 16)

	assert.NotEqual(t, plain, compressed)
	assert.NotEqual(t, plain, layout)
	assert.NotEqual(t, compressed, layout)
}

func TestLayoutTypeSignature_SizeParticipatesInDigest(t *testing.T) {
	a := layoutTypeSignature("Foo", "L1", 16)
	b := layoutTypeSignature("Foo", "L1", 24)
	assert.NotEqual(t, a, b)
}
