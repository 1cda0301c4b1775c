package debuginfo

import "hash/fnv"

// typeSignature is a deterministic 64-bit digest of a type's identity
//: two types with the same name and loader tag
// always produce the same signature, and no cryptographic property is
// required, so the standard library's FNV-1a is the right tool (no pack
// library specializes in non-cryptographic identity digests — see
// DESIGN.md).
func typeSignature(name, loaderTag string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(loaderTag))
	return h.Sum64()
}

// compressedTypeSignature and layoutTypeSignature are derived digests over
// the same identity plus a discriminating tag, keeping the three
// signatures independent while remaining deterministic functions of the
// same inputs.
func compressedTypeSignature(name, loaderTag string) uint64 {
	h := fnv.New64a()
	h.Write([]byte("compressed\x00"))
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(loaderTag))
	return h.Sum64()
}

func layoutTypeSignature(name, loaderTag string, size int) uint64 {
	h := fnv.New64a()
	h.Write([]byte("layout\x00"))
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(loaderTag))
	h.Write([]byte{byte(size), byte(size >> 8), byte(size >> 16), byte(size >> 24)})
	return h.Sum64()
}
