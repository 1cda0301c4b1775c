package dwarf

// appendUleb128 appends x encoded as an unsigned LEB128 to buf.
func appendUleb128(buf []byte, x uint64) []byte {
	for {
		b := byte(x & 0x7f)
		x >>= 7
		if x != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if x == 0 {
			return buf
		}
	}
}

// appendSleb128 appends x encoded as a signed LEB128 to buf.
func appendSleb128(buf []byte, x int64) []byte {
	for {
		b := byte(x & 0x7f)
		x >>= 7
		signBit := b&0x40 != 0
		if (x == 0 && !signBit) || (x == -1 && signBit) {
			buf = append(buf, b)
			return buf
		}
		buf = append(buf, b|0x80)
	}
}
