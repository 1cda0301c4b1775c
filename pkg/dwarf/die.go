package dwarf

// die is the emitter's intermediate DIE representation: attribute values
// are pre-encoded where they don't depend on another DIE's offset, and
// deferred (via refTarget) where they do. assignOffsets (pass 1) fixes
// every die's `.debug_info`-relative byte offset before write (pass 2)
// resolves refTarget attributes and serializes.
type die struct {
	abbrevCode uint64
	attrs      []dieAttr
	children   []*die

	offset int64 // assigned by assignOffsets; -1 until then
}

type dieAttr struct {
	form Form
	// bytes holds the final encoded value for every form except ref_addr;
	// for ref_addr, bytes is nil until write time and refTarget supplies
	// the value instead.
	bytes     []byte
	refTarget *int64
}

func leafAttr(form Form, bytes []byte) dieAttr {
	return dieAttr{form: form, bytes: bytes}
}

func refAttr(target *int64) dieAttr {
	return dieAttr{form: FormRefAddr, refTarget: target}
}

// size returns this die's own encoded size, excluding children, assuming
// every refTarget is already resolved (ref_addr is a fixed-width absolute
// offset, so its size never depends on the actual resolved value).
func (d *die) size() int64 {
	n := int64(len(appendUleb128(nil, d.abbrevCode)))
	for _, a := range d.attrs {
		if a.form == FormRefAddr {
			n += 4
			continue
		}
		n += int64(len(a.bytes))
	}
	return n
}

// assignOffsets walks the tree in the same depth-first order write will
// use, fixing every die's offset. cursor is the running `.debug_info`
// byte position; it must start at the offset immediately following the
// compilation-unit header.
func assignOffsets(d *die, cursor *int64) {
	d.offset = *cursor
	*cursor += d.size()
	for _, c := range d.children {
		assignOffsets(c, cursor)
	}
	if len(d.children) > 0 {
		*cursor++ // null DIE terminating the child list
	}
}

// write serializes the tree after assignOffsets has run on it.
func write(buf []byte, d *die) []byte {
	buf = appendUleb128(buf, d.abbrevCode)
	for _, a := range d.attrs {
		if a.form == FormRefAddr {
			buf = appendUint32(buf, uint32(*a.refTarget))
			continue
		}
		buf = append(buf, a.bytes...)
	}
	for _, c := range d.children {
		buf = write(buf, c)
	}
	if len(d.children) > 0 {
		buf = append(buf, 0)
	}
	return buf
}
