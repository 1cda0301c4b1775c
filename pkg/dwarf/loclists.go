package dwarf

import "github.com/Manu343726/aidwarf/pkg/debuginfo"

// LocEntry is one range's DWARF expression, addressed relative to the
// containing compiled method's low_pc.
type LocEntry struct {
	Lo, Hi int
	Expr   []byte
}

// EncodeLocationExpr renders a LocalValueEntry into the DWARF expression
// bytes appropriate to its variant: a register location, a frame-relative
// offset, a constant, or nothing for an undefined location.
func EncodeLocationExpr(v debuginfo.LocalValueEntry) []byte {
	switch lv := v.(type) {
	case debuginfo.RegisterValue:
		return []byte{byte(OpReg0 + lv.Register)}
	case debuginfo.StackValue:
		var buf []byte
		buf = append(buf, OpFbreg)
		buf = appendSleb128(buf, lv.Offset)
		return buf
	case debuginfo.ConstantValue:
		if lv.HeapOffset != 0 {
			var buf []byte
			buf = append(buf, OpAddr)
			buf = appendUint64(buf, uint64(lv.HeapOffset))
			buf = append(buf, OpDeref)
			return buf
		}
		var buf []byte
		buf = append(buf, OpConst8s)
		buf = appendUint64(buf, uint64(lv.Constant))
		return buf
	default:
		return nil
	}
}

// LocListsTable accumulates per-variable location lists for `.debug_loclists`
// (v5) / `.debug_loc` (v4), keyed by insertion order. The emitter does not
// reference these lists from any DIE.
type LocListsTable struct {
	version Version
	lists   [][]LocEntry
}

func NewLocListsTable(version Version) *LocListsTable {
	return &LocListsTable{version: version}
}

// Add registers one variable's per-range expressions and returns the list's
// zero-based insertion index, for v4 as for v5; for v4 this index is not a
// `.debug_loc` byte offset.
func (t *LocListsTable) Add(entries []LocEntry) int {
	t.lists = append(t.lists, entries)
	return len(t.lists) - 1
}

// Encode produces the section content. v5 uses DW_LLE_offset_pair entries
// terminated by DW_LLE_end_of_list; v4 uses raw (lo, hi, expr) address
// pairs terminated by a (0, 0) pair, the base-address-relative form since
// every offset here is already method-relative.
func (t *LocListsTable) Encode() []byte {
	var buf []byte
	for _, list := range t.lists {
		for _, e := range list {
			if t.version >= Version5 {
				buf = append(buf, dwLLEOffsetPair)
				buf = appendUleb128(buf, uint64(e.Lo))
				buf = appendUleb128(buf, uint64(e.Hi))
				buf = appendUleb128(buf, uint64(len(e.Expr)))
				buf = append(buf, e.Expr...)
			} else {
				buf = appendUint64(buf, uint64(e.Lo))
				buf = appendUint64(buf, uint64(e.Hi))
				buf = appendUint16(buf, uint16(len(e.Expr)))
				buf = append(buf, e.Expr...)
			}
		}
		if t.version >= Version5 {
			buf = append(buf, dwLLEEndOfList)
		} else {
			buf = appendUint64(buf, 0)
			buf = appendUint64(buf, 0)
		}
	}
	return buf
}

// DW_LLE_* location-list entry kinds (DWARF5 §7.7.3), the only two this
// emitter needs: a resolved low/high-relative range and the terminator.
const (
	dwLLEEndOfList  = 0x00
	dwLLEOffsetPair = 0x04
)
