package dwarf

// AbbrevAttr is one (attribute, form) pair of an abbreviation entry.
type AbbrevAttr struct {
	Attr Attr
	Form Form
}

// AbbrevEntry is one DIE shape: its tag, whether it has children, and the
// ordered attribute/form list terminated implicitly by the table encoder.
type AbbrevEntry struct {
	Code        uint64
	Tag         Tag
	HasChildren bool
	Attrs       []AbbrevAttr
}

// AbbrevTable builds a `.debug_abbrev` table: one per compilation unit,
// entries registered in the order first seen and assigned sequential codes
// starting at 1 (abbrev code 0 terminates the table).
type AbbrevTable struct {
	entries []AbbrevEntry
	byShape map[string]uint64
}

func NewAbbrevTable() *AbbrevTable {
	return &AbbrevTable{byShape: make(map[string]uint64)}
}

// Declare registers a DIE shape and returns its abbrev code, reusing an
// existing code for an identical (tag, hasChildren, attrs) shape.
func (t *AbbrevTable) Declare(tag Tag, hasChildren bool, attrs []AbbrevAttr) uint64 {
	key := shapeKey(tag, hasChildren, attrs)
	if code, ok := t.byShape[key]; ok {
		return code
	}
	code := uint64(len(t.entries) + 1)
	t.entries = append(t.entries, AbbrevEntry{Code: code, Tag: tag, HasChildren: hasChildren, Attrs: attrs})
	t.byShape[key] = code
	return code
}

func shapeKey(tag Tag, hasChildren bool, attrs []AbbrevAttr) string {
	buf := make([]byte, 0, 4+len(attrs)*2)
	buf = appendUleb128(buf, uint64(tag))
	if hasChildren {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	for _, a := range attrs {
		buf = appendUleb128(buf, uint64(a.Attr))
		buf = appendUleb128(buf, uint64(a.Form))
	}
	return string(buf)
}

// Encode produces the `.debug_abbrev` byte content for this table's
// compilation unit, terminated by abbrev code 0.
func (t *AbbrevTable) Encode() []byte {
	var buf []byte
	for _, e := range t.entries {
		buf = appendUleb128(buf, e.Code)
		buf = appendUleb128(buf, uint64(e.Tag))
		if e.HasChildren {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		for _, a := range e.Attrs {
			buf = appendUleb128(buf, uint64(a.Attr))
			buf = appendUleb128(buf, uint64(a.Form))
		}
		buf = appendUleb128(buf, 0)
		buf = appendUleb128(buf, 0)
	}
	buf = appendUleb128(buf, 0)
	return buf
}
