// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BlockType tags a report block. A block may carry children for more than
// one shape (a list block can also hold quote blocks, for example), so the
// repair walker recurses into every populated container field regardless
// of the tag.
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
	BlockQuote     BlockType = "quote"
	BlockTable     BlockType = "table"
)

// ReportDocument is the structured report tree rewritten in place by the
// link-repair pass.
type ReportDocument struct {
	// Title is the report title.
	Title string `json:"title,omitempty"`

	// Chapters are the top-level report divisions.
	Chapters []Chapter `json:"chapters"`
}

// Chapter is one top-level division of the report.
type Chapter struct {
	// Title is the chapter heading.
	Title string `json:"title,omitempty"`

	// Blocks are the chapter's content blocks in order.
	Blocks []Block `json:"blocks"`
}

// Block is one content node. Inlines carries paragraph text runs, Items
// carries list entries (each entry is itself a block sequence), Blocks
// carries quoted content, and Rows carries table content.
type Block struct {
	Type    BlockType  `json:"type"`
	Inlines []Inline   `json:"inlines,omitempty"`
	Items   [][]Block  `json:"items,omitempty"`
	Blocks  []Block    `json:"blocks,omitempty"`
	Rows    []TableRow `json:"rows,omitempty"`
}

// TableRow is one row of a table block.
type TableRow struct {
	Cells []TableCell `json:"cells,omitempty"`
}

// TableCell is one cell of a table row, holding nested blocks.
type TableCell struct {
	Blocks []Block `json:"blocks,omitempty"`
}

// Inline is a run of text carrying zero or more marks.
type Inline struct {
	Text  string  `json:"text"`
	Marks []*Mark `json:"marks,omitempty"`
}

// Mark annotates an inline run. A "link" mark carries its target in
// Attrs["href"]. Attrs may be absent in serialized documents; readers
// must treat a nil map as empty and writers must create it on demand.
type Mark struct {
	Type  string            `json:"type"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Attr returns the named attribute or "" when Attrs is absent.
func (m *Mark) Attr(key string) string {
	if m.Attrs == nil {
		return ""
	}
	return m.Attrs[key]
}

// SetAttr stores an attribute, creating the map when absent.
func (m *Mark) SetAttr(key, value string) {
	if m.Attrs == nil {
		m.Attrs = make(map[string]string)
	}
	m.Attrs[key] = value
}
