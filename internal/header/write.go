package header

import (
	"github.com/robert-malhotra/go-clf/internal/binary"
)

// SectionTag is the top-level tag that introduces the header section.
const SectionTag = 0

// seekWidth is the fixed lf_int width of the seek table offset.
const seekWidth = 8

// Write appends the header as a complete top-level section: the section
// tag, its length and every field.
func (h *Header) Write(w *binary.Writer) {
	body := binary.NewWriter()

	body.CString(TagName, h.Name)
	if h.Version != nil {
		v := binary.NewWriter()
		v.Int(h.Version.Major)
		v.Int(h.Version.Minor)
		body.Section(TagVersion, v)
	}
	body.IntSection(TagLayerCount, h.LayerCount)
	body.FloatSection(TagBox, boxFloats(h.Box)...)
	for _, m := range h.Models {
		body.Section(TagModel, m.encode())
	}
	if h.HasSeekTable {
		v := binary.NewWriter()
		v.IntWidth(h.SeekTable, seekWidth)
		body.Section(TagSeekTable, v)
	}
	if h.Comment != "" {
		body.UTF16(TagComment, h.Comment)
	}

	w.Int(SectionTag)
	w.Block(body)
}

func (m Model) encode() *binary.Writer {
	w := binary.NewWriter()
	w.IntSection(ModelTagID, m.ID)
	w.UTF16(ModelTagName, m.Name)
	w.FloatSection(ModelTagBox, boxFloats(m.Box)...)
	w.FloatSection(ModelTagThickness, m.Thickness)
	return w
}

func boxFloats(b Box) []float32 {
	return []float32{b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2]}
}
