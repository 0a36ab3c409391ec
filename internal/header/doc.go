// Package header handles the file header section of a CLF layer file.
//
// The header is the first section of every layer file. It carries the
// descriptive fields of the file, the global bounding box, the model table
// and the offset of the seek table used for random access to layers.
//
// # Layout
//
// The header section starts with the top-level tag 0 followed by an lf_int
// section length. The body is a sequence of tagged fields, each framed by a
// (tag, length) pair:
//
//	Tag  Contents
//	0    file name, NUL-terminated UTF-8
//	1    version: two lf_int values (major, minor)
//	2    declared layer count: lf_int
//	3    bounding box: six lf_float values (min x,y,z then max x,y,z)
//	4    model record (repeatable, nested tagged fields, see below)
//	5    seek table offset: lf_int
//	6    comment, UTF-16
//
// A model record contains:
//
//	Tag  Contents
//	0    model id: lf_int
//	1    model name, UTF-16
//	2    model bounding box: six lf_float values
//	3    layer thickness: one lf_float (length must be 4)
//
// Any other tag is a format error.
//
// # Usage
//
//	h, err := header.Read(reader)
//	if errors.Is(err, binary.ErrCorrupt) {
//	    // unknown field tag or malformed field
//	}
//
// [Header.Write] produces the same layout for file creation. The seek table offset
// is always written at full lf_int width so the header length does not
// depend on where the seek table ends up.
package header
