// Package seek handles the seek table of a CLF layer file.
//
// The seek table maps layer heights to the absolute offsets of their layer
// sections so that single layers can be decoded without scanning the file.
//
// Layout:
//
//	lf_int  1                section tag (top level)
//	lf_int  length
//	repeated:
//	  lf_int  0              entry tag
//	  lf_int  length
//	  tag 0   lf_float z
//	  tag 1   lf_int offset  (points at the layer's top-level tag)
package seek

import (
	"fmt"

	"github.com/robert-malhotra/go-clf/internal/binary"
)

// SectionTag is the top-level tag that introduces the seek table.
const SectionTag = 1

const (
	entryTag    = 0
	entryZ      = 0
	entryOffset = 1
)

// Entry locates one layer section.
type Entry struct {
	Z      float32
	Offset uint64
}

// Read parses the seek table. The reader must be positioned just after the
// top-level seek table tag, on the section length.
func Read(r *binary.Reader) ([]Entry, error) {
	last, err := r.Last()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for r.Pos() < last {
		if err := r.ExpectTag("seek table", entryTag); err != nil {
			return nil, err
		}
		e, err := readEntry(r)
		if err != nil {
			return nil, fmt.Errorf("reading seek entry %d: %w", len(entries), err)
		}
		entries = append(entries, e)
	}
	if err := r.End("seek table", last); err != nil {
		return nil, err
	}
	return entries, nil
}

func readEntry(r *binary.Reader) (Entry, error) {
	var e Entry
	last, err := r.Last()
	if err != nil {
		return e, err
	}
	for r.Pos() < last {
		at := r.Pos()
		tag, _, err := r.Header()
		if err != nil {
			return e, err
		}
		switch tag {
		case entryZ:
			e.Z, err = r.Float()
		case entryOffset:
			e.Offset, err = r.Int()
		default:
			return e, &binary.TagError{Section: "seek entry", Tag: tag, Offset: at}
		}
		if err != nil {
			return e, err
		}
	}
	return e, r.End("seek entry", last)
}

// Write appends entries as a complete top-level seek table section.
func Write(w *binary.Writer, entries []Entry) {
	body := binary.NewWriter()
	for _, e := range entries {
		entry := binary.NewWriter()
		entry.FloatSection(entryZ, e.Z)
		entry.IntSection(entryOffset, e.Offset)
		body.Int(entryTag)
		body.Block(entry)
	}
	w.Int(SectionTag)
	w.Block(body)
}
