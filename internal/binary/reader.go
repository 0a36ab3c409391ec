// Package binary provides the low-level primitives of the CLF layer file
// format: the variable-length lf_int, the 4-byte lf_float and the
// (tag, length) section headers that frame every record.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrCorrupt is returned when a section tag or value falls outside the
	// closed set the format defines at that position.
	ErrCorrupt = errors.New("corrupt layer file")

	// ErrTruncated is returned when the data ends in the middle of a record.
	ErrTruncated = errors.New("truncated layer file")
)

// maxRead bounds a single read so that a corrupt length cannot trigger a
// huge allocation.
const maxRead = 1 << 30

// byteOrder is the order of lf_float values. The format stores floats in
// native order, which is little-endian on every machine that produces them.
var byteOrder = binary.LittleEndian

// utf16 decodes model names and comments. A BOM, when present, overrides
// the little-endian default.
var utf16 = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)

// TagError reports an unexpected tag inside a known section.
type TagError struct {
	Section string
	Tag     uint64
	Offset  int64
}

func (e *TagError) Error() string {
	return fmt.Sprintf("unknown %s tag %d at offset %d", e.Section, e.Tag, e.Offset)
}

func (e *TagError) Unwrap() error { return ErrCorrupt }

// Reader is a cursor over a layer file. Every Reader has its own position;
// readers created with At share the underlying io.ReaderAt.
type Reader struct {
	r   io.ReaderAt
	pos int64
}

// NewReader creates a reader positioned at offset 0.
func NewReader(r io.ReaderAt) *Reader {
	return &Reader{r: r}
}

// At returns a new reader positioned at the given offset.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{r: r.r, pos: offset}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	if n > maxRead {
		return nil, fmt.Errorf("%w: read of %d bytes at offset %d", ErrCorrupt, n, r.pos)
	}
	buf := make([]byte, n)
	got, err := r.r.ReadAt(buf, r.pos)
	if got < n {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: reading %d bytes at offset %d: %w", ErrTruncated, n, r.pos, err)
	}
	r.pos += int64(n)
	return buf, nil
}

// Int reads an lf_int. The top three bits of the first byte give the number
// of bytes that follow; the low five bits are the most significant bits of
// the value, which is assembled big-endian.
func (r *Reader) Int() (uint64, error) {
	first, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	n := int(first[0] >> 5)
	v := uint64(first[0] & 0x1F)
	rest, err := r.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	for _, b := range rest {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// Ints reads n consecutive lf_int values.
func (r *Reader) Ints(n int) ([]uint64, error) {
	out := make([]uint64, n)
	for i := range out {
		v, err := r.Int()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Float reads an lf_float.
func (r *Reader) Float() (float32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(byteOrder.Uint32(buf)), nil
}

// Floats reads n consecutive lf_float values.
func (r *Reader) Floats(n int) ([]float32, error) {
	if n > maxRead/4 {
		return nil, fmt.Errorf("%w: %d floats at offset %d", ErrCorrupt, n, r.pos)
	}
	buf, err := r.ReadBytes(4 * n)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(byteOrder.Uint32(buf[4*i:]))
	}
	return out, nil
}

// Header reads a section header: a tag followed by the section length in
// bytes.
func (r *Reader) Header() (tag, length uint64, err error) {
	if tag, err = r.Int(); err != nil {
		return 0, 0, err
	}
	if length, err = r.Int(); err != nil {
		return 0, 0, err
	}
	return tag, length, nil
}

// Last reads a section length and returns the absolute offset where the
// section ends. Callers parse while Pos() < last.
func (r *Reader) Last() (int64, error) {
	n, err := r.Int()
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt64-uint64(r.pos) {
		return 0, fmt.Errorf("%w: section length %d at offset %d", ErrCorrupt, n, r.pos)
	}
	return r.pos + int64(n), nil
}

// Skip reads a section length and moves past the section body.
func (r *Reader) Skip() error {
	last, err := r.Last()
	if err != nil {
		return err
	}
	r.pos = last
	return nil
}

// Expect reads a section header and fails unless it carries the given tag.
func (r *Reader) Expect(section string, tag uint64) (length uint64, err error) {
	at := r.pos
	got, length, err := r.Header()
	if err != nil {
		return 0, err
	}
	if got != tag {
		return 0, &TagError{Section: section, Tag: got, Offset: at}
	}
	return length, nil
}

// ExpectTag reads a bare lf_int tag and fails unless it matches.
func (r *Reader) ExpectTag(section string, tag uint64) error {
	at := r.pos
	got, err := r.Int()
	if err != nil {
		return err
	}
	if got != tag {
		return &TagError{Section: section, Tag: got, Offset: at}
	}
	return nil
}

// End verifies that a bounded parse stopped exactly at its section end.
func (r *Reader) End(section string, last int64) error {
	if r.pos != last {
		return fmt.Errorf("%w: %s ends at offset %d, parser stopped at %d", ErrCorrupt, section, last, r.pos)
	}
	return nil
}

// CString reads n bytes of UTF-8 text and drops the trailing terminator.
func (r *Reader) CString(n uint64) (string, error) {
	if n > maxRead {
		return "", fmt.Errorf("%w: string of %d bytes at offset %d", ErrCorrupt, n, r.pos)
	}
	buf, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	if len(buf) > 0 {
		buf = buf[:len(buf)-1]
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: invalid utf-8 text at offset %d", ErrCorrupt, r.pos-int64(n))
	}
	return string(buf), nil
}

// UTF16 reads n bytes of UTF-16 text. Trailing NUL characters are removed.
func (r *Reader) UTF16(n uint64) (string, error) {
	if n > maxRead {
		return "", fmt.Errorf("%w: string of %d bytes at offset %d", ErrCorrupt, n, r.pos)
	}
	buf, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	out, err := utf16.NewDecoder().Bytes(buf)
	if err != nil {
		return "", fmt.Errorf("%w: utf-16 text at offset %d: %w", ErrCorrupt, r.pos-int64(n), err)
	}
	return strings.TrimRight(string(out), "\x00"), nil
}
