package binary

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/encoding/unicode"
)

// MaxInt is the largest value an lf_int can hold: five bits in the lead
// byte plus seven continuation bytes.
const MaxInt = 1<<61 - 1

// utf16LE encodes text the way the format's producers store it.
var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// ErrIntRange is returned when a value does not fit in an lf_int.
var ErrIntRange = errors.New("value out of lf_int range")

// IntSize returns the number of bytes the shortest lf_int encoding of v
// occupies, or 0 if v is out of range.
func IntSize(v uint64) int {
	if v > MaxInt {
		return 0
	}
	n := 0
	for v>>(5+8*uint(n)) != 0 {
		n++
	}
	return n + 1
}

// Writer accumulates an encoded layer file in memory. The first error
// encountered is kept and later writes become no-ops; check Err once the
// output is complete.
type Writer struct {
	buf []byte
	err error
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the encoded bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Raw appends bytes verbatim.
func (w *Writer) Raw(b []byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, b...)
}

// Int appends v using the shortest lf_int encoding.
func (w *Writer) Int(v uint64) {
	n := IntSize(v)
	if n == 0 {
		w.fail(fmt.Errorf("%w: %d", ErrIntRange, v))
		return
	}
	w.IntWidth(v, n)
}

// IntWidth appends v as an lf_int of exactly n bytes (1..8). A wider than
// necessary encoding is valid and is used for fields patched after layout.
func (w *Writer) IntWidth(v uint64, n int) {
	if w.err != nil {
		return
	}
	if n < 1 || n > 8 || v>>(5+8*uint(n-1)) != 0 {
		w.fail(fmt.Errorf("%w: %d in %d bytes", ErrIntRange, v, n))
		return
	}
	extra := n - 1
	w.buf = append(w.buf, byte(extra<<5)|byte(v>>(8*uint(extra))))
	for i := extra - 1; i >= 0; i-- {
		w.buf = append(w.buf, byte(v>>(8*uint(i))))
	}
}

// Float appends an lf_float.
func (w *Writer) Float(f float32) {
	if w.err != nil {
		return
	}
	w.buf = byteOrder.AppendUint32(w.buf, math.Float32bits(f))
}

// Floats appends consecutive lf_float values.
func (w *Writer) Floats(fs ...float32) {
	for _, f := range fs {
		w.Float(f)
	}
}

// Block appends the length of body followed by its bytes. This is the
// framing read back by Reader.Last.
func (w *Writer) Block(body *Writer) {
	if body.err != nil {
		w.fail(body.err)
		return
	}
	w.Int(uint64(len(body.buf)))
	w.Raw(body.buf)
}

// Section appends a tagged section: tag, length, body. This is the framing
// read back by Reader.Header.
func (w *Writer) Section(tag uint64, body *Writer) {
	w.Int(tag)
	w.Block(body)
}

// IntSection appends a tagged section holding a single lf_int.
func (w *Writer) IntSection(tag, v uint64) {
	body := NewWriter()
	body.Int(v)
	w.Section(tag, body)
}

// FloatSection appends a tagged section holding lf_float values.
func (w *Writer) FloatSection(tag uint64, fs ...float32) {
	body := NewWriter()
	body.Floats(fs...)
	w.Section(tag, body)
}

// CString appends a tagged section holding NUL-terminated UTF-8 text.
func (w *Writer) CString(tag uint64, s string) {
	body := NewWriter()
	body.Raw(append([]byte(s), 0))
	w.Section(tag, body)
}

// UTF16 appends a tagged section holding UTF-16LE text without a BOM.
func (w *Writer) UTF16(tag uint64, s string) {
	if w.err != nil {
		return
	}
	enc, err := utf16LE.NewEncoder().Bytes([]byte(s))
	if err != nil {
		w.fail(fmt.Errorf("encoding utf-16 text: %w", err))
		return
	}
	body := NewWriter()
	body.Raw(enc)
	w.Section(tag, body)
}
