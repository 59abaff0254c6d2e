// Package codec implements the integer codes used to compress postings
// lists: unary, Elias gamma, and variable-byte. Unary and gamma are
// bit-level codes packed most-significant-bit first; variable-byte is
// byte-aligned.
package codec

import (
	"github.com/searchine/searchine/pkg/errors"
)

// BitWriter packs bits into a byte buffer, most significant bit first.
// The buffer is pre-sized by the caller via EstimateBytes so appends do
// not reallocate mid-stream.
type BitWriter struct {
	buf   []byte
	nbits int
}

// NewBitWriter returns a writer whose buffer has capacity for capBytes.
func NewBitWriter(capBytes int) *BitWriter {
	return &BitWriter{buf: make([]byte, 0, capBytes)}
}

// WriteBit appends a single bit (0 or 1).
func (w *BitWriter) WriteBit(bit uint32) {
	if w.nbits%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit != 0 {
		w.buf[len(w.buf)-1] |= 1 << (7 - uint(w.nbits%8))
	}
	w.nbits++
}

// WriteBits appends the low n bits of v, most significant first.
func (w *BitWriter) WriteBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit((v >> uint(i)) & 1)
	}
}

// Len returns the number of bits written so far.
func (w *BitWriter) Len() int {
	return w.nbits
}

// Bytes returns the packed stream. The final byte is zero-padded.
func (w *BitWriter) Bytes() []byte {
	return w.buf
}

// BitReader consumes a bit stream produced by BitWriter.
type BitReader struct {
	buf []byte
	pos int
}

// NewBitReader returns a reader over buf.
func NewBitReader(buf []byte) *BitReader {
	return &BitReader{buf: buf}
}

// ReadBit returns the next bit, or ErrDecode when the stream is exhausted.
func (r *BitReader) ReadBit() (uint32, error) {
	byteIdx := r.pos / 8
	if byteIdx >= len(r.buf) {
		return 0, errors.Wrap(errors.ErrDecode, "bit stream exhausted at bit %d", r.pos)
	}
	bit := (r.buf[byteIdx] >> (7 - uint(r.pos%8))) & 1
	r.pos++
	return uint32(bit), nil
}

// ReadBits reads n bits and returns them as a value, most significant first.
func (r *BitReader) ReadBits(n int) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | bit
	}
	return v, nil
}
