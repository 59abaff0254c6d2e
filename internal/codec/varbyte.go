package codec

import "github.com/searchine/searchine/pkg/errors"

// Variable-byte convention: 7 bits of payload per byte, least-significant
// group first. The high bit is a continuation flag, set on every byte
// except the last one of a value.

// AppendVarByte appends the variable-byte encoding of n (n >= 0) to dst.
func AppendVarByte(dst []byte, n uint32) []byte {
	for n >= 0x80 {
		dst = append(dst, byte(n)|0x80)
		n >>= 7
	}
	return append(dst, byte(n))
}

// ReadVarByte decodes one value from buf starting at off and returns the
// value and the offset past its last byte.
func ReadVarByte(buf []byte, off int) (uint32, int, error) {
	var v uint32
	var shift uint
	for i := off; i < len(buf); i++ {
		b := buf[i]
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
		if shift > 28 {
			return 0, off, errors.Wrap(errors.ErrDecode, "varbyte value overflows 32 bits at offset %d", off)
		}
	}
	return 0, off, errors.Wrap(errors.ErrDecode, "truncated varbyte value at offset %d", off)
}
