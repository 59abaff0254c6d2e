package codec

import (
	"math/bits"

	"github.com/searchine/searchine/pkg/errors"
)

// WriteGamma encodes n >= 1 as the unary code of its bit length followed by
// its binary representation with the leading bit dropped.
func WriteGamma(w *BitWriter, n uint32) {
	length := bits.Len32(n)
	WriteUnary(w, uint32(length))
	w.WriteBits(n, length-1)
}

// ReadGamma reads the unary-coded length, then that many remaining bits,
// and reconstructs the value by prefixing the implicit leading one.
func ReadGamma(r *BitReader) (uint32, error) {
	length, err := ReadUnary(r)
	if err != nil {
		return 0, err
	}
	if length > 32 {
		// A run of 32 or more ones in the length prefix cannot come from
		// WriteGamma; without this check the shift below wraps and the
		// corruption decodes to a small value instead of failing.
		return 0, errors.Wrap(errors.ErrDecode, "gamma length prefix %d exceeds 32 bits", length)
	}
	rest, err := r.ReadBits(int(length) - 1)
	if err != nil {
		return 0, err
	}
	return 1<<(length-1) | rest, nil
}
