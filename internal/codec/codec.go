package codec

import (
	"fmt"
	"math/bits"
)

// Kind selects the integer code used for a postings stream. The choice is
// recorded once in the index file header and applied to every list.
type Kind uint8

const (
	KindVarByte Kind = iota
	KindGamma
	KindUnary
)

func (k Kind) String() string {
	switch k {
	case KindVarByte:
		return "varbyte"
	case KindGamma:
		return "gamma"
	case KindUnary:
		return "unary"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ParseKind converts a config string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "varbyte", "vb":
		return KindVarByte, nil
	case "gamma":
		return KindGamma, nil
	case "unary":
		return KindUnary, nil
	default:
		return 0, fmt.Errorf("unknown codec %q (want varbyte, gamma, or unary)", s)
	}
}

// Valid reports whether k names one of the three codecs. Used to validate
// the codec selector read from an index file header.
func (k Kind) Valid() bool {
	return k == KindVarByte || k == KindGamma || k == KindUnary
}

// EstimateBytes returns an upper bound on the encoded size of vals under k.
// Callers size the output buffer from it once, before encoding a list.
func EstimateBytes(k Kind, vals []uint32) int {
	switch k {
	case KindVarByte:
		// At most 5 bytes per 32-bit value.
		return len(vals)*5 + 1
	case KindGamma:
		// 2*len(v+1)-1 bits per value, at most 65 bits.
		total := 0
		for _, v := range vals {
			total += 2*bits.Len32(v+1) - 1
		}
		return total/8 + 1
	case KindUnary:
		// v+1 bits per value.
		total := 0
		for _, v := range vals {
			total += int(v) + 1
		}
		return total/8 + 1
	default:
		return len(vals)*5 + 1
	}
}

// EncodeAll encodes vals as the concatenation of per-value codes with no
// padding between values; unary and gamma streams are bit-packed into whole
// bytes only at the end of the list. Because raw unary and gamma codes
// cover n >= 1 only, those kinds store each value plus one, keeping zero
// representable; varbyte stores values directly. The plus-one shift bounds
// the unary and gamma domain to values below MaxUint32; doc id gaps and
// term frequencies sit far under that, and varbyte covers the full range.
func EncodeAll(k Kind, vals []uint32) []byte {
	size := EstimateBytes(k, vals)
	switch k {
	case KindGamma:
		w := NewBitWriter(size)
		for _, v := range vals {
			WriteGamma(w, v+1)
		}
		return w.Bytes()
	case KindUnary:
		w := NewBitWriter(size)
		for _, v := range vals {
			WriteUnary(w, v+1)
		}
		return w.Bytes()
	default:
		buf := make([]byte, 0, size)
		for _, v := range vals {
			buf = AppendVarByte(buf, v)
		}
		return buf
	}
}

// DecodeAll decodes exactly count values from buf. A short or malformed
// stream yields ErrDecode.
func DecodeAll(k Kind, buf []byte, count int) ([]uint32, error) {
	vals := make([]uint32, 0, count)
	switch k {
	case KindGamma:
		r := NewBitReader(buf)
		for i := 0; i < count; i++ {
			v, err := ReadGamma(r)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v-1)
		}
	case KindUnary:
		r := NewBitReader(buf)
		for i := 0; i < count; i++ {
			v, err := ReadUnary(r)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v-1)
		}
	default:
		off := 0
		for i := 0; i < count; i++ {
			v, next, err := ReadVarByte(buf, off)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
			off = next
		}
	}
	return vals, nil
}
