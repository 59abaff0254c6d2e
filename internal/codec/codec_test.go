package codec

import (
	"errors"
	"testing"

	pkgerrors "github.com/searchine/searchine/pkg/errors"
)

// TestBitWriterReaderRoundTrip checks that bits come back in the order
// they were written, across byte boundaries.
func TestBitWriterReaderRoundTrip(t *testing.T) {
	w := NewBitWriter(4)
	pattern := []uint32{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1}
	for _, bit := range pattern {
		w.WriteBit(bit)
	}
	if w.Len() != len(pattern) {
		t.Fatalf("Len() = %d, want %d", w.Len(), len(pattern))
	}

	r := NewBitReader(w.Bytes())
	for i, want := range pattern {
		got, err := r.ReadBit()
		if err != nil {
			t.Fatalf("ReadBit %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("bit %d = %d, want %d", i, got, want)
		}
	}
}

func TestBitReaderExhausted(t *testing.T) {
	r := NewBitReader([]byte{0xff})
	if _, err := r.ReadBits(8); err != nil {
		t.Fatalf("reading available bits: %v", err)
	}
	if _, err := r.ReadBit(); !errors.Is(err, pkgerrors.ErrDecode) {
		t.Fatalf("reading past end: err = %v, want ErrDecode", err)
	}
}

// TestUnaryRoundTrip checks decode(encode(n)) == n over the unary domain.
func TestUnaryRoundTrip(t *testing.T) {
	for _, n := range []uint32{1, 2, 3, 7, 8, 9, 33, 100} {
		w := NewBitWriter(16)
		WriteUnary(w, n)
		got, err := ReadUnary(NewBitReader(w.Bytes()))
		if err != nil {
			t.Fatalf("ReadUnary(%d): %v", n, err)
		}
		if got != n {
			t.Fatalf("unary round trip: got %d, want %d", got, n)
		}
	}
}

// TestGammaRoundTrip checks decode(encode(n)) == n over the gamma domain,
// including powers of two where the low-bits part is all zeros.
func TestGammaRoundTrip(t *testing.T) {
	values := []uint32{1, 2, 3, 4, 5, 7, 8, 9, 15, 16, 17, 255, 256, 1 << 20, 1<<31 - 1, 1 << 31}
	for _, n := range values {
		w := NewBitWriter(16)
		WriteGamma(w, n)
		got, err := ReadGamma(NewBitReader(w.Bytes()))
		if err != nil {
			t.Fatalf("ReadGamma(%d): %v", n, err)
		}
		if got != n {
			t.Fatalf("gamma round trip: got %d, want %d", got, n)
		}
	}
}

// TestGammaKnownCodes pins the bit layout: gamma(5) is unary(3)=110
// followed by the two low bits 01.
func TestGammaKnownCodes(t *testing.T) {
	w := NewBitWriter(1)
	WriteGamma(w, 5)
	if w.Len() != 5 {
		t.Fatalf("gamma(5) is %d bits, want 5", w.Len())
	}
	// 11001 padded to 11001000.
	if got := w.Bytes()[0]; got != 0xc8 {
		t.Fatalf("gamma(5) = %08b, want %08b", got, 0xc8)
	}
}

// TestVarByteRoundTrip checks decode(encode(n)) == n for n >= 0 including
// the 7-bit group boundaries.
// TestGammaRejectsOversizedLength feeds a length prefix no writer can
// produce. Without an explicit bound the 1<<(length-1) reconstruction
// wraps on uint32 and the corrupt stream decodes to a small value.
func TestGammaRejectsOversizedLength(t *testing.T) {
	w := NewBitWriter(16)
	WriteUnary(w, 33)
	w.WriteBits(0, 32)

	_, err := ReadGamma(NewBitReader(w.Bytes()))
	if !errors.Is(err, pkgerrors.ErrDecode) {
		t.Fatalf("ReadGamma = %v, want ErrDecode", err)
	}

	// Length 32 is the widest a real value needs and must stay readable.
	w = NewBitWriter(16)
	WriteGamma(w, 1<<31)
	got, err := ReadGamma(NewBitReader(w.Bytes()))
	if err != nil || got != 1<<31 {
		t.Fatalf("ReadGamma(1<<31 code) = %d, %v", got, err)
	}
}

func TestVarByteRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 129, 16383, 16384, 1 << 21, 1<<28 - 1, 1 << 28, ^uint32(0)}
	for _, n := range values {
		buf := AppendVarByte(nil, n)
		got, next, err := ReadVarByte(buf, 0)
		if err != nil {
			t.Fatalf("ReadVarByte(%d): %v", n, err)
		}
		if got != n {
			t.Fatalf("varbyte round trip: got %d, want %d", got, n)
		}
		if next != len(buf) {
			t.Fatalf("varbyte(%d) consumed %d of %d bytes", n, next, len(buf))
		}
	}
}

func TestVarByteTruncated(t *testing.T) {
	buf := AppendVarByte(nil, 1<<20)
	if _, _, err := ReadVarByte(buf[:1], 0); !errors.Is(err, pkgerrors.ErrDecode) {
		t.Fatalf("truncated varbyte: err = %v, want ErrDecode", err)
	}
}

// TestEncodeAllRoundTrip exercises the list encoding across all three
// codecs, concatenated values, and zero handling.
func TestEncodeAllRoundTrip(t *testing.T) {
	sequences := [][]uint32{
		{5, 0, 3},
		{0},
		{1, 1, 1, 1},
		{0, 1, 127, 128, 300, 2, 0},
	}
	for _, kind := range []Kind{KindVarByte, KindGamma, KindUnary} {
		for _, vals := range sequences {
			buf := EncodeAll(kind, vals)
			got, err := DecodeAll(kind, buf, len(vals))
			if err != nil {
				t.Fatalf("%s: DecodeAll(%v): %v", kind, vals, err)
			}
			for i := range vals {
				if got[i] != vals[i] {
					t.Fatalf("%s: round trip of %v = %v", kind, vals, got)
				}
			}
		}
	}
}

// TestGammaGapSequence encodes the gap sequence for doc ids 5, 5, 8
// (gaps against the previous value) with gamma and recovers it exactly.
func TestGammaGapSequence(t *testing.T) {
	gaps := []uint32{5, 0, 3}
	buf := EncodeAll(KindGamma, gaps)
	got, err := DecodeAll(KindGamma, buf, len(gaps))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	for i := range gaps {
		if got[i] != gaps[i] {
			t.Fatalf("decoded %v, want %v", got, gaps)
		}
	}
}

func TestDecodeAllTruncated(t *testing.T) {
	vals := []uint32{100, 200, 300}
	for _, kind := range []Kind{KindVarByte, KindGamma, KindUnary} {
		buf := EncodeAll(kind, vals)
		if _, err := DecodeAll(kind, buf[:1], len(vals)); !errors.Is(err, pkgerrors.ErrDecode) {
			t.Fatalf("%s: truncated decode err = %v, want ErrDecode", kind, err)
		}
	}
}

// TestEstimateBytesIsUpperBound checks the sizing policy: the estimate
// must never be below the encoded size.
func TestEstimateBytesIsUpperBound(t *testing.T) {
	sequences := [][]uint32{
		{},
		{0},
		{5, 0, 3},
		{1, 128, 16384, 1 << 20},
	}
	for _, kind := range []Kind{KindVarByte, KindGamma, KindUnary} {
		for _, vals := range sequences {
			estimate := EstimateBytes(kind, vals)
			encoded := len(EncodeAll(kind, vals))
			if encoded > estimate {
				t.Fatalf("%s: encoded %v to %d bytes, estimate was %d", kind, vals, encoded, estimate)
			}
		}
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"varbyte": KindVarByte,
		"vb":      KindVarByte,
		"gamma":   KindGamma,
		"unary":   KindUnary,
	}
	for name, want := range cases {
		got, err := ParseKind(name)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseKind("snappy"); err == nil {
		t.Fatal("ParseKind accepted an unknown codec")
	}
}
