package codec

// WriteUnary encodes n as n-1 one-bits followed by a terminating zero-bit.
// Defined only for n >= 1.
func WriteUnary(w *BitWriter, n uint32) {
	for i := uint32(1); i < n; i++ {
		w.WriteBit(1)
	}
	w.WriteBit(0)
}

// ReadUnary scans bit-by-bit for the zero terminator and returns the
// decoded value.
func ReadUnary(r *BitReader) (uint32, error) {
	n := uint32(1)
	for {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			return n, nil
		}
		n++
	}
}
