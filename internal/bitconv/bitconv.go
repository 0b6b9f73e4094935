package bitconv

import "github.com/yyyoichi/bitstream-go"

// BoolsToBytes packs bits MSB-first, padding the last byte with zeros.
func BoolsToBytes(bits []bool) []byte {
	w := bitstream.NewBitWriter[uint8](0, 0)
	for _, v := range bits {
		w.WriteBool(v)
	}
	out := make([]byte, (len(bits)+7)/8)
	_ = copy(out, w.Data())
	return out
}

// BytesToBools unpacks the first n bits of b, MSB-first.
// Bits beyond the end of b are false.
func BytesToBools(b []byte, n int) []bool {
	r := bitstream.NewBitReader(b, 0, 0)
	r.SetBits(min(n, len(b)*8))
	bits := make([]bool, n)
	for i := range min(n, len(b)*8) {
		bits[i], _ = r.ReadBitAt(i)
	}
	return bits
}
