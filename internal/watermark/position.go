package watermark

// Positions returns the row-major index of every pixel whose value is one of values.
//
// Embedding and extraction pair the p-th mark bit with the p-th entry of this list,
// so both sides must build it by the same scan. Before embedding the list is taken
// over {peak}; after embedding over {peak, embedPoint}, which covers exactly the same pixels.
func Positions(src ImageSource, values ...uint8) []int {
	var want [256]bool
	for _, v := range values {
		want[v] = true
	}
	var positions []int
	for i, v := range src.pix {
		if want[v] {
			positions = append(positions, i)
		}
	}
	return positions
}
