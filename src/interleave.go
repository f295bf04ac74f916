package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	Time interleaving of the 64 carriers.
 *
 * Description:	Bits for one character are spread over depth symbols.
 *		Carrier i is delayed by a fixed amount derived from the
 *		running sum of the pattern table, so a burst of noise
 *		only hits a few bits of any one character.
 *
 *		The decoder uses the same pattern and a pipe two rows
 *		longer, so every carrier sees the same total delay.
 *
 *---------------------------------------------------------------*/

var shortInterleavePattern = [DataCarriers]int{
	4, 5, 6, 7, 4, 5, 6, 7, 4, 5, 6, 7, 4, 5, 6, 7,
	4, 5, 6, 7, 4, 5, 6, 7, 4, 5, 6, 7, 4, 5, 6, 7,
	4, 5, 6, 7, 4, 5, 6, 7, 4, 5, 6, 7, 4, 5, 6, 7,
	4, 5, 6, 7, 4, 5, 6, 7, 4, 5, 6, 7, 4, 5, 6, 7,
}

var longInterleavePattern = [DataCarriers]int{
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
	17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32,
	33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48,
	49, 50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60, 61, 62, 63, 0,
}

// Cumulative offsets, p[i] = sum of pattern[0..i-1], modulo depth.
func interleaveOffsets(pattern []int, depth int) []int {
	var offset = make([]int, len(pattern))
	var p = 0
	for i := range pattern {
		offset[i] = p
		p = (p + pattern[i]) % depth
	}
	return offset
}

// Delay, in symbols, the encoder applies to carrier i.
func encoderDelays(pattern []int, depth int) []int {
	var delay = interleaveOffsets(pattern, depth)
	for i, p := range delay {
		delay[i] = (depth - p) % depth
	}
	return delay
}

/*------------------------------------------------------------------
 *
 * Name:	interleavePipe
 *
 * Purpose:	Circular store of the most recent rows.
 *
 * Description:	Push writes the current row and then advances.
 *		At(delay, index) reads the row pushed delay pushes ago,
 *		where 0 is the one most recently pushed.
 *
 *---------------------------------------------------------------*/

type interleavePipe[T any] struct {
	rows   int
	stride int
	data   []T
	ptr    int // Next row to write.
}

func newInterleavePipe[T any](rows, stride int) *interleavePipe[T] {
	Assert(rows > 0 && stride > 0)
	return &interleavePipe[T]{
		rows:   rows,
		stride: stride,
		data:   make([]T, rows*stride),
		ptr:    0,
	}
}

func (p *interleavePipe[T]) Push(row []T) {
	Assert(len(row) == p.stride)
	copy(p.data[p.ptr*p.stride:(p.ptr+1)*p.stride], row)
	p.ptr = (p.ptr + 1) % p.rows
}

func (p *interleavePipe[T]) At(delay, index int) T {
	Assert(delay >= 0 && delay < p.rows)
	Assert(index >= 0 && index < p.stride)
	var row = (p.ptr - 1 - delay + 2*p.rows) % p.rows
	return p.data[row*p.stride+index]
}
