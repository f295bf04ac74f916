package mt63

// Walsh-Hadamard transform, in place.  len(v) must be a power of two.
//
// Forward followed by inverse gives back len(v) times the input.

func WalshForward(v []float64) {
	for step := 1; step < len(v); step *= 2 {
		for ptr := 0; ptr < len(v); ptr += 2 * step {
			for i := ptr; i < ptr+step; i++ {
				var a, b = v[i], v[i+step]
				v[i] = a + b
				v[i+step] = b - a
			}
		}
	}
}

func WalshInverse(v []float64) {
	for step := len(v) / 2; step > 0; step /= 2 {
		for ptr := 0; ptr < len(v); ptr += 2 * step {
			for i := ptr; i < ptr+step; i++ {
				var a, b = v[i], v[i+step]
				v[i] = a - b
				v[i+step] = a + b
			}
		}
	}
}
