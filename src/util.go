package mt63

import (
	"fmt"
	"runtime"
)

// Because sometimes it's really convenient to have C's ternary ?:
func IfThenElse[T any](x bool, a T, b T) T { //nolint:ireturn
	if x {
		return a
	} else {
		return b
	}
}

// Assert panics, naming the caller, if the condition is false.
// Used for invariants that can only fail through a programming error.
func Assert(condition bool) {
	if !condition {
		var _, file, line, _ = runtime.Caller(1)
		panic(fmt.Sprintf("Assertion failed at %s:%d", file, line))
	}
}

// Like a % b but the result is never negative.
func mod(a, b int) int {
	var r = a % b
	if r < 0 {
		r += b
	}
	return r
}
