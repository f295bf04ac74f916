package mt63

import (
	"fmt"
)

/*------------------------------------------------------------------
 *
 * Name:	delayLine
 *
 * Purpose:	Hold recent baseband samples so that windows can be
 *		read at any absolute stream position in the recent past.
 *
 * Description:	Positions count samples since the stream started.  The
 *		line starts out holding delay samples of silence before
 *		position 0.  When the storage fills up, everything but
 *		the last delay samples is discarded.
 *
 *---------------------------------------------------------------*/

type delayLine struct {
	buf   []complex128
	base  int // Stream position of buf[0].
	delay int
	size  int
}

func newDelayLine(delay, maxSize int) *delayLine {
	var size = max(maxSize, 2*delay)
	var d = &delayLine{
		buf:   make([]complex128, delay, size),
		base:  -delay,
		delay: delay,
		size:  size,
	}
	return d
}

// Write appends samples.  If they do not fit, even after discarding old
// history, ErrCapacity is returned and nothing is changed.
func (d *delayLine) Write(in []complex128) error {
	if len(d.buf)+len(in) > d.size {
		if d.delay+len(in) > d.size {
			return fmt.Errorf("%w: %d samples with %d of history in a line of %d",
				ErrCapacity, len(in), d.delay, d.size)
		}
		var drop = len(d.buf) - d.delay
		copy(d.buf, d.buf[drop:])
		d.buf = d.buf[:d.delay]
		d.base += drop
	}

	d.buf = append(d.buf, in...)
	return nil
}

// End is the stream position just past the newest sample.
func (d *delayLine) End() int {
	return d.base + len(d.buf)
}

// Start is the oldest stream position still held.
func (d *delayLine) Start() int {
	return d.base
}

// Window returns n samples starting at stream position pos.  The slice
// shares storage with the line and is only valid until the next Write.
func (d *delayLine) Window(pos, n int) []complex128 {
	Assert(pos >= d.base && pos+n <= d.End())
	return d.buf[pos-d.base : pos-d.base+n]
}

// Room is the largest Write which is sure to succeed.
func (d *delayLine) Room() int {
	return d.size - d.delay
}
