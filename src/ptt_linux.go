package mt63

import (
	"fmt"
	"os"

	"github.com/warthog618/go-gpiocdev"
	"golang.org/x/sys/unix"
)

type serialLine struct {
	f   *os.File
	bit int
}

func openSerialLine(device string, dtr bool) (outputLine, error) {
	var f, err = os.OpenFile(device, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: can't open %s: %w", ErrPTT, device, err)
	}

	return &serialLine{f: f, bit: IfThenElse(dtr, unix.TIOCM_DTR, unix.TIOCM_RTS)}, nil
}

func (s *serialLine) SetValue(v int) error {
	var fd = int(s.f.Fd()) //nolint:gosec

	var stuff, err = unix.IoctlGetInt(fd, unix.TIOCMGET)
	if err != nil {
		return err
	}

	if v != 0 {
		stuff |= s.bit
	} else {
		stuff &^= s.bit
	}

	return unix.IoctlSetInt(fd, unix.TIOCMSET, stuff)
}

func (s *serialLine) Close() error {
	return s.f.Close()
}

func openGPIOLine(chip string, offset int) (outputLine, error) {
	var l, err = gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("mt63"))
	if err != nil {
		return nil, fmt.Errorf("%w: can't get %s line %d: %w", ErrPTT, chip, offset, err)
	}
	return l, nil
}
