//go:build !linux

package mt63

import "fmt"

func openSerialLine(device string, _ bool) (outputLine, error) {
	return nil, fmt.Errorf("%w: serial PTT on %s is only done on Linux", ErrPTT, device)
}

func openGPIOLine(chip string, _ int) (outputLine, error) {
	return nil, fmt.Errorf("%w: GPIO PTT on %s is only done on Linux", ErrPTT, chip)
}
