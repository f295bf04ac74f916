package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	Push to talk (PTT) for the live tool.
 *
 * Description:	Traditionally this is done with the RTS signal of the
 *		serial port.  DTR can be used instead.  On Linux a GPIO
 *		line can also be used, by way of the character device.
 *
 *		    ptt:
 *		      device: /dev/ttyUSB0
 *		      line: RTS
 *
 *		    ptt:
 *		      device: gpiochip0
 *		      line: 17
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrPTT = errors.New("PTT not available")

// Anything which can be driven high or low.  Serial modem control
// lines and GPIO lines both look like this.
type outputLine interface {
	SetValue(v int) error
	Close() error
}

type PTT struct {
	line   outputLine
	invert bool
	on     bool
}

/*------------------------------------------------------------------
 *
 * Name:	OpenPTT
 *
 * Purpose:	Get ready to key the transmitter.
 *
 * Returns:	nil PTT and no error when no device is configured.
 *		A nil *PTT is fine to use, it does nothing.
 *
 *---------------------------------------------------------------*/

func OpenPTT(cfg PTTConfig) (*PTT, error) {
	if cfg.Device == "" {
		return nil, nil //nolint:nilnil
	}

	var line outputLine
	var err error

	switch strings.ToUpper(cfg.Line) {
	case "RTS", "":
		line, err = openSerialLine(cfg.Device, false)
	case "DTR":
		line, err = openSerialLine(cfg.Device, true)
	default:
		var offset, convErr = strconv.Atoi(cfg.Line)
		if convErr != nil || offset < 0 {
			return nil, fmt.Errorf("%w: line \"%s\" should be RTS, DTR, or a GPIO line number", ErrPTT, cfg.Line)
		}
		line, err = openGPIOLine(cfg.Device, offset)
	}

	if err != nil {
		return nil, err
	}

	logger.Info("PTT", "device", cfg.Device, "line", cfg.Line, "invert", cfg.Invert)

	var p = &PTT{line: line, invert: cfg.Invert, on: false}

	// Make sure we start out not transmitting.
	if err := p.Set(false); err != nil {
		line.Close()
		return nil, err
	}

	return p, nil
}

// Set turns the transmitter on or off.
func (p *PTT) Set(on bool) error {
	if p == nil {
		return nil
	}

	var v = IfThenElse(on != p.invert, 1, 0)
	if err := p.line.SetValue(v); err != nil {
		return fmt.Errorf("setting PTT: %w", err)
	}
	p.on = on
	return nil
}

func (p *PTT) On() bool {
	return p != nil && p.on
}

// Close turns off the transmitter, then lets go of the line.
func (p *PTT) Close() error {
	if p == nil {
		return nil
	}

	return errors.Join(p.Set(false), p.line.Close())
}
