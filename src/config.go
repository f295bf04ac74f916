package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	Modem settings, with defaults and optional YAML file.
 *
 * Description:	A configuration file looks like this.  Anything left
 *		out keeps its default value.
 *
 *		    bandwidth: 1000
 *		    long_interleave: false
 *		    integration: 16
 *		    squelch: 8
 *		    tx_level: -6
 *		    ptt:
 *		      device: /dev/ttyUSB0
 *		      line: RTS
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type PTTConfig struct {
	Device string `yaml:"device"` // Serial port or GPIO chip.  Empty for none.
	Line   string `yaml:"line"`   // RTS, DTR, or GPIO line offset.
	Invert bool   `yaml:"invert"`
}

type Config struct {
	Bandwidth      int     `yaml:"bandwidth"`
	LongInterleave bool    `yaml:"long_interleave"`
	Integration    int     `yaml:"integration"`
	Squelch        float64 `yaml:"squelch"`
	SigLimit       float64 `yaml:"sig_limit"`
	TxLevel        float64 `yaml:"tx_level"` // dB relative to SigLimit.
	Center         float64 `yaml:"center"`   // Hz, 0 for the usual one.
	TestOffset     float64 `yaml:"test_offset"`
	Seed           uint64  `yaml:"seed"`

	PTT PTTConfig `yaml:"ptt"`
}

func DefaultConfig() Config {
	return Config{ //nolint:exhaustruct
		Bandwidth:   1000,
		Integration: 16,
		Squelch:     8.0,
		SigLimit:    0.95,
		TxLevel:     0,
		Seed:        1,
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	var c = DefaultConfig()

	var data, err = os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return c, c.Validate()
}

func (c Config) Validate() error {
	var errs []error

	if _, err := NewMode(c.Bandwidth, c.Center); err != nil {
		errs = append(errs, err)
	}

	if c.Integration < 2 || c.Integration%2 != 0 {
		errs = append(errs, fmt.Errorf("%w: %d, must be even and at least 2", ErrInvalidIntegration, c.Integration))
	}

	if c.SigLimit <= 0 || c.SigLimit > 1 {
		errs = append(errs, fmt.Errorf("sig_limit %g must be above 0 and no more than 1", c.SigLimit))
	}

	return errors.Join(errs...)
}

// Mode for the configured bandwidth and center.
func (c Config) Mode() (Mode, error) {
	return NewMode(c.Bandwidth, c.Center)
}

// Depth is the interleave length in symbols.
func (c Config) Depth() int {
	return IfThenElse(c.LongInterleave, longInterleave, shortInterleave)
}

// MaxCode is the first character value which needs an escape.
func (c Config) MaxCode() int {
	return 2 * c.Depth()
}
