package peci

import (
	"errors"
	"log/slog"

	"ecpeci/chipset"
	"ecpeci/x/timex"
)

// Kelvin is an absolute temperature in whole kelvin.
type Kelvin int

func (k Kelvin) Celsius() int { return int(k) - kelvinAtZeroC }

// Config controls board-specific behaviour. Zero fields take defaults.
type Config struct {
	Revision BoardRevision
	// TjMax is the junction ceiling in °C that temperature samples are
	// relative to.
	TjMax int
	// Logger defaults to discarding everything.
	Logger *slog.Logger
}

// DefaultConfig returns a config for a current-revision board.
func DefaultConfig() Config {
	return Config{
		Revision: RevisionESPI,
		TjMax:    DefaultTjMaxC,
	}
}

// Validate basic required fields.
func (c Config) Validate() error {
	if c.TjMax <= 0 || c.TjMax > 0xFF {
		return errors.New("TjMax must be in 1..255 °C")
	}
	return nil
}

// Device is the PECI client for one CPU package.
type Device struct {
	link    Link
	chipset chipset.Reporter
	clock   timex.Clock
	rev     BoardRevision
	tjmax   int
	log     *slog.Logger
}

// New validates cfg and selects the write route once.
func New(cfg Config, direct Transport, tunnel Tunnel, cs chipset.Reporter, clk timex.Clock) (*Device, error) {
	if cfg.TjMax == 0 {
		cfg.TjMax = DefaultTjMaxC
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, errors.New("chipset reporter required")
	}
	if clk == nil {
		clk = timex.NewMonotonic()
	}
	link, err := SelectLink(cfg.Revision, direct, tunnel)
	if err != nil {
		return nil, err
	}
	lg := cfg.Logger
	if lg == nil {
		lg = slog.New(slog.DiscardHandler)
	}
	return &Device{
		link:    link,
		chipset: cs,
		clock:   clk,
		rev:     cfg.Revision,
		tjmax:   cfg.TjMax,
		log:     lg.With("drv", "peci", "route", link.Route().String()),
	}, nil
}

// Introspection.
func (d *Device) Route() Route            { return d.link.Route() }
func (d *Device) Revision() BoardRevision { return d.rev }
func (d *Device) TjMax() int              { return d.tjmax }
