package config

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"ecpeci/drivers/peci"
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// BoardConfig is the per-board setup of the thermal service.
type BoardConfig struct {
	Revision       uint8       `json:"revision"`
	TjMaxC         int         `json:"tjmax_c"`
	PollIntervalMs int         `json:"poll_interval_ms"`
	Standby        Standby     `json:"standby"`
	PowerLimits    PowerLimits `json:"power_limits"`
	Battery        *BatteryBus `json:"battery,omitempty"`
}

// Standby overrides the standby sampling policy. Zero keeps the default.
type Standby struct {
	WindowMs int `json:"window_ms,omitempty"`
	Budget   int `json:"budget,omitempty"`
}

// PowerLimits are programmed once the host is on. Zero leaves a limit at
// the CPU's default.
type PowerLimits struct {
	PL1     int `json:"pl1,omitempty"`
	PL2     int `json:"pl2,omitempty"`
	PL4     int `json:"pl4,omitempty"`
	PsysPL2 int `json:"psys_pl2,omitempty"`
}

// BatteryBus locates the smart battery.
type BatteryBus struct {
	Bus  string `json:"bus"`  // e.g. "i2c0"
	Addr uint16 `json:"addr"` // 7-bit
}

// Boards lists the embedded board names.
func Boards() []string {
	names := make([]string, 0, len(embeddedConfigs))
	for k := range embeddedConfigs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Lookup decodes the embedded config for board.
func Lookup(board string) (BoardConfig, error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return BoardConfig{}, errors.New("no embedded config for board: " + board)
	}
	return Decode(raw)
}

// Decode parses raw JSON, fills defaults and validates.
func Decode(raw []byte) (BoardConfig, error) {
	var c BoardConfig
	if err := json.Unmarshal(raw, &c); err != nil {
		return BoardConfig{}, err
	}
	if c.TjMaxC == 0 {
		c.TjMaxC = peci.DefaultTjMaxC
	}
	if c.PollIntervalMs == 0 {
		c.PollIntervalMs = 1000
	}
	if err := c.Validate(); err != nil {
		return BoardConfig{}, err
	}
	return c, nil
}

// Validate basic ranges.
func (c BoardConfig) Validate() error {
	if c.PollIntervalMs < 0 {
		return errors.New("poll_interval_ms must be positive")
	}
	if c.Standby.WindowMs < 0 || c.Standby.Budget < 0 {
		return errors.New("standby window and budget must not be negative")
	}
	for _, w := range []int{c.PowerLimits.PL1, c.PowerLimits.PL2, c.PowerLimits.PL4, c.PowerLimits.PsysPL2} {
		if w < 0 || w > peci.MaxWatt {
			return errors.New("power limit out of range")
		}
	}
	return c.Peci().Validate()
}

// Peci returns the driver config for this board.
func (c BoardConfig) Peci() peci.Config {
	return peci.Config{
		Revision: peci.BoardRevision(c.Revision),
		TjMax:    c.TjMaxC,
	}
}

// Governor returns a fresh governor with this board's standby policy.
func (c BoardConfig) Governor() *peci.Governor {
	return &peci.Governor{
		Window: time.Duration(c.Standby.WindowMs) * time.Millisecond,
		Budget: c.Standby.Budget,
	}
}

func (c BoardConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Limits lists the non-zero power limits in programming order.
func (c BoardConfig) Limits() []Limit {
	var out []Limit
	for _, l := range []Limit{
		{peci.PL1, c.PowerLimits.PL1},
		{peci.PL2, c.PowerLimits.PL2},
		{peci.PL4, c.PowerLimits.PL4},
		{peci.PsysPL2, c.PowerLimits.PsysPL2},
	} {
		if l.Watt != 0 {
			out = append(out, l)
		}
	}
	return out
}

// Limit pairs a power-limit register with a wattage.
type Limit struct {
	Kind peci.PowerLimit
	Watt int
}
