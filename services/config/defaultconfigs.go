package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board name
// Val: raw JSON bytes for that board
// -----------------------------------------------------------------------------

const cfgHX30 = `{
  "revision": 7,
  "tjmax_c": 100,
  "poll_interval_ms": 1000,
  "standby": {
    "window_ms": 7000,
    "budget": 3
  },
  "power_limits": {
    "pl1": 28,
    "pl2": 64,
    "pl4": 140,
    "psys_pl2": 90
  },
  "battery": {
    "bus": "i2c0",
    "addr": 11
  }
}`

// DVT1 boards still have the PECI pin wired.
const cfgHX30DVT1 = `{
  "revision": 6,
  "tjmax_c": 100,
  "poll_interval_ms": 1000,
  "power_limits": {
    "pl1": 15,
    "pl2": 40
  }
}`

var embeddedConfigs = map[string][]byte{
	"hx30":      []byte(cfgHX30),
	"hx30-dvt1": []byte(cfgHX30DVT1),
}
