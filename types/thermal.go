package types

// ------------------------
// CPU package (PECI)
// ------------------------

type CPUInfo struct {
	Route    string `json:"route"`    // "peci" | "espi"
	Revision uint8  `json:"revision"` // board revision
	TjMaxC   int    `json:"tjmax_c"`
}

type ThermalValue struct {
	Kelvin int   `json:"k"`
	TS     int64 `json:"ts_ms"`
}

// ThermalStatus reports a cycle that produced no sample.
type ThermalStatus struct {
	Link  Link   `json:"link"`
	Code  string `json:"code"` // errcode value, e.g. "not_powered"
	TS    int64  `json:"ts_ms"`
	Error string `json:"error,omitempty"`
}

// SetPowerLimit asks for one limit to be reprogrammed.
// Limit is one of "pl1", "pl2", "pl4", "psys_pl2".
type SetPowerLimit struct {
	Limit string `json:"limit"`
	Watt  int    `json:"watt"`
}

type PowerLimitResult struct {
	Limit      string `json:"limit"`
	Watt       int    `json:"watt"`
	Delivered  bool   `json:"delivered"`
	BestEffort bool   `json:"best_effort"`
	Code       string `json:"code"`
	Error      string `json:"error,omitempty"`
}
