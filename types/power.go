package types

// ------------------------
// Battery (smart battery gauge)
// ------------------------

type BatteryInfo struct {
	Manufacturer string `json:"manufacturer"`
	Device       string `json:"device"`
	Chemistry    string `json:"chem"`
	Serial       int    `json:"serial"`
	DesignmAh    int    `json:"design_mAh"`
	DesignmV     int    `json:"design_mV"`
	Bus          string `json:"bus"`
	Addr         uint16 `json:"addr"`
}

type BatteryValue struct {
	PackMilliV   int    `json:"pack_mV"`
	IBatMilliA   int    `json:"ibat_mA"`
	TempDeciK    int    `json:"temp_dK"`
	SoCPercent   int    `json:"soc_pct"`
	RemainingmAh int    `json:"remaining_mAh"`
	FullmAh      int    `json:"full_mAh"`
	Status       uint16 `json:"status"` // raw BatteryStatus bits
	TS           int64  `json:"ts_ms"`
}
