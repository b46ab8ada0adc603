package types

// ---- Common service state ----

// ServiceState is published when a service starts or stops.
type ServiceState struct {
	Level  string `json:"level"`  // "ready" | "stopped"
	Status string `json:"status"` // short reason, e.g. "ctx_done"
	TS     int64  `json:"ts_ms"`
}

// Link is the state reported for a value source.
type Link string

const (
	LinkDown     Link = "down"
	LinkDegraded Link = "degraded"
)

// ---- Value kinds ----

type Kind string

const (
	KindState          Kind = "state"
	KindCPUInfo        Kind = "cpu_info"
	KindCPUTemperature Kind = "cpu_temperature"
	KindPowerLimit     Kind = "power_limit"
	KindBattery        Kind = "battery"
)
