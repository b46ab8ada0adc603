package sbs

// Snapshot collects the parameters the charger loop polls each cycle.
// Zero values remain where individual reads fail; Flags records which.
type Snapshot struct {
	TempDeciK          int
	Voltage_mV         int
	Current_mA         int
	DesiredVoltage_mV  int
	DesiredCurrent_mA  int
	StateOfCharge      int
	RemainingCapacity  int
	FullChargeCapacity int
	Status             Status

	Flags SnapshotFlags
}

// SnapshotFlags marks fields whose read failed.
type SnapshotFlags uint16

const (
	BadTemperature SnapshotFlags = 1 << iota
	BadVoltage
	BadCurrent
	BadDesired
	BadStateOfCharge
	BadRemaining
	BadFullCapacity
	BadStatus
)

func (f SnapshotFlags) Has(flag SnapshotFlags) bool { return f&flag != 0 }

func (d *Device) Snapshot() Snapshot {
	var s Snapshot
	if v, e := d.TemperatureDeciK(); e == nil {
		s.TempDeciK = v
	} else {
		s.Flags |= BadTemperature
	}
	if v, e := d.Voltage_mV(); e == nil {
		s.Voltage_mV = v
	} else {
		s.Flags |= BadVoltage
	}
	if v, e := d.Current_mA(); e == nil {
		s.Current_mA = v
	} else {
		s.Flags |= BadCurrent
	}
	v, ev := d.DesiredVoltage_mV()
	c, ec := d.DesiredCurrent_mA()
	if ev == nil && ec == nil {
		s.DesiredVoltage_mV, s.DesiredCurrent_mA = v, c
	} else {
		s.Flags |= BadDesired
	}
	if v, e := d.StateOfCharge(); e == nil {
		s.StateOfCharge = v
	} else {
		s.Flags |= BadStateOfCharge
	}
	if v, e := d.RemainingCapacity(); e == nil {
		s.RemainingCapacity = v
	} else {
		s.Flags |= BadRemaining
	}
	if v, e := d.FullChargeCapacity(); e == nil {
		s.FullChargeCapacity = v
	} else {
		s.Flags |= BadFullCapacity
	}
	if v, e := d.Status(); e == nil {
		s.Status = v
	} else {
		s.Flags |= BadStatus
	}
	return s
}
