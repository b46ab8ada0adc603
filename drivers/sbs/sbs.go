package sbs

import (
	"errors"

	"tinygo.org/x/drivers"
)

type (
	Mode   uint16
	Status uint16
)

func (m Mode) Has(flag Mode) bool     { return m&flag != 0 }
func (s Status) Has(flag Status) bool { return s&flag != 0 }

var (
	ErrNotApplicable = errors.New("sbs: not applicable")
	ErrAtRateNotOK   = errors.New("sbs: at-rate calculation not ready")
	ErrInvalidRate   = errors.New("sbs: rate must be non-zero")
	ErrBlockLength   = errors.New("sbs: bad block length")
)

// Device represents a gauge on an SMBus.
type Device struct {
	bus  drivers.I2C
	addr uint16

	// Fixed buffers to avoid per-call heap allocations.
	w [3]byte
	r [maxBlock + 1]byte
}

// New returns a Device at addr, or AddressDefault when addr is zero. The bus
// is not touched.
func New(bus drivers.I2C, addr uint16) *Device {
	if addr == 0 {
		addr = AddressDefault
	}
	return &Device{bus: bus, addr: addr}
}

// SMBus word operations (little-endian: LOW then HIGH).

func (d *Device) readWord(cmd byte) (uint16, error) {
	d.w[0] = cmd
	if err := d.bus.Tx(d.addr, d.w[:1], d.r[:2]); err != nil {
		return 0, err
	}
	return uint16(d.r[0]) | uint16(d.r[1])<<8, nil
}

func (d *Device) readS16(cmd byte) (int16, error) {
	u, err := d.readWord(cmd)
	return int16(u), err
}

func (d *Device) writeWord(cmd byte, val uint16) error {
	d.w[0] = cmd
	d.w[1] = byte(val)
	d.w[2] = byte(val >> 8)
	return d.bus.Tx(d.addr, d.w[:3], nil)
}

// readBlock reads an SMBus block into a string. Trailing NULs are dropped.
func (d *Device) readBlock(cmd byte) (string, error) {
	d.w[0] = cmd
	if err := d.bus.Tx(d.addr, d.w[:1], d.r[:]); err != nil {
		return "", err
	}
	n := int(d.r[0])
	if n > maxBlock {
		return "", ErrBlockLength
	}
	b := d.r[1 : 1+n]
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return string(b), nil
}

func (d *Device) readTime(cmd byte) (int, error) {
	v, err := d.readWord(cmd)
	if err != nil {
		return 0, err
	}
	if v == timeNotApplicable {
		return 0, ErrNotApplicable
	}
	return int(v), nil
}

// Mode.

func (d *Device) Mode() (Mode, error) {
	v, err := d.readWord(cmdBatteryMode)
	return Mode(v), err
}

func (d *Device) SetMode(m Mode) error { return d.writeWord(cmdBatteryMode, uint16(m)) }

// In10mWMode reports whether capacities are in 10 mWh units.
func (d *Device) In10mWMode() (bool, error) {
	m, err := d.Mode()
	if err != nil {
		return false, err
	}
	return m.Has(ModeCapacity), nil
}

// Set10mWMode switches capacity reporting units with a read-modify-write of
// BatteryMode.
func (d *Device) Set10mWMode(enabled bool) error {
	m, err := d.Mode()
	if err != nil {
		return err
	}
	if enabled {
		m |= ModeCapacity
	} else {
		m &^= ModeCapacity
	}
	return d.SetMode(m)
}

// Telemetry.

func (d *Device) TemperatureDeciK() (int, error) {
	v, err := d.readWord(cmdTemperature)
	return int(v), err
}

func (d *Device) Voltage_mV() (int, error) {
	v, err := d.readWord(cmdVoltage)
	return int(v), err
}

func (d *Device) DesignVoltage_mV() (int, error) {
	v, err := d.readWord(cmdDesignVoltage)
	return int(v), err
}

// Current is positive while charging.
func (d *Device) Current_mA() (int, error) {
	v, err := d.readS16(cmdCurrent)
	return int(v), err
}

func (d *Device) AverageCurrent_mA() (int, error) {
	v, err := d.readS16(cmdAverageCurrent)
	return int(v), err
}

// Desired charging voltage and current requested by the pack.

func (d *Device) DesiredVoltage_mV() (int, error) {
	v, err := d.readWord(cmdChargingVoltage)
	return int(v), err
}

func (d *Device) DesiredCurrent_mA() (int, error) {
	v, err := d.readWord(cmdChargingCurrent)
	return int(v), err
}

// ChargingAllowed is true when the pack requests a non-zero charge.
func (d *Device) ChargingAllowed() (bool, error) {
	v, err := d.DesiredVoltage_mV()
	if err != nil {
		return false, err
	}
	c, err := d.DesiredCurrent_mA()
	if err != nil {
		return false, err
	}
	return v != 0 && c != 0, nil
}

// Capacity.

func (d *Device) StateOfCharge() (int, error) {
	v, err := d.readWord(cmdRelativeSOC)
	return int(v), err
}

func (d *Device) StateOfChargeAbs() (int, error) {
	v, err := d.readWord(cmdAbsoluteSOC)
	return int(v), err
}

func (d *Device) RemainingCapacity() (int, error) {
	v, err := d.readWord(cmdRemainingCapacity)
	return int(v), err
}

func (d *Device) FullChargeCapacity() (int, error) {
	v, err := d.readWord(cmdFullChargeCapacity)
	return int(v), err
}

func (d *Device) DesignCapacity() (int, error) {
	v, err := d.readWord(cmdDesignCapacity)
	return int(v), err
}

// Time estimates in minutes. ErrNotApplicable when the gauge reports none.

func (d *Device) TimeToEmpty() (int, error)    { return d.readTime(cmdAverageTimeToEmpty) }
func (d *Device) RunTimeToEmpty() (int, error) { return d.readTime(cmdRunTimeToEmpty) }
func (d *Device) TimeToFull() (int, error)     { return d.readTime(cmdAverageTimeToFull) }

// TimeAtRate asks the gauge how long the pack lasts (rate < 0) or takes to
// fill (rate > 0) at rate mA.
func (d *Device) TimeAtRate(rate int) (int, error) {
	if rate == 0 {
		return 0, ErrInvalidRate
	}
	if err := d.writeWord(cmdAtRate, uint16(int16(rate))); err != nil {
		return 0, err
	}
	ok, err := d.readWord(cmdAtRateOK)
	if err != nil {
		return 0, err
	}
	if ok == 0 {
		return 0, ErrAtRateNotOK
	}
	if rate < 0 {
		return d.readTime(cmdAtRateTimeToEmpty)
	}
	return d.readTime(cmdAtRateTimeToFull)
}

// Identity and health.

func (d *Device) Status() (Status, error) {
	v, err := d.readWord(cmdBatteryStatus)
	return Status(v), err
}

// Connected reports whether a pack answers at the address. It costs one
// BatteryStatus read.
func (d *Device) Connected() bool {
	_, err := d.Status()
	return err == nil
}

func (d *Device) CycleCount() (int, error) {
	v, err := d.readWord(cmdCycleCount)
	return int(v), err
}

func (d *Device) SerialNumber() (int, error) {
	v, err := d.readWord(cmdSerialNumber)
	return int(v), err
}

func (d *Device) ManufacturerName() (string, error) { return d.readBlock(cmdManufacturerName) }
func (d *Device) DeviceName() (string, error)       { return d.readBlock(cmdDeviceName) }
func (d *Device) DeviceChemistry() (string, error)  { return d.readBlock(cmdDeviceChemistry) }

// ManufactureDate unpacks (year-1980)<<9 | month<<5 | day.
func (d *Device) ManufactureDate() (year, month, day int, err error) {
	v, err := d.readWord(cmdManufactureDate)
	if err != nil {
		return 0, 0, 0, err
	}
	return int(v>>9) + 1980, int(v>>5) & 0x0F, int(v) & 0x1F, nil
}
