package peci

import (
	"ecpeci/chipset"
	"ecpeci/errcode"
	"ecpeci/x/mathx"
)

// PowerLimit names a package power-limit register.
type PowerLimit uint8

const (
	PL1 PowerLimit = iota
	PL2
	PL4
	PsysPL2
)

func (p PowerLimit) String() string {
	switch p {
	case PL1:
		return "pl1"
	case PL2:
		return "pl2"
	case PL4:
		return "pl4"
	case PsysPL2:
		return "psys_pl2"
	default:
		return "unknown"
	}
}

// limitLayout is the register layout for one limit. PL4 has no enable bit
// and no time window.
type limitLayout struct {
	addr   PkgConfigAddr
	enable uint32
	window uint32
}

var layouts = [...]limitLayout{
	PL1:     {addr: AddrPL1, enable: plEnable, window: pl1TimeWindow},
	PL2:     {addr: AddrPL2, enable: plEnable, window: pl2TimeWindow},
	PL4:     {addr: AddrPL4},
	PsysPL2: {addr: AddrPsysPL2, enable: plEnable, window: psysPL2TimeWindow},
}

func (p PowerLimit) layout() (limitLayout, bool) {
	if int(p) >= len(layouts) {
		return limitLayout{}, false
	}
	return layouts[p], true
}

// Addr returns the register address of p.
func (p PowerLimit) Addr() PkgConfigAddr {
	l, _ := p.layout()
	return l.addr
}

// EncodePowerLimit packs watt into the register value for p. Watts outside
// 0..MaxWatt are clamped.
func EncodePowerLimit(p PowerLimit, watt int) uint32 {
	l, _ := p.layout()
	w := mathx.Clamp(watt, 0, MaxWatt)
	return l.window | l.enable | mathx.ToFixed(w, plFracBits, plFieldWidth)
}

// DecodePowerLimit is the inverse of EncodePowerLimit.
func DecodePowerLimit(p PowerLimit, reg uint32) (watt int, enabled bool) {
	l, _ := p.layout()
	watt = int(mathx.FromFixed(reg, plFracBits, plFieldWidth))
	enabled = l.enable != 0 && reg&l.enable != 0
	return watt, enabled
}

// UpdatePowerLimit programs p to watt. The host must be fully on.
func (d *Device) UpdatePowerLimit(p PowerLimit, watt int) (WriteStatus, error) {
	l, ok := p.layout()
	if !ok {
		return WriteStatus{}, &errcode.E{C: errcode.InvalidParams, Op: "peci.update_power_limit", Msg: "unknown limit"}
	}
	if !d.chipset.InState(chipset.On) {
		return WriteStatus{}, errcode.NotPowered
	}
	return d.WritePackageConfig(l.addr.Index, l.addr.Parameter, EncodePowerLimit(p, watt), WrPkgConfigWriteLenDword)
}

func (d *Device) UpdatePL1(watt int) (WriteStatus, error) { return d.UpdatePowerLimit(PL1, watt) }
func (d *Device) UpdatePL2(watt int) (WriteStatus, error) { return d.UpdatePowerLimit(PL2, watt) }
func (d *Device) UpdatePL4(watt int) (WriteStatus, error) { return d.UpdatePowerLimit(PL4, watt) }
func (d *Device) UpdatePsysPL2(watt int) (WriteStatus, error) {
	return d.UpdatePowerLimit(PsysPL2, watt)
}

// ReadPowerLimit reads p back over RdPkgConfig.
func (d *Device) ReadPowerLimit(p PowerLimit) (watt int, enabled bool, err error) {
	l, ok := p.layout()
	if !ok {
		return 0, false, &errcode.E{C: errcode.InvalidParams, Op: "peci.read_power_limit", Msg: "unknown limit"}
	}
	if !d.chipset.InState(chipset.On) {
		return 0, false, errcode.NotPowered
	}
	reg, err := d.ReadPackageConfigDword(l.addr)
	if err != nil {
		return 0, false, err
	}
	watt, enabled = DecodePowerLimit(p, reg)
	return watt, enabled, nil
}

// ParsePowerLimit maps a name from String back to its PowerLimit.
func ParsePowerLimit(name string) (PowerLimit, bool) {
	for _, p := range []PowerLimit{PL1, PL2, PL4, PsysPL2} {
		if p.String() == name {
			return p, true
		}
	}
	return 0, false
}
