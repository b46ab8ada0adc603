package peci

import (
	"errors"

	"ecpeci/errcode"
	"ecpeci/x/mathx"
)

// DecodeTemperature converts a GetTemp sample to kelvin. The sample is a
// negative offset from tjmax in two's complement with 6 fractional bits.
// An offset at or beyond tjmax is reported as OutOfRange.
func DecodeTemperature(raw uint16, tjmax int) (Kelvin, error) {
	offset := int(mathx.NegMagnitude16(raw) >> tempFracBits)
	if offset >= tjmax {
		return 0, errcode.OutOfRange
	}
	return Kelvin(tjmax - offset + kelvinAtZeroC), nil
}

// CPUTemperature samples the package temperature once. GetTemp exists only
// on the tunnel.
func (d *Device) CPUTemperature() (Kelvin, error) {
	var r [GetTempReadLen]byte
	tx := Transaction{
		Command:   CmdGetTemp,
		Address:   TargetAddress,
		WriteLen:  GetTempWriteLen,
		Read:      r[:],
		ReadLen:   GetTempReadLen,
		TimeoutUs: GetTempTimeoutUs,
	}
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	err := d.link.tunnel.Execute(&tx)
	if errors.Is(err, errcode.Timeout) {
		d.log.Warn("espi get temp timeout, resyncing")
		if rerr := d.link.tunnel.RetryReceive(r[:]); rerr == nil {
			err = nil
		}
	}
	if err != nil {
		return 0, transportErr("peci.get_temp", err)
	}

	raw := uint16(r[0]) | uint16(r[1])<<8
	return DecodeTemperature(raw, d.tjmax)
}

// ReadTemperature is the polling entry point: the governor decides first,
// with no bus traffic when it denies, then the sample is taken with one
// retry on any failure.
func (d *Device) ReadTemperature(g *Governor) (Kelvin, error) {
	if err := g.Allow(d.clock.Now(), d.chipset); err != nil {
		return 0, err
	}
	var (
		k   Kelvin
		err error
	)
	for range readAttempts {
		if k, err = d.CPUTemperature(); err == nil {
			return k, nil
		}
	}
	return 0, err
}

const readAttempts = 2
