package pecisim_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecpeci/chipset"
	"ecpeci/drivers/peci"
	"ecpeci/drivers/peci/pecisim"
	"ecpeci/errcode"
	"ecpeci/x/timex"
)

type switchable struct{ st chipset.State }

func (s *switchable) InState(mask chipset.State) bool { return s.st&mask != 0 }

func newDevice(t *testing.T, rev peci.BoardRevision, cs chipset.Reporter) (*peci.Device, *pecisim.CPU, *timex.Manual) {
	t.Helper()
	cpu := pecisim.New(100)
	clk := timex.NewManual(time.Minute)
	d, err := peci.New(peci.Config{Revision: rev, TjMax: 100}, cpu.Direct(), cpu.Tunnel(), cs, clk)
	require.NoError(t, err)
	return d, cpu, clk
}

func TestSimTemperature(t *testing.T) {
	d, cpu, _ := newDevice(t, peci.RevisionESPI, chipset.Fixed(chipset.On))
	cpu.SetTemperature(62)

	var g peci.Governor
	k, err := d.ReadTemperature(&g)
	require.NoError(t, err)
	assert.Equal(t, 62, k.Celsius())
	assert.Equal(t, 1, cpu.Count(peci.RouteTunnel, peci.CmdGetTemp))
	assert.Zero(t, cpu.Count(peci.RouteDirect, 0))
}

func TestSimOffStatesIssueNoTransactions(t *testing.T) {
	cs := &switchable{st: chipset.HardOff}
	d, cpu, clk := newDevice(t, peci.RevisionESPI, cs)
	var g peci.Governor

	for _, st := range []chipset.State{chipset.HardOff, chipset.SoftOff} {
		cs.st = st
		for range 10 {
			_, err := d.ReadTemperature(&g)
			assert.Equal(t, errcode.NotPowered, errcode.Of(err))
			_, err = d.UpdatePL1(15)
			assert.Equal(t, errcode.NotPowered, errcode.Of(err))
			clk.Advance(8 * time.Second)
		}
	}
	assert.Zero(t, cpu.Total())
}

func TestSimTimeoutRecoversOnce(t *testing.T) {
	d, cpu, _ := newDevice(t, peci.RevisionESPI, chipset.Fixed(chipset.On))
	cpu.SetTemperature(70)
	cpu.FailNext(peci.RouteTunnel, errcode.Timeout)

	var g peci.Governor
	k, err := d.ReadTemperature(&g)
	require.NoError(t, err)
	assert.Equal(t, 70, k.Celsius())
	assert.Equal(t, 1, cpu.Resyncs())
	assert.Equal(t, 1, cpu.Count(peci.RouteTunnel, peci.CmdGetTemp))
}

func TestSimRetryAfterFailure(t *testing.T) {
	d, cpu, _ := newDevice(t, peci.RevisionESPI, chipset.Fixed(chipset.On))
	cpu.FailNext(peci.RouteTunnel, errors.New("crc"), errors.New("crc"))

	var g peci.Governor
	_, err := d.ReadTemperature(&g)
	assert.Equal(t, errcode.Transport, errcode.Of(err))
	assert.Equal(t, 2, cpu.Count(peci.RouteTunnel, peci.CmdGetTemp))
	assert.Zero(t, cpu.Resyncs())
}

func TestSimStandbyRateLimit(t *testing.T) {
	cs := &switchable{st: chipset.On}
	d, cpu, clk := newDevice(t, peci.RevisionESPI, cs)
	var g peci.Governor

	_, err := d.ReadTemperature(&g)
	require.NoError(t, err)

	cs.st = chipset.Standby
	taken := 0
	for range 60 {
		clk.Advance(time.Second)
		if _, err := d.ReadTemperature(&g); err == nil {
			taken++
		}
	}
	// 60 s of standby at 1 Hz: windows of 7 quiet seconds, 3 samples and a
	// denied fourth.
	assert.Equal(t, 3*5+3, taken)
	assert.Equal(t, 1+taken, cpu.Count(peci.RouteTunnel, peci.CmdGetTemp))
}

func TestSimPowerLimitsDirect(t *testing.T) {
	d, cpu, _ := newDevice(t, 6, chipset.Fixed(chipset.On))

	st, err := d.UpdatePL1(28)
	require.NoError(t, err)
	assert.True(t, st.Delivered)
	assert.Equal(t, peci.EncodePowerLimit(peci.PL1, 28), cpu.Register(peci.AddrPL1))

	w, en, err := d.ReadPowerLimit(peci.PL1)
	require.NoError(t, err)
	assert.Equal(t, 28, w)
	assert.True(t, en)

	_, err = d.UpdatePL4(140)
	require.NoError(t, err)
	w, en, err = d.ReadPowerLimit(peci.PL4)
	require.NoError(t, err)
	assert.Equal(t, 140, w)
	assert.False(t, en)

	rec, ok := cpu.Last()
	require.True(t, ok)
	assert.Equal(t, peci.RouteDirect, rec.Route)
	assert.Equal(t, uint8(peci.CmdRdPkgConfig), rec.Command)
	assert.Equal(t, 200*time.Microsecond, rec.Timeout)
}

func TestSimPowerLimitsTunnelBestEffort(t *testing.T) {
	d, cpu, _ := newDevice(t, peci.RevisionESPI, chipset.Fixed(chipset.On))
	cpu.FailNext(peci.RouteTunnel, errcode.Timeout)

	st, err := d.UpdatePsysPL2(90)
	require.NoError(t, err)
	assert.True(t, st.BestEffort)
	assert.Error(t, st.Dropped)
	assert.Zero(t, cpu.Register(peci.AddrPsysPL2))

	st, err = d.UpdatePsysPL2(90)
	require.NoError(t, err)
	assert.NoError(t, st.Dropped)
	assert.Equal(t, peci.EncodePowerLimit(peci.PsysPL2, 90), cpu.Register(peci.AddrPsysPL2))
}

func TestSimUnknownRegister(t *testing.T) {
	d, _, _ := newDevice(t, 6, chipset.Fixed(chipset.On))
	_, err := d.ReadPackageConfigDword(peci.PkgConfigAddr{Index: 0x77})
	assert.Equal(t, errcode.Transport, errcode.Of(err))
}
