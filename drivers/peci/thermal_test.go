package peci

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ecpeci/chipset"
	"ecpeci/errcode"
)

func TestDecodeTemperatureVectors(t *testing.T) {
	k, err := DecodeTemperature(0xFFC0, 100)
	require.NoError(t, err)
	assert.Equal(t, Kelvin(372), k)

	_, err = DecodeTemperature(0x0000, 100)
	assert.Equal(t, errcode.OutOfRange, errcode.Of(err))

	// 0xFFFF is 1/64 °C below Tjmax; the fraction is dropped.
	k, err = DecodeTemperature(0xFFFF, 100)
	require.NoError(t, err)
	assert.Equal(t, Kelvin(373), k)

	// 40 °C below a 105 °C ceiling.
	k, err = DecodeTemperature(uint16(0x10000-40*64), 105)
	require.NoError(t, err)
	assert.Equal(t, Kelvin(105-40+273), k)

	// Offset equal to Tjmax is rejected.
	_, err = DecodeTemperature(uint16(0x10000-100*64), 100)
	assert.Equal(t, errcode.OutOfRange, errcode.Of(err))
}

func TestDecodeTemperatureMatchesFormula(t *testing.T) {
	for raw := 0; raw <= 0xFFFF; raw++ {
		offset := ((raw ^ 0xFFFF) + 1) >> 6
		k, err := DecodeTemperature(uint16(raw), 100)
		if offset >= 100 {
			if errcode.Of(err) != errcode.OutOfRange {
				t.Fatalf("raw %#04x: want out of range, got %v", raw, err)
			}
			continue
		}
		if err != nil || int(k) != 100-offset+273 {
			t.Fatalf("raw %#04x: got %d, %v", raw, k, err)
		}
	}
}

func fillTemp(raw uint16) func(*Transaction) error {
	return func(tx *Transaction) error {
		tx.Read[0] = byte(raw)
		tx.Read[1] = byte(raw >> 8)
		return nil
	}
}

func TestCPUTemperatureUsesTunnelOnly(t *testing.T) {
	for _, rev := range []BoardRevision{6, RevisionESPI} {
		r := newRig(t, rev, chipset.On)
		r.tunnel.EXPECT().Execute(gomock.Any()).DoAndReturn(func(tx *Transaction) error {
			assert.Equal(t, uint8(CmdGetTemp), tx.Command)
			assert.Equal(t, uint8(TargetAddress), tx.Address)
			assert.Equal(t, GetTempWriteLen, tx.WriteLen)
			assert.Nil(t, tx.Write)
			assert.Equal(t, GetTempReadLen, tx.ReadLen)
			assert.Equal(t, uint32(GetTempTimeoutUs), tx.TimeoutUs)
			return fillTemp(0xFFC0)(tx)
		})
		k, err := r.dev.CPUTemperature()
		require.NoError(t, err)
		assert.Equal(t, Kelvin(372), k)
	}
}

func TestCPUTemperatureTimeoutResync(t *testing.T) {
	r := newRig(t, RevisionESPI, chipset.On)
	gomock.InOrder(
		r.tunnel.EXPECT().Execute(gomock.Any()).Return(errcode.Timeout),
		r.tunnel.EXPECT().RetryReceive(gomock.Any()).DoAndReturn(func(read []byte) error {
			read[0], read[1] = 0xC0, 0xFF
			return nil
		}).Times(1),
	)
	k, err := r.dev.CPUTemperature()
	require.NoError(t, err)
	assert.Equal(t, Kelvin(372), k)
}

func TestCPUTemperatureResyncFailureKeepsTimeout(t *testing.T) {
	r := newRig(t, RevisionESPI, chipset.On)
	r.tunnel.EXPECT().Execute(gomock.Any()).Return(errcode.Timeout)
	r.tunnel.EXPECT().RetryReceive(gomock.Any()).Return(errors.New("still nothing"))
	_, err := r.dev.CPUTemperature()
	assert.True(t, errors.Is(err, errcode.Timeout))
}

func TestCPUTemperatureOtherFailureSkipsResync(t *testing.T) {
	r := newRig(t, RevisionESPI, chipset.On)
	r.tunnel.EXPECT().Execute(gomock.Any()).Return(errors.New("oob error"))
	_, err := r.dev.CPUTemperature()
	assert.Equal(t, errcode.Transport, errcode.Of(err))
}

func TestReadTemperatureRetriesOnce(t *testing.T) {
	r := newRig(t, RevisionESPI, chipset.On)
	var g Governor

	// Out of range then good.
	gomock.InOrder(
		r.tunnel.EXPECT().Execute(gomock.Any()).DoAndReturn(fillTemp(0x0000)),
		r.tunnel.EXPECT().Execute(gomock.Any()).DoAndReturn(fillTemp(0xFFC0)),
	)
	k, err := r.dev.ReadTemperature(&g)
	require.NoError(t, err)
	assert.Equal(t, Kelvin(372), k)

	// Two failures: the last one is surfaced.
	gomock.InOrder(
		r.tunnel.EXPECT().Execute(gomock.Any()).Return(errors.New("first")),
		r.tunnel.EXPECT().Execute(gomock.Any()).DoAndReturn(fillTemp(0x0000)),
	)
	_, err = r.dev.ReadTemperature(&g)
	assert.Equal(t, errcode.OutOfRange, errcode.Of(err))
}

func TestReadTemperatureDeniedMakesNoTransaction(t *testing.T) {
	for _, st := range []chipset.State{chipset.HardOff, chipset.SoftOff} {
		r := newRig(t, RevisionESPI, st)
		var g Governor
		for range 5 {
			_, err := r.dev.ReadTemperature(&g)
			assert.Equal(t, errcode.NotPowered, errcode.Of(err))
			r.clock.Advance(10 * time.Second)
		}
	}
}
