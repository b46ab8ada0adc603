package main

import (
	"errors"
	"sync"

	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*simBattery)(nil)

// simBattery answers Smart Battery word and block reads on the bench.
type simBattery struct {
	mu    sync.Mutex
	words map[byte]uint16
	names map[byte]string
}

func newBattery() *simBattery {
	return &simBattery{
		words: map[byte]uint16{
			0x08: 2981,  // 25.0 °C in deci-K
			0x09: 15400, // mV
			0x0A: 0xFE0C,
			0x0D: 76,
			0x0F: 3950,
			0x10: 5200,
			0x14: 0,
			0x15: 0,
			0x16: 0x00C0, // initialised, discharging
		},
		names: map[byte]string{
			0x20: "BENCH",
			0x21: "SIM-4S1P",
			0x22: "LION",
		},
	}
}

func (b *simBattery) Tx(addr uint16, w, r []byte) error {
	if len(w) == 0 {
		return errors.New("smbus: empty command")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cmd := w[0]
	if len(w) == 3 {
		b.words[cmd] = uint16(w[1]) | uint16(w[2])<<8
		return nil
	}
	if s, ok := b.names[cmd]; ok {
		r[0] = byte(len(s))
		copy(r[1:], s)
		return nil
	}
	v := b.words[cmd]
	if len(r) >= 2 {
		r[0], r[1] = byte(v), byte(v>>8)
	}
	return nil
}
