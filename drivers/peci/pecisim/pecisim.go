// Package pecisim is an in-memory CPU package that answers PECI
// transactions on both the direct pin and the eSPI tunnel. It backs the
// bench CLI and the tests, counts every transaction it sees and can be told
// to fail.
package pecisim

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"ecpeci/drivers/peci"
	"ecpeci/errcode"
	"ecpeci/x/timex"
)

// Completion codes.
const (
	ccPassed  = 0x40
	ccInvalid = 0x90
)

// Record is a copy of one transaction as seen on the wire.
type Record struct {
	Route   peci.Route
	Command uint8
	Address uint8
	Write   []byte
	ReadLen int
	Timeout time.Duration
}

// CPU simulates one package. Safe for concurrent use.
type CPU struct {
	mu sync.Mutex

	tjmax int
	raw   uint16
	regs  map[peci.PkgConfigAddr]uint32

	faults map[peci.Route][]error
	late   bool // a timed-out GetTemp has a response waiting
	resync int

	log []Record
}

// New returns a CPU idling 50 °C below tjmax with the power-limit
// registers present and zero.
func New(tjmax int) *CPU {
	c := &CPU{
		tjmax:  tjmax,
		regs:   map[peci.PkgConfigAddr]uint32{},
		faults: map[peci.Route][]error{},
	}
	for _, a := range []peci.PkgConfigAddr{peci.AddrPL1, peci.AddrPL2, peci.AddrPL4, peci.AddrPsysPL2} {
		c.regs[a] = 0
	}
	c.setOffsetQ6(50 << 6)
	return c
}

// SetTemperature sets the die temperature in whole °C.
func (c *CPU) SetTemperature(celsius int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setOffsetQ6((c.tjmax - celsius) << 6)
}

// SetRaw sets the GetTemp response verbatim.
func (c *CPU) SetRaw(raw uint16) {
	c.mu.Lock()
	c.raw = raw
	c.mu.Unlock()
}

func (c *CPU) setOffsetQ6(q6 int) { c.raw = uint16(-q6) }

// FailNext queues errors for the next transactions on route, in order.
// A nil entry lets that transaction through.
func (c *CPU) FailNext(route peci.Route, errs ...error) {
	c.mu.Lock()
	c.faults[route] = append(c.faults[route], errs...)
	c.mu.Unlock()
}

// Register returns the stored value of a package-config register.
func (c *CPU) Register(a peci.PkgConfigAddr) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[a]
}

// SetRegister stores v, creating the register if needed.
func (c *CPU) SetRegister(a peci.PkgConfigAddr, v uint32) {
	c.mu.Lock()
	c.regs[a] = v
	c.mu.Unlock()
}

// Count returns how many transactions with cmd reached route. cmd 0 counts
// every command.
func (c *CPU) Count(route peci.Route, cmd uint8) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.log {
		if r.Route == route && (cmd == 0 || r.Command == cmd) {
			n++
		}
	}
	return n
}

// Total returns the number of transactions on any route.
func (c *CPU) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.log)
}

// Resyncs returns how many times the tunnel was asked to re-synchronise.
func (c *CPU) Resyncs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resync
}

// Last returns the most recent transaction, if any.
func (c *CPU) Last() (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.log) == 0 {
		return Record{}, false
	}
	return c.log[len(c.log)-1], true
}

// Direct returns the CPU as seen on the PECI pin.
func (c *CPU) Direct() peci.Transport { return &port{cpu: c, route: peci.RouteDirect} }

// Tunnel returns the CPU as seen through eSPI OOB.
func (c *CPU) Tunnel() peci.Tunnel { return &port{cpu: c, route: peci.RouteTunnel} }

type port struct {
	cpu   *CPU
	route peci.Route
}

func (p *port) Execute(tx *peci.Transaction) error { return p.cpu.execute(p.route, tx) }

func (p *port) RetryReceive(read []byte) error {
	c := p.cpu
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resync++
	if !c.late || len(read) < peci.GetTempReadLen {
		return errcode.Timeout
	}
	c.late = false
	binary.LittleEndian.PutUint16(read, c.raw)
	return nil
}

func (c *CPU) execute(route peci.Route, tx *peci.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rec := Record{
		Route:   route,
		Command: tx.Command,
		Address: tx.Address,
		ReadLen: tx.ReadLen,
		Timeout: timex.Micros(tx.TimeoutUs),
	}
	if tx.Write != nil {
		rec.Write = append([]byte(nil), tx.Write[:tx.WriteLen]...)
	}
	c.log = append(c.log, rec)

	if q := c.faults[route]; len(q) > 0 {
		err := q[0]
		c.faults[route] = q[1:]
		if err != nil {
			c.late = route == peci.RouteTunnel && tx.Command == peci.CmdGetTemp && errors.Is(err, errcode.Timeout)
			return err
		}
	}

	switch tx.Command {
	case peci.CmdGetTemp:
		binary.LittleEndian.PutUint16(tx.Read, c.raw)
	case peci.CmdRdPkgConfig:
		a := addrOf(tx.Write)
		v, ok := c.regs[a]
		if !ok {
			tx.Read[0] = ccInvalid
			return nil
		}
		tx.Read[0] = ccPassed
		for i := 1; i < tx.ReadLen; i++ {
			tx.Read[i] = byte(v >> ((i - 1) * 8))
		}
	case peci.CmdWrPkgConfig:
		a := addrOf(tx.Write)
		if _, ok := c.regs[a]; !ok {
			tx.Read[0] = ccInvalid
			return nil
		}
		var v uint32
		for i := 4; i < tx.WriteLen-1 && i < 8; i++ {
			v |= uint32(tx.Write[i]) << ((i - 4) * 8)
		}
		c.regs[a] = v
		tx.Read[0] = ccPassed
	}
	return nil
}

func addrOf(w []byte) peci.PkgConfigAddr {
	return peci.PkgConfigAddr{Index: w[1], Parameter: uint16(w[2]) | uint16(w[3])<<8}
}
