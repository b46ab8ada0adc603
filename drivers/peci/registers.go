// Package peci drives a host CPU package over PECI from the embedded
// controller: package-config register access, power-limit programming and
// CPU temperature sampling.
//
// Transactions go out either on the dedicated PECI pin or tunnelled over the
// eSPI out-of-band channel. Which one is fixed per board revision and chosen
// once in New; see Link.
//
// A Device is not safe for concurrent use. The polling loop that owns it
// also owns the Governor passed to ReadTemperature.
package peci

// Client address of CPU socket 0.
const TargetAddress = 0x30

// Command codes.
const (
	CmdGetTemp     = 0x01
	CmdRdPkgConfig = 0xA1
	CmdWrPkgConfig = 0xA5
)

// Protocol lengths. Write lengths count the command byte; the last byte of
// a package-config write buffer is left for the controller's FCS.
const (
	GetTempWriteLen = 1
	GetTempReadLen  = 2

	RdPkgConfigWriteLen     = 5
	RdPkgConfigReadLenByte  = 2
	RdPkgConfigReadLenWord  = 3
	RdPkgConfigReadLenDword = 5

	WrPkgConfigWriteLenByte  = 7
	WrPkgConfigWriteLenWord  = 8
	WrPkgConfigWriteLenDword = 10
	WrPkgConfigReadLen       = 1
)

// Timeouts in microseconds, enforced by the transport.
const (
	GetTempTimeoutUs     = 200
	RdPkgConfigTimeoutUs = 200
	WrPkgConfigTimeoutUs = 200
)

// Completion code reported in byte 0 of a package-config read.
const ccPassed = 0x40

// hostID is always zero from the EC.
const hostID = 0x00

// PkgConfigAddr selects one package-config register.
type PkgConfigAddr struct {
	Index     uint8
	Parameter uint16
}

// Power-limit registers.
var (
	AddrPL1     = PkgConfigAddr{Index: 0x1A, Parameter: 0x0000}
	AddrPL2     = PkgConfigAddr{Index: 0x1B, Parameter: 0x0000}
	AddrPL4     = PkgConfigAddr{Index: 0x3C, Parameter: 0x0000}
	AddrPsysPL2 = PkgConfigAddr{Index: 0x3B, Parameter: 0x0000}
)

// Power-limit register fields.
const (
	plEnable = 1 << 15

	plFieldWidth = 15 // bits 14:0
	plFracBits   = 3  // 1/8 W units

	pl1TimeWindow     = 0xDC << 16 // ~28 s
	pl2TimeWindow     = 0x02 << 16
	psysPL2TimeWindow = 0x02 << 16

	// MaxWatt is the largest limit the 15-bit field can carry.
	MaxWatt = (1<<plFieldWidth - 1) >> plFracBits
)

// Thermal sample format: negative offset from Tjmax with 6 fractional bits.
const (
	tempFracBits  = 6
	kelvinAtZeroC = 273
	DefaultTjMaxC = 100
	RevisionESPI  = 7
)
