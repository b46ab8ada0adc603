package peci

import (
	"encoding/binary"
	"strconv"

	"ecpeci/errcode"
)

// ReadPackageConfig issues RdPkgConfig and returns the raw read buffer,
// completion code first. readLen selects byte, word or dword width.
func (d *Device) ReadPackageConfig(index uint8, parameter uint16, readLen int) ([]byte, error) {
	tx := Transaction{
		Command:   CmdRdPkgConfig,
		Address:   TargetAddress,
		WriteLen:  RdPkgConfigWriteLen,
		ReadLen:   readLen,
		TimeoutUs: RdPkgConfigTimeoutUs,
	}
	if err := tx.checkLengths(); err != nil {
		return nil, err
	}

	var w [RdPkgConfigWriteLen]byte
	r := make([]byte, readLen)
	w[0] = hostID
	w[1] = index
	w[2] = byte(parameter)
	w[3] = byte(parameter >> 8)
	tx.Write, tx.Read = w[:], r

	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if err := d.link.read(&tx); err != nil {
		return nil, err
	}
	return r, nil
}

// ReadPackageConfigDword reads a 32-bit register and checks its completion
// code.
func (d *Device) ReadPackageConfigDword(addr PkgConfigAddr) (uint32, error) {
	r, err := d.ReadPackageConfig(addr.Index, addr.Parameter, RdPkgConfigReadLenDword)
	if err != nil {
		return 0, err
	}
	return ParseDword(r)
}

// ParseDword decodes a dword RdPkgConfig response: completion code, then
// the value little-endian.
func ParseDword(r []byte) (uint32, error) {
	if len(r) < RdPkgConfigReadLenDword {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "peci.parse_dword", Msg: "short response"}
	}
	if r[0] != ccPassed {
		return 0, &errcode.E{C: errcode.Transport, Op: "peci.parse_dword", Msg: "completion code 0x" + strconv.FormatUint(uint64(r[0]), 16)}
	}
	return binary.LittleEndian.Uint32(r[1:5]), nil
}

// WritePackageConfig issues WrPkgConfig. writeLen selects the payload
// width; bytes 4..writeLen-2 carry data little-endian and the final byte is
// left zero.
//
// On a tunnelled board the write is best effort: the returned status has
// BestEffort set and the error is always nil.
func (d *Device) WritePackageConfig(index uint8, parameter uint16, data uint32, writeLen int) (WriteStatus, error) {
	tx := Transaction{
		Command:   CmdWrPkgConfig,
		Address:   TargetAddress,
		WriteLen:  writeLen,
		ReadLen:   WrPkgConfigReadLen,
		TimeoutUs: WrPkgConfigTimeoutUs,
	}
	if err := tx.checkLengths(); err != nil {
		return WriteStatus{}, err
	}

	var w [WrPkgConfigWriteLenDword]byte
	var r [WrPkgConfigReadLen]byte
	w[0] = hostID
	w[1] = index
	w[2] = byte(parameter)
	w[3] = byte(parameter >> 8)
	for i := 4; i < writeLen-1; i++ {
		w[i] = byte(data >> ((i - 4) * 8))
	}
	tx.Write, tx.Read = w[:writeLen], r[:]

	if err := tx.Validate(); err != nil {
		return WriteStatus{}, err
	}
	st, err := d.link.write(&tx)
	if st.Dropped != nil {
		d.log.Debug("best-effort write dropped", "index", index, "err", st.Dropped)
	}
	return st, err
}
