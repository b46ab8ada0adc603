package peci

import "ecpeci/errcode"

// Transaction describes one PECI exchange. Write is read-only to the
// transport; Read is filled by it. Both belong to the caller and are not
// retained once Execute returns.
type Transaction struct {
	Command   uint8
	Address   uint8
	Write     []byte
	WriteLen  int
	Read      []byte
	ReadLen   int
	TimeoutUs uint32
}

// Validate checks the lengths against the command's protocol table and the
// buffers against the lengths.
func (t *Transaction) Validate() error {
	if err := t.checkLengths(); err != nil {
		return err
	}
	// GetTemp carries only the command byte, so it has no write buffer.
	if t.Command != CmdGetTemp && len(t.Write) < t.WriteLen {
		return &errcode.E{C: errcode.InvalidParams, Op: "peci.validate", Msg: "write buffer too short"}
	}
	if len(t.Read) < t.ReadLen {
		return &errcode.E{C: errcode.InvalidParams, Op: "peci.validate", Msg: "read buffer too short"}
	}
	return nil
}

// checkLengths holds the protocol length table. Callers that size buffers
// from the lengths run it before allocating.
func (t *Transaction) checkLengths() error {
	var wOK, rOK bool
	switch t.Command {
	case CmdGetTemp:
		wOK = t.WriteLen == GetTempWriteLen
		rOK = t.ReadLen == GetTempReadLen
	case CmdRdPkgConfig:
		wOK = t.WriteLen == RdPkgConfigWriteLen
		switch t.ReadLen {
		case RdPkgConfigReadLenByte, RdPkgConfigReadLenWord, RdPkgConfigReadLenDword:
			rOK = true
		}
	case CmdWrPkgConfig:
		switch t.WriteLen {
		case WrPkgConfigWriteLenByte, WrPkgConfigWriteLenWord, WrPkgConfigWriteLenDword:
			wOK = true
		}
		rOK = t.ReadLen == WrPkgConfigReadLen
	default:
		return &errcode.E{C: errcode.Unsupported, Op: "peci.validate", Msg: "unknown command"}
	}
	if !wOK || !rOK {
		return &errcode.E{C: errcode.InvalidParams, Op: "peci.validate", Msg: "length does not match command"}
	}
	return nil
}
