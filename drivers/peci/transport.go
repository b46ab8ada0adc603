package peci

import (
	"errors"

	"ecpeci/errcode"
)

// Transport executes one transaction on a physical path. Implementations
// honour the descriptor's buffers and timeout and report a timeout as an
// error matching errcode.Timeout, so the thermal path can tell it apart.
type Transport interface {
	Execute(tx *Transaction) error
}

// Tunnel is PECI relayed over the eSPI out-of-band channel.
type Tunnel interface {
	Transport
	// RetryReceive re-synchronises the OOB channel after a timeout and
	// fills read with the late response, in place.
	RetryReceive(read []byte) error
}

// BoardRevision is the hardware version strapped on the board.
type BoardRevision uint8

// Route names the physical path a Link writes on.
type Route uint8

const (
	RouteDirect Route = iota // PECI pin; failures are surfaced
	RouteTunnel              // eSPI OOB; writes are best effort
)

func (r Route) String() string {
	if r == RouteTunnel {
		return "espi"
	}
	return "peci"
}

// Link is the transport pair for one board, with the write route fixed at
// startup.
type Link struct {
	route  Route
	direct Transport
	tunnel Tunnel
}

// SelectLink picks the write route from the board revision. Boards from
// RevisionESPI on have no PECI pin wired, so a nil direct transport is fine
// there; the tunnel is always required because temperature reads use it.
func SelectLink(rev BoardRevision, direct Transport, tunnel Tunnel) (Link, error) {
	if tunnel == nil {
		return Link{}, &errcode.E{C: errcode.InvalidParams, Op: "peci.select_link", Msg: "tunnel transport required"}
	}
	l := Link{direct: direct, tunnel: tunnel}
	if rev >= RevisionESPI {
		l.route = RouteTunnel
		return l, nil
	}
	if direct == nil {
		return Link{}, &errcode.E{C: errcode.InvalidParams, Op: "peci.select_link", Msg: "direct transport required before revision 7"}
	}
	l.route = RouteDirect
	return l, nil
}

func (l Link) Route() Route { return l.route }

// WriteStatus tells how a package-config write left the EC.
type WriteStatus struct {
	// Delivered is set when the write went out on a checked path and the
	// transport reported success.
	Delivered bool
	// BestEffort is set when the write went through the tunnel, whose
	// outcome is not checked.
	BestEffort bool
	// Dropped carries the tunnel's failure on a best-effort write. It is
	// informational; the write still counts as issued.
	Dropped error
}

// write sends tx on the selected route. Only the direct route reports
// failure.
func (l Link) write(tx *Transaction) (WriteStatus, error) {
	if l.route == RouteTunnel {
		err := l.tunnel.Execute(tx)
		return WriteStatus{BestEffort: true, Dropped: err}, nil
	}
	if err := l.direct.Execute(tx); err != nil {
		return WriteStatus{}, transportErr("peci.wr_pkg_config", err)
	}
	return WriteStatus{Delivered: true}, nil
}

// read always uses the PECI pin.
func (l Link) read(tx *Transaction) error {
	if l.direct == nil {
		return &errcode.E{C: errcode.Unsupported, Op: "peci.rd_pkg_config", Msg: "no direct PECI transport"}
	}
	return transportErr("peci.rd_pkg_config", l.direct.Execute(tx))
}

// transportErr classifies a raw transport failure as Timeout or Transport,
// keeping the cause.
func transportErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *errcode.E
	if errors.As(err, &e) && (e.C == errcode.InvalidParams || e.C == errcode.Unsupported) {
		return err
	}
	if errors.Is(err, errcode.Timeout) {
		return errcode.Wrap(errcode.Timeout, op, err)
	}
	return errcode.Wrap(errcode.Transport, op, err)
}
