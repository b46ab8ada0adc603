// Package thermal runs the EC's CPU polling loop: temperature samples
// through the standby governor, power-limit programming and battery
// telemetry. One goroutine owns the PECI device and its governor.
package thermal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ecpeci/chipset"
	"ecpeci/drivers/peci"
	"ecpeci/drivers/sbs"
	"ecpeci/errcode"
	"ecpeci/services/config"
	"ecpeci/types"
)

// Gauge is the part of the battery accessor the loop polls.
type Gauge interface {
	Snapshot() sbs.Snapshot
}

// Result is one emitted value. Value is a types.ThermalValue,
// types.ThermalStatus, types.PowerLimitResult or types.BatteryValue.
type Result struct {
	Kind  types.Kind
	Value any
}

type Config struct {
	Interval       time.Duration
	Limits         []config.Limit // applied each time the host reaches On
	InputQueueSize int
}

type Service struct {
	dev   *peci.Device
	gov   *peci.Governor
	cs    chipset.Reporter
	gauge Gauge
	cfg   Config
	log   *slog.Logger

	reqQ chan types.SetPowerLimit
	sink chan<- Result

	wasOn bool
	now   func() time.Time
}

// New wires the loop. gauge and lg may be nil.
func New(dev *peci.Device, gov *peci.Governor, cs chipset.Reporter, gauge Gauge, cfg Config, sink chan<- Result, lg *slog.Logger) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.InputQueueSize <= 0 {
		cfg.InputQueueSize = 8
	}
	if gov == nil {
		gov = &peci.Governor{}
	}
	if lg == nil {
		lg = slog.New(slog.DiscardHandler)
	}
	return &Service{
		dev:   dev,
		gov:   gov,
		cs:    cs,
		gauge: gauge,
		cfg:   cfg,
		log:   lg.With("svc", "thermal"),
		reqQ:  make(chan types.SetPowerLimit, cfg.InputQueueSize),
		sink:  sink,
		now:   time.Now,
	}
}

// Submit queues a power-limit request without blocking. It reports false
// when the queue is full.
func (s *Service) Submit(req types.SetPowerLimit) bool {
	select {
	case s.reqQ <- req:
		return true
	default:
		return false
	}
}

// Start launches the loop; it stops when ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	go s.serviceLoop(ctx)
}

func (s *Service) serviceLoop(ctx context.Context) {
	tick := time.NewTicker(s.cfg.Interval)
	defer tick.Stop()

	s.log.Info("thermal service starting", "interval", s.cfg.Interval, "route", s.dev.Route().String())
	s.emit(ctx, Result{Kind: types.KindState, Value: types.ServiceState{Level: "ready", Status: "started", TS: s.now().UnixMilli()}})
	s.emit(ctx, Result{Kind: types.KindCPUInfo, Value: types.CPUInfo{
		Route:    s.dev.Route().String(),
		Revision: uint8(s.dev.Revision()),
		TjMaxC:   s.dev.TjMax(),
	}})
	for {
		select {
		case <-ctx.Done():
			s.log.Info("thermal service stopping")
			// ctx is done, so emit would race; best effort only.
			select {
			case s.sink <- Result{Kind: types.KindState, Value: types.ServiceState{Level: "stopped", Status: "ctx_done", TS: s.now().UnixMilli()}}:
			default:
			}
			return
		case <-tick.C:
			s.poll(ctx)
		case req := <-s.reqQ:
			s.emit(ctx, Result{Kind: types.KindPowerLimit, Value: s.applyLimit(req)})
		}
	}
}

// poll runs one cycle.
func (s *Service) poll(ctx context.Context) {
	on := s.cs.InState(chipset.On)
	if on && !s.wasOn {
		for _, l := range s.cfg.Limits {
			r := s.applyLimit(types.SetPowerLimit{Limit: l.Kind.String(), Watt: l.Watt})
			s.emit(ctx, Result{Kind: types.KindPowerLimit, Value: r})
		}
	}
	s.wasOn = on

	ts := s.now().UnixMilli()
	k, err := s.dev.ReadTemperature(s.gov)
	if err != nil {
		st := types.ThermalStatus{Link: types.LinkDown, Code: string(errcode.Of(err)), TS: ts, Error: err.Error()}
		if errors.Is(err, errcode.NotPowered) {
			st.Link = types.LinkDegraded
			st.Error = ""
			s.log.Debug("sample skipped", "code", st.Code)
		} else {
			s.log.Warn("cpu temperature read failed", "err", err)
		}
		s.emit(ctx, Result{Kind: types.KindCPUTemperature, Value: st})
	} else {
		s.emit(ctx, Result{Kind: types.KindCPUTemperature, Value: types.ThermalValue{Kelvin: int(k), TS: ts}})
	}

	if s.gauge != nil {
		b := s.gauge.Snapshot()
		s.emit(ctx, Result{Kind: types.KindBattery, Value: types.BatteryValue{
			PackMilliV:   b.Voltage_mV,
			IBatMilliA:   b.Current_mA,
			TempDeciK:    b.TempDeciK,
			SoCPercent:   b.StateOfCharge,
			RemainingmAh: b.RemainingCapacity,
			FullmAh:      b.FullChargeCapacity,
			Status:       uint16(b.Status),
			TS:           ts,
		}})
	}
}

func (s *Service) applyLimit(req types.SetPowerLimit) types.PowerLimitResult {
	res := types.PowerLimitResult{Limit: req.Limit, Watt: req.Watt}
	kind, ok := peci.ParsePowerLimit(req.Limit)
	if !ok {
		res.Code = string(errcode.InvalidParams)
		res.Error = "unknown limit " + req.Limit
		return res
	}
	st, err := s.dev.UpdatePowerLimit(kind, req.Watt)
	res.Delivered, res.BestEffort = st.Delivered, st.BestEffort
	res.Code = string(errcode.Of(err))
	if err != nil {
		res.Error = err.Error()
		s.log.Warn("power limit update failed", "limit", req.Limit, "watt", req.Watt, "err", err)
	} else if st.Dropped != nil {
		s.log.Debug("power limit sent best effort", "limit", req.Limit, "dropped", st.Dropped)
	}
	return res
}

func (s *Service) emit(ctx context.Context, r Result) {
	select {
	case s.sink <- r:
	case <-ctx.Done():
	}
}
