// Command pecisim runs the EC thermal loop against a simulated CPU package
// and smart battery, for bench work on the PECI driver without hardware.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"ecpeci/chipset"
	"ecpeci/drivers/peci"
	"ecpeci/drivers/peci/pecisim"
	"ecpeci/drivers/sbs"
	"ecpeci/errcode"
	"ecpeci/services/config"
	"ecpeci/services/thermal"
	"ecpeci/types"
	"ecpeci/x/timex"
)

type opts struct {
	board    string
	logLevel string
	revision int
	tjmax    int
	tempC    int

	duration time.Duration
	interval time.Duration
	phases   string
	timeouts int
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "pecisim",
		Short: "Drive the PECI thermal loop against a simulated CPU",
		Long: `pecisim wires the PECI driver, the standby sampling governor and the
thermal service to an in-memory CPU package. Board settings come from the
embedded board configs; flags override them.

Examples:
  pecisim boards
  pecisim temp --temp 71
  pecisim set-limit pl1 28 --revision 6
  pecisim run --phases on:3s,standby:30s,soft_off:2s --interval 1s`,
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.board, "board", "hx30", "embedded board config to start from")
	pf.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	pf.IntVar(&o.revision, "revision", -1, "override the board revision (-1 keeps the config)")
	pf.IntVar(&o.tjmax, "tjmax", 0, "override Tjmax in °C (0 keeps the config)")
	pf.IntVar(&o.tempC, "temp", 60, "simulated die temperature in °C")

	root.AddCommand(
		&cobra.Command{
			Use:   "boards",
			Short: "List embedded board configs",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				for _, b := range config.Boards() {
					fmt.Fprintln(cmd.OutOrStdout(), b)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "temp",
			Short: "Take one CPU temperature sample",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runTemp(cmd, o)
			},
		},
		&cobra.Command{
			Use:   "set-limit <pl1|pl2|pl4|psys_pl2> <watt>",
			Short: "Program one power limit and read it back",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSetLimit(cmd, o, args)
			},
		},
	)

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the thermal service through a power-state schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoop(cmd, o)
		},
	}
	run.Flags().DurationVarP(&o.duration, "duration", "d", 0, "stop after this long (0 = end of schedule)")
	run.Flags().DurationVarP(&o.interval, "interval", "i", 0, "poll interval (0 keeps the config)")
	run.Flags().StringVar(&o.phases, "phases", "on:10s", "power-state schedule, e.g. on:5s,standby:30s")
	run.Flags().IntVar(&o.timeouts, "timeouts", 0, "inject this many eSPI timeouts at start")
	root.AddCommand(run)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// bench is everything one command needs.
type bench struct {
	cfg config.BoardConfig
	cpu *pecisim.CPU
	cs  *phased
	dev *peci.Device
	lg  *slog.Logger
}

func newBench(o opts, initial chipset.State) (*bench, error) {
	cfg, err := config.Lookup(o.board)
	if err != nil {
		return nil, err
	}
	if o.revision >= 0 {
		cfg.Revision = uint8(o.revision)
	}
	if o.tjmax > 0 {
		cfg.TjMaxC = o.tjmax
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lg, err := newLogger(o.logLevel)
	if err != nil {
		return nil, err
	}
	cpu := pecisim.New(cfg.TjMaxC)
	cpu.SetTemperature(o.tempC)
	cs := &phased{}
	cs.set(initial)

	pc := cfg.Peci()
	pc.Logger = lg
	dev, err := peci.New(pc, cpu.Direct(), cpu.Tunnel(), cs, timex.NewMonotonic())
	if err != nil {
		return nil, err
	}
	return &bench{cfg: cfg, cpu: cpu, cs: cs, dev: dev, lg: lg}, nil
}

func runTemp(cmd *cobra.Command, o opts) error {
	b, err := newBench(o, chipset.On)
	if err != nil {
		return err
	}
	k, err := b.dev.ReadTemperature(b.cfg.Governor())
	if err != nil {
		return err
	}
	return printJSON(cmd, types.ThermalValue{Kelvin: int(k), TS: time.Now().UnixMilli()})
}

func runSetLimit(cmd *cobra.Command, o opts, args []string) error {
	kind, ok := peci.ParsePowerLimit(args[0])
	if !ok {
		return fmt.Errorf("unknown limit %q", args[0])
	}
	watt, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("watt: %w", err)
	}
	b, err := newBench(o, chipset.On)
	if err != nil {
		return err
	}
	st, err := b.dev.UpdatePowerLimit(kind, watt)
	if err != nil {
		return err
	}
	res := types.PowerLimitResult{Limit: kind.String(), Watt: watt, Delivered: st.Delivered, BestEffort: st.BestEffort, Code: "ok"}
	if err := printJSON(cmd, res); err != nil {
		return err
	}
	// Read-back goes over the PECI pin, which only older boards have.
	if b.dev.Route() == peci.RouteDirect {
		w, en, err := b.dev.ReadPowerLimit(kind)
		if err != nil {
			return err
		}
		b.lg.Info("read back", "limit", kind.String(), "watt", w, "enabled", en)
	}
	return nil
}

func runLoop(cmd *cobra.Command, o opts) error {
	sched, err := parsePhases(o.phases)
	if err != nil {
		return err
	}
	b, err := newBench(o, sched[0].state)
	if err != nil {
		return err
	}
	if o.timeouts > 0 {
		errs := make([]error, o.timeouts)
		for i := range errs {
			errs[i] = errcode.Timeout
		}
		b.cpu.FailNext(peci.RouteTunnel, errs...)
	}

	interval := b.cfg.PollInterval()
	if o.interval > 0 {
		interval = o.interval
	}
	total := o.duration
	if total == 0 {
		for _, p := range sched {
			total += p.d
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), total)
	defer cancel()

	sink := make(chan thermal.Result, 16)
	var gauge thermal.Gauge
	if bat := sbs.New(newBattery(), b.batteryAddr()); b.batteryAddr() != 0 && bat.Connected() {
		gauge = bat
	} else {
		b.lg.Warn("no battery, telemetry off", "addr", b.batteryAddr())
	}
	svc := thermal.New(b.dev, b.cfg.Governor(), b.cs, gauge, thermal.Config{
		Interval: interval,
		Limits:   b.cfg.Limits(),
	}, sink, b.lg)
	svc.Start(ctx)
	go b.cs.follow(ctx, sched, b.lg)

	for {
		select {
		case <-ctx.Done():
			b.lg.Info("done", "transactions", b.cpu.Total(), "resyncs", b.cpu.Resyncs())
			return nil
		case r := <-sink:
			if err := printJSON(cmd, map[string]any{"kind": r.Kind, "value": r.Value}); err != nil {
				return err
			}
		}
	}
}

func (b *bench) batteryAddr() uint16 {
	if b.cfg.Battery == nil {
		return 0
	}
	return b.cfg.Battery.Addr
}

func printJSON(cmd *cobra.Command, v any) error {
	return json.NewEncoder(cmd.OutOrStdout()).Encode(v)
}

func newLogger(level string) (*slog.Logger, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv})), nil
}

// ---- power-state schedule ----

type phase struct {
	state chipset.State
	d     time.Duration
}

func parsePhases(s string) ([]phase, error) {
	var out []phase
	for _, part := range strings.Split(s, ",") {
		name, dur, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("phase %q: want state:duration", part)
		}
		st, ok := chipset.Parse(name)
		if !ok {
			return nil, fmt.Errorf("phase %q: unknown state", part)
		}
		d, err := time.ParseDuration(dur)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("phase %q: bad duration", part)
		}
		out = append(out, phase{state: st, d: d})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty schedule")
	}
	return out, nil
}

// phased is a chipset.Reporter the schedule goroutine can move while the
// service reads it.
type phased struct{ st atomic.Uint32 }

func (p *phased) set(s chipset.State)             { p.st.Store(uint32(s)) }
func (p *phased) InState(mask chipset.State) bool { return chipset.State(p.st.Load())&mask != 0 }

func (p *phased) follow(ctx context.Context, sched []phase, lg *slog.Logger) {
	for _, ph := range sched {
		p.set(ph.state)
		lg.Info("chipset", "state", ph.state.String(), "for", ph.d)
		select {
		case <-ctx.Done():
			return
		case <-time.After(ph.d):
		}
	}
}
