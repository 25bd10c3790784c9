// crowdsim is a headless driver for the crowd engine. It runs the frame
// loop without a renderer, optionally feeding the synthetic demand generator
// or a live presence snapshot, and prints a summary (or every agent frame
// with --dump) when done.
//
// Examples:
//
//	crowdsim --capacity 80 --frames 1200
//	crowdsim --mode live --sessions presence.json --dump
//	crowdsim --config crowd.yaml --metrics-addr :9090
package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/hupe1980/crowdmesh"
	"github.com/hupe1980/crowdmesh/config"
	"github.com/hupe1980/crowdmesh/core"
	"github.com/hupe1980/crowdmesh/demand"
	"github.com/hupe1980/crowdmesh/logging"
	"github.com/hupe1980/crowdmesh/metrics"
	"github.com/hupe1980/crowdmesh/reconcile"
	"github.com/hupe1980/crowdmesh/session"
	"github.com/hupe1980/crowdmesh/steering"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath  string
	mode        string
	capacity    int
	frames      int
	fps         float64
	seed        uint64
	sessions    string
	metricsAddr string
	logLevel    string
	logFormat   string
	dump        bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, *pflag.FlagSet, error) {
	var f flags
	flagSet := pflag.NewFlagSet("crowdsim", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	flagSet.StringVar(&f.mode, "mode", "", "population mode: synthetic or live (default from config)")
	flagSet.IntVar(&f.capacity, "capacity", 0, "synthetic pool size (default from config)")
	flagSet.IntVar(&f.frames, "frames", 600, "number of frames to simulate")
	flagSet.Float64Var(&f.fps, "fps", 60, "simulated frame rate")
	flagSet.Uint64Var(&f.seed, "seed", 0, "random seed; 0 picks one")
	flagSet.StringVar(&f.sessions, "sessions", "", "presence JSON snapshot to load in live mode")
	flagSet.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flagSet.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (default from config)")
	flagSet.StringVar(&f.logFormat, "log-format", "", "json or text (default from config)")
	flagSet.BoolVar(&f.dump, "dump", false, "print the final agent frames as JSON on stdout")

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, nil, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if f.frames < 0 {
		return nil, nil, fmt.Errorf("--frames must not be negative")
	}
	if f.fps <= 0 {
		return nil, nil, fmt.Errorf("--fps must be positive")
	}
	return &f, flagSet, nil
}

// loadConfig reads the config file and layers explicitly set flags on top.
func loadConfig(f *flags, flagSet *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if flagSet.Changed("mode") {
		mode, err := core.ParseMode(f.mode)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Mode = mode
	}
	if flagSet.Changed("capacity") {
		cfg.Capacity = f.capacity
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f, flagSet, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(f, flagSet)
	if err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	logCfg := logging.DefaultLoggerConfig()
	logCfg.Level = level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = stderr
	logger := logging.NewLogger(logCfg).WithComponent("crowdsim")

	seed := f.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger.Info("Starting simulation", "mode", cfg.Mode.String(), "frames", f.frames, "fps", f.fps, "seed", seed)

	var recorder metrics.Recorder = metrics.Nop()
	if f.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(reg)
		shutdown, err := serveMetrics(f.metricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	mesh := crowdmesh.New(func(o *crowdmesh.Options) {
		o.Config = cfg
		o.Logger = logger.WithComponent("engine")
		o.Metrics = recorder
		o.Spawner = reconcile.NewSpawner(func(s *reconcile.SpawnerOptions) {
			s.Params = cfg.SpawnParams()
			s.Source = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
			s.NewID = seededIDs(seed)
		})
	})
	placeTargets(mesh, cfg.Targets)

	if f.sessions != "" {
		data, err := os.ReadFile(f.sessions)
		if err != nil {
			return fmt.Errorf("read sessions: %w", err)
		}
		sessions, err := session.DecodeSnapshot(data)
		if err != nil {
			return fmt.Errorf("decode sessions: %w", err)
		}
		mesh.Sessions().Replace(sessions)
		logger.Info("Loaded sessions", "count", len(sessions))
	}

	// An explicit --capacity pins the pool size; clicks still drive demand.
	var gen *demand.Generator
	walkPopulation := !flagSet.Changed("capacity")
	if cfg.Demand.Enabled && cfg.Mode == core.ModeSynthetic {
		gen = newGenerator(cfg, seed, mesh.Clicks())
		if walkPopulation {
			mesh.SetCapacity(gen.Population())
		}
	}
	ticksEvery := max(1, int(math.Round(cfg.Demand.Interval.Seconds()*f.fps)))

	dt := 1 / f.fps
	done := logger.StartTimer("simulation")
	frame := 0
	for frame < f.frames {
		if err := ctx.Err(); err != nil {
			logger.Warn("Interrupted", "frame", frame)
			break
		}
		frame++
		if gen != nil && frame%ticksEvery == 0 {
			s := gen.Tick()
			if walkPopulation {
				mesh.SetCapacity(s.Population)
			}
			if s.Clicked != "" {
				mesh.ApplyClicks()
			}
		}
		mesh.Step(steering.Frame{Elapsed: float64(frame) * dt, Delta: dt})
	}

	done()
	summarize(logger, mesh, frame)
	if f.dump {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(mesh.Snapshot()); err != nil {
			return fmt.Errorf("dump frames: %w", err)
		}
	}
	return nil
}

// placeTargets lays configured targets out on a circle so a headless run has
// positions to steer toward.
func placeTargets(mesh *crowdmesh.CrowdMesh, targets []core.Target) {
	if len(targets) == 0 {
		return
	}
	mesh.SetTargets(targets)
	const radius = 12.0
	for i, t := range targets {
		angle := 2 * math.Pi * float64(i) / float64(len(targets))
		mesh.Registry().Register(t.ID, mgl64.Vec3{math.Cos(angle) * radius, 0, math.Sin(angle) * radius})
	}
}

// seededIDs returns a uuid generator whose sequence is fixed by seed.
func seededIDs(seed uint64) func() string {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	stream := rand.NewChaCha8(key)
	return func() string {
		id, err := uuid.NewRandomFromReader(stream)
		if err != nil {
			return uuid.NewString()
		}
		return id.String()
	}
}

func newGenerator(cfg config.Config, seed uint64, clicks *demand.Clicks) *demand.Generator {
	params := cfg.Demand
	if len(params.Features) == 0 {
		for _, t := range cfg.Targets {
			params.Features = append(params.Features, t.ID)
		}
	}
	return demand.NewGenerator(func(o *demand.GeneratorOptions) {
		o.Params = params
		o.Source = rand.NewPCG(seed+1, seed^0x5851f42d4c957f2d)
		o.Clicks = clicks
	})
}

func summarize(logger *logging.CrowdLogger, mesh *crowdmesh.CrowdMesh, frames int) {
	pool := mesh.Engine().Pool()
	logger.Info("Simulation finished",
		"frames", frames,
		"agents", len(pool),
		"assigned", pool.Assigned(),
		"sessions", mesh.Sessions().Len())

	targets := mesh.Engine().Targets()
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		ids = append(ids, t.ID)
	}
	slices.Sort(ids)
	for _, id := range ids {
		logger.Info("Target crowd", "target", id, "agents", pool.AssignedTo(id), "clicks", mesh.Clicks().Count(id))
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger logging.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	logger.Info("Serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
