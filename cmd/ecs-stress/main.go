package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/ecscore/ecs"
	"github.com/plus3/ecscore/internal/config"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file. Defaults are used when empty.")
	duration := flag.Duration("duration", 0, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 0, "The number of live entities the spawner maintains.")
	tickRate := flag.Duration("tick-rate", 0, "Step at a fixed interval instead of as fast as possible.")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error).")
	profileMode := flag.String("profile", "", "Profile mode (cpu, mem, allocs, block, mutex, trace).")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, eris.ToString(err, false))
			os.Exit(1)
		}
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Run.Duration = *duration
		case "entities":
			cfg.Run.Entities = *entityCount
		case "tick-rate":
			cfg.Run.TickRate = *tickRate
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "profile":
			cfg.Profile.Mode = *profileMode
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, eris.ToString(err, false))
		os.Exit(1)
	}

	if err := run(cfg, *gcPauseMetrics); err != nil {
		fmt.Fprintln(os.Stderr, eris.ToString(err, false))
		os.Exit(1)
	}
}

func profileOption(mode string) func(*profile.Profile) {
	switch mode {
	case "cpu":
		return profile.CPUProfile
	case "mem":
		return profile.MemProfile
	case "allocs":
		return profile.MemProfileAllocs
	case "block":
		return profile.BlockProfile
	case "mutex":
		return profile.MutexProfile
	case "trace":
		return profile.TraceProfile
	default:
		return nil
	}
}

func run(cfg *config.Config, gcPauseMetrics bool) error {
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return eris.Wrap(err, "build logger")
	}
	defer logger.Sync()

	if mode := profileOption(cfg.Profile.Mode); mode != nil {
		p := profile.Start(mode, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook, profile.Quiet)
		defer p.Stop()
		logger.Info("profiling enabled", zap.String("mode", cfg.Profile.Mode), zap.String("path", cfg.Profile.Path))
	}

	logger.Info("starting ECS stress test",
		zap.Int("max_entities", cfg.World.MaxEntities),
		zap.Int("entities", cfg.Run.Entities),
		zap.Bool("backfill", cfg.World.Backfill),
	)

	world := ecs.NewCoordinator(
		ecs.WithMaxEntities(cfg.World.MaxEntities),
		ecs.WithBackfill(cfg.World.Backfill),
		ecs.WithLogger(logger.Named("ecs")),
	)
	registerComponents(world)

	rng := rand.New(rand.NewPCG(uint64(cfg.Run.Seed), uint64(cfg.Run.Seed)))
	ecs.SetGlobal(world.Globals(), globalRand, rng)
	ecs.SetGlobal(world.Globals(), globalCounters, Counters{
		Target:     cfg.Run.Entities,
		Population: cfg.Run.Entities,
	})

	if err := populate(world, rng, cfg.Run.Entities); err != nil {
		return eris.Wrap(err, "populate world")
	}
	if err := registerSystems(world); err != nil {
		return eris.Wrap(err, "register systems")
	}
	logger.Info("population complete", zap.Int("entities", world.EntityCount()))

	report := &Report{
		Duration:       cfg.Run.Duration,
		TickRate:       cfg.Run.TickRate,
		Entities:       cfg.Run.Entities,
		Systems:        len(world.Systems()),
		GCPauseMetrics: gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Run.Duration)
	defer cancel()

	logger.Info("running simulation", zap.Duration("duration", cfg.Run.Duration))
	startTime := time.Now()
	if cfg.Run.TickRate > 0 {
		world.Run(ctx, cfg.Run.TickRate)
	} else {
		report.UpdateTime.Samples = stepUntilDone(ctx, world, logger)
	}
	report.TotalTime = time.Since(startTime)
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.UpdateTime.Finalize()
	report.World = world.Stats()
	report.TotalUpdates = int64(report.World.Tick)
	counters, _ := ecs.GetGlobal[Counters](world.Globals(), globalCounters)
	report.Counters = *counters
	report.LiveEntities = world.EntityCount()

	logger.Info("simulation finished", zap.Uint64("ticks", report.World.Tick))

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return eris.Wrap(err, "generate report")
	}
	fmt.Println("--- End of Report ---")
	return nil
}

// stepUntilDone steps the world as fast as possible and returns the
// duration of every step.
func stepUntilDone(ctx context.Context, world *ecs.Coordinator, logger *zap.Logger) []time.Duration {
	var samples []time.Duration
	lastFrameTime := time.Now()

	for ctx.Err() == nil {
		deltaTime := time.Since(lastFrameTime)
		lastFrameTime = time.Now()

		updateStart := time.Now()
		err := world.Step(deltaTime.Seconds())
		samples = append(samples, time.Since(updateStart))

		if err != nil {
			logger.Error("step failed",
				zap.Uint64("tick", world.Tick()),
				zap.String("error", eris.ToString(err, false)),
			)
		}
	}
	return samples
}
