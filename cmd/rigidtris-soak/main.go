// Command rigidtris-soak runs the game headless with random controls and
// reports tick timings.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/rigidtris/config"
	"github.com/plus3/rigidtris/game"
	"github.com/plus3/rigidtris/physics/chipmunk"
)

// randomControls holds a random input for a few ticks before picking another
type randomControls struct {
	rng      *rand.Rand
	current  game.Controls
	holdLeft int
}

func (r *randomControls) next() game.Controls {
	if r.holdLeft > 0 {
		r.holdLeft--
		return r.current
	}
	r.current = game.Controls{
		Left:        r.rng.IntN(4) == 0,
		Right:       r.rng.IntN(4) == 0,
		RotateLeft:  r.rng.IntN(6) == 0,
		RotateRight: r.rng.IntN(6) == 0,
	}
	r.holdLeft = r.rng.IntN(30)
	return r.current
}

func soak(ctx context.Context, cfg *config.Config, logger *zap.Logger, report *Report) {
	world := chipmunk.New(cfg.ChipmunkOptions())
	opts := cfg.GameOptions(logger)
	g := game.New(world, opts)
	g.Start()

	controls := &randomControls{rng: rand.New(rand.NewPCG(opts.Seed, 1))}
	report.Seed = opts.Seed

	startTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			if g.Over() {
				logger.Debug("game over, restarting", zap.Any("stats", g.Stats()))
				report.Restarts++
				g.Restart()
			}

			tickStart := time.Now()
			g.Tick(cfg.Physics.Timestep, controls.next())
			report.TickTime.Samples = append(report.TickTime.Samples, time.Since(tickStart))
			report.TotalTicks++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.SimulatedTime = time.Duration(float64(report.TotalTicks) * cfg.Physics.Timestep * float64(time.Second))
	report.Game = g.Stats()
	report.Health = g.Health()
	report.Bodies = world.BodyCount()
	report.Joints = world.JointCount()
	report.Scheduler = g.Scheduler().GetStats()
	report.Storage = g.Storage().CollectStats()
}

func run(configPath string, duration time.Duration, gcPauseMetrics bool) error {
	cfg, err := config.FromEnv(configPath)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	report := &Report{
		Duration:       duration,
		Timestep:       cfg.Physics.Timestep,
		Lanes:          cfg.Board.Lanes,
		Rows:           cfg.Board.Rows,
		GCPauseMetrics: gcPauseMetrics,
		TickTime: Stats{
			Samples: make([]time.Duration, 0, 1<<16),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running soak", zap.Duration("duration", duration))
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()
	soak(ctx, cfg, logger, report)

	report.TickTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	logger.Info("soak finished", zap.Int64("ticks", report.TotalTicks), zap.Int("restarts", report.Restarts))

	fmt.Println("\n\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")
	return nil
}

func main() {
	configPath := flag.String("config", "", "Path to a TOML or YAML config file (default $"+config.EnvPath+")")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the soak should run for.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	if err := run(*configPath, *duration, *gcPauseMetrics); err != nil {
		fmt.Fprintln(os.Stderr, "rigidtris-soak:", err)
		os.Exit(1)
	}
}
