package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/experiment"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/solver"
)

func runBench(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	registry := experiment.NewRegistry()
	broadphases := []solver.Broadphase{solver.BroadphaseHash, solver.BroadphaseBrute}

	fmt.Printf("benchmarking %.1fs of simulated time, %d run(s) each\n\n", benchTime, benchRuns)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tBROADPHASE\tFRAMES\tMS/FRAME\tFRAMES/SEC\tCONTACTS")
	for _, n := range counts {
		for _, bp := range broadphases {
			cfg := config.GetPreset("stress")
			cfg.Solver.Broadphase = string(bp)
			cfg.Particle.Capacity = n
			cfg.Spawn.Initial = n
			cfg.Spawn.Max = n
			cfg.Spawn.PerFrame = 0
			cfg.Run.Duration = benchTime
			cfg.Run.LogEvery = 0
			if err := cfg.Validate(); err != nil {
				return err
			}

			ens := sim.NewEnsemble(experiment.Factory(cfg, registry, []string{"containment"}, false), benchRuns, cfg.Spawn.Seed)
			ens.SetLimit(1)
			results, err := ens.Run(ctx, cfg.RunConfig())
			if err != nil {
				return err
			}

			var elapsed time.Duration
			frames, contacts := 0, 0
			for _, res := range results {
				elapsed += res.Elapsed
				frames += res.FramesRun
				if len(res.Frames) > 0 {
					contacts += res.Frames[len(res.Frames)-1].Contacts
				}
			}
			perFrame := elapsed.Seconds() * 1000 / float64(max(frames, 1))
			fps := float64(frames) / max(elapsed.Seconds(), 1e-9)

			fmt.Fprintf(w, "%d\t%s\t%d\t%.3f\t%.0f\t%d\n",
				n, bp, frames/len(results), perFrame, fps, contacts/len(results))
			logger.Debug("bench", "particles", n, "broadphase", bp, "elapsed", elapsed)
		}
	}
	return w.Flush()
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if checkRuns < 2 {
		return fmt.Errorf("check needs at least 2 runs, got %d", checkRuns)
	}

	ctx, cancel := signalContext()
	defer cancel()

	names := []string{"containment", "overlap"}
	ens := sim.NewEnsemble(experiment.Factory(cfg, experiment.NewRegistry(), names, false), checkRuns, cfg.Spawn.Seed)
	ens.SetLimit(jobs)

	logger.Info("check started", "preset", cfg.Preset, "runs", checkRuns, "duration", cfg.Run.Duration)
	results, err := ens.Run(ctx, cfg.RunConfig())
	if err != nil {
		return err
	}

	failed := false
	for i := 1; i < len(results); i++ {
		if slot := sim.Divergence(results[0].Final, results[i].Final); slot != -1 {
			fmt.Printf("FAIL  member %d diverged from member 0 at slot %d\n", i, slot)
			failed = true
		}
	}
	if !failed {
		fmt.Printf("PASS  %d members produced identical final states (%d particles)\n", len(results), len(results[0].Final))
	}

	contained := results[0].Metrics["containment"]
	if contained < 1 {
		fmt.Printf("FAIL  containment %.4f\n", contained)
		failed = true
	} else {
		fmt.Println("PASS  every particle inside the world")
	}

	overlap := results[0].Metrics["overlap"]
	fmt.Printf("INFO  deepest final overlap %.4f (radius %.2f)\n", overlap, cfg.Particle.Radius)

	if failed {
		return fmt.Errorf("check failed")
	}
	return nil
}
