package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/ensemble"
	"github.com/san-kum/streamtrace/internal/experiment"
	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/integrators"
	"github.com/san-kum/streamtrace/internal/metrics"
	"github.com/san-kum/streamtrace/internal/storage"
	"github.com/san-kum/streamtrace/internal/viz"
)

// seedFromFlags returns --x/--y, falling back to the domain centre for any
// coordinate not given.
func seedFromFlags(cmd *cobra.Command, f *field.VectorField) vec.Vec2 {
	cx, cy := f.Grid().Center()
	seed := vec.Vec2{X: cx, Y: cy}
	if cmd.Flags().Changed("x") {
		seed.X = seedX
	}
	if cmd.Flags().Changed("y") {
		seed.Y = seedY
	}
	return seed
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, fieldNameArg(args))
	if err != nil {
		return err
	}
	f, name, err := loadField(cfg, args)
	if err != nil {
		return err
	}
	if f, err = prepareField(f, cfg); err != nil {
		return err
	}
	opts, err := cfg.TraceOptions()
	if err != nil {
		return err
	}
	seed := seedFromFlags(cmd, f)
	if !finite(seed) {
		return fmt.Errorf("seed must be finite, got (%g, %g)", seed.X, seed.Y)
	}

	exp := experiment.New(experiment.Config{Field: name, Seed: seed, Options: opts})
	if err := exp.Setup(f, metrics.Default()...); err != nil {
		return err
	}

	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	flog := log.WithField(name)
	fmt.Printf("tracing %s from (%g, %g)...\n", name, seed.X, seed.Y)
	result, err := exp.Run(ctx)
	if err != nil {
		flog.LogTrace(ctx, seed.X, seed.Y, 0, 0, err)
		return err
	}
	flog.LogTrace(ctx, seed.X, seed.Y, len(result.Trajectory), result.Elapsed, nil)

	st := storage.New(cfg.Paths.Data)
	meta := storage.NewMetadata(name, seed, opts)
	meta.Metrics = result.Metrics
	runID, err := st.Save(meta, result.Trajectory)
	if err != nil {
		return err
	}
	flog.LogRunSaved(ctx, runID, st.Dir())

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("points: %d\n", len(result.Trajectory))
	if cfg.MethodIsAdaptive() {
		fmt.Printf("steps: %d forward, %d backward (%d rejected)\n",
			result.Stats.Forward.Accepted, result.Stats.Backward.Accepted,
			result.Stats.Forward.Rejected+result.Stats.Backward.Rejected)
	} else {
		fmt.Printf("steps: %d forward, %d backward (%d substeps per sample)\n",
			result.Stats.Forward.Accepted, result.Stats.Backward.Accepted, opts.Substeps)
	}
	if result.Stats.Forward.Exhausted || result.Stats.Backward.Exhausted {
		fmt.Println("warning: step budget exhausted, tail repeats the last state")
	}
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, fieldNameArg(args))
	if err != nil {
		return err
	}
	f, name, err := loadField(cfg, args)
	if err != nil {
		return err
	}
	if f, err = prepareField(f, cfg); err != nil {
		return err
	}
	opts, err := cfg.TraceOptions()
	if err != nil {
		return err
	}

	seeds, err := storage.ReadSeeds(cfg.Paths.Seeds)
	if err != nil {
		return err
	}
	if !skipMissing {
		cx, cy := f.Grid().Center()
		for i, s := range seeds {
			if !finite(s) {
				seeds[i] = vec.Vec2{X: cx, Y: cy}
			}
		}
	}

	ctx := cmd.Context()
	start := time.Now()
	trajs, err := ensemble.TraceMany(ctx, f, seeds, opts, workers)
	if err != nil {
		return err
	}
	log.WithField(name).LogBatch(ctx, len(seeds), ensemble.Skipped(trajs), time.Since(start))

	st := storage.New(cfg.Paths.Data)
	stamp := time.Now().Unix()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROW\tSEED\tRUN\tLENGTH")
	for i, traj := range trajs {
		if traj == nil {
			fmt.Fprintf(w, "%d\t-\tskipped\t-\n", i)
			continue
		}
		meta := storage.NewMetadata(name, seeds[i], opts)
		meta.ID = fmt.Sprintf("%s_seed%d_%d", name, i, stamp)
		meta.Metrics = metrics.Collect(traj)
		runID, err := st.Save(meta, traj)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t(%g, %g)\t%s\t%.4g\n", i, seeds[i].X, seeds[i].Y, runID, meta.Metrics["arc_length"])
	}
	return w.Flush()
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, fieldNameArg(args))
	if err != nil {
		return err
	}
	f, _, err := loadField(cfg, args)
	if err != nil {
		return err
	}
	if f, err = prepareField(f, cfg); err != nil {
		return err
	}
	opts, err := cfg.TraceOptions()
	if err != nil {
		return err
	}

	current, err := storage.SeedAt(cfg.Paths.Seeds, seedIndex)
	if err != nil {
		return err
	}

	seed, accepted, err := viz.RunInteractive(f, current, opts)
	if err != nil {
		return err
	}
	if !accepted {
		fmt.Println("seed not changed")
		return nil
	}
	if err := storage.UpdateSeed(cfg.Paths.Seeds, seedIndex, seed); err != nil {
		return err
	}
	fmt.Printf("seed %d set to (%g, %g) in %s\n", seedIndex, seed.X, seed.Y, cfg.Paths.Seeds)
	return nil
}

func benchMethods(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, fieldNameArg(args))
	if err != nil {
		return err
	}
	f, name, err := loadField(cfg, args)
	if err != nil {
		return err
	}
	if f, err = prepareField(f, cfg); err != nil {
		return err
	}
	opts, err := cfg.TraceOptions()
	if err != nil {
		return err
	}
	seed := seedFromFlags(cmd, f)

	fmt.Printf("benchmarking %s from (%g, %g), %d samples per direction\n\n", name, seed.X, seed.Y, opts.Samples)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tTIME\tLENGTH\tEND")
	for _, m := range integrators.Names() {
		o := opts
		o.Method = m
		start := time.Now()
		traj, err := ensemble.TraceTimeout(cmd.Context(), f, seed, o, benchTimeout)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\t%v\t-\t%v\n", m, elapsed.Round(time.Microsecond), err)
			continue
		}
		end := traj[len(traj)-1]
		fmt.Fprintf(w, "%s\t%v\t%.6g\t(%.6g, %.6g)\n", m, elapsed.Round(time.Microsecond),
			metrics.Collect(traj, metrics.NewArcLength())["arc_length"], end.X, end.Y)
	}
	return w.Flush()
}

func finite(p vec.Vec2) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
