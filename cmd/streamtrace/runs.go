package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/config"
	"github.com/san-kum/streamtrace/internal/experiment"
	"github.com/san-kum/streamtrace/internal/export"
	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/fieldio"
	"github.com/san-kum/streamtrace/internal/storage"
	"github.com/san-kum/streamtrace/internal/streamline"
	"github.com/san-kum/streamtrace/internal/viz"
)

// openStore resolves the run directory from --data or the config.
func openStore() (*storage.Store, error) {
	if dataDir != "" {
		return storage.New(dataDir), nil
	}
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.LoadLayered(defaultConfigFiles...)
	}
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Paths.Data), nil
}

func loadRun(runID string) (*storage.RunMetadata, streamline.Trajectory, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, traj, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFIELD\tTIME\tSEED\tMETHOD\tNORM\tPOINTS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t(%g, %g)\t%s\t%t\t%d\n",
			run.ID,
			run.Field,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed.X, run.Seed.Y,
			run.Method,
			run.Normalize,
			run.Points,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("field: %s\n", meta.Field)
	fmt.Printf("points: %d\n\n", len(traj))

	xs, ys := traj.XY()
	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{xs, "x along the streamline"},
		{ys, "y along the streamline"},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}

	fmt.Print(brailleCanvas(traj, 40, 12).String())
	return nil
}

func brailleCanvas(traj []vec.Vec2, w, h int) *viz.Canvas {
	c := viz.NewCanvas(w, h)
	c.Fit(traj)
	c.PlotPath(traj)
	if len(traj)%2 == 1 {
		c.Mark(traj[len(traj)/2])
	}
	return c
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	out, closeOut, err := openOutput()
	if err != nil {
		return err
	}
	if err := storage.ExportCSV(out, traj); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	out, closeOut, err := openOutput()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(out, *meta, traj); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var svg string
	if braille {
		svg = export.CanvasToSVG(brailleCanvas(traj, width/8, height/16), 4)
	} else {
		svg = export.TrajectoryToSVG(traj, width, height, "#00ffff")
	}
	if svg == "" {
		return fmt.Errorf("run %s has fewer than two finite points", args[0])
	}

	out, closeOut, err := openOutput()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, svg); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func exportPNG(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var f *field.VectorField
	if fieldFile != "" {
		f, err = fieldio.ReadFile(fieldFile)
	} else {
		f, err = experiment.NewRegistry().GetField(meta.Field, resolution)
	}
	if err != nil {
		return fmt.Errorf("field for run %s: %w", meta.ID, err)
	}

	out, closeOut, err := openOutput()
	if err != nil {
		return err
	}
	if err := export.RenderPNG(out, f, [][]vec.Vec2{traj}, width, height); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}
