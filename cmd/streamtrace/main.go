package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/streamtrace/internal/config"
	"github.com/san-kum/streamtrace/internal/experiment"
	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/fieldio"
	"github.com/san-kum/streamtrace/internal/logging"
)

// Layered config files read when --config is not given.
var defaultConfigFiles = []string{"streamtrace.default.yaml", "streamtrace.yaml"}

var (
	configFile string
	dataDir    string
	logLevel   string
	logFormat  string

	// trace parameters
	seedX          float64
	seedY          float64
	duration       float64
	samples        int
	method         string
	normalize      bool
	bounds         string
	rtol           float64
	atol           float64
	maxSteps       int
	speedThreshold float64
	preset         string
	fieldFile      string
	resolution     int
	crop           bool
	timeout        time.Duration
	benchTimeout   time.Duration

	// batch and inspect
	seedsFile   string
	seedIndex   int
	workers     int
	skipMissing bool

	// exports
	outFile string
	width   int
	height  int
	braille bool

	log = logging.NoopLogger()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "streamtrace",
		Short:         "streamline tracing through gridded velocity fields",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.FromFlags(os.Stderr, logFormat, logLevel)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "run directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	traceCmd := &cobra.Command{
		Use:   "trace [field]",
		Short: "trace one streamline and save it as a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrace,
	}
	addTraceFlags(traceCmd)
	traceCmd.Flags().Float64Var(&seedX, "x", 0, "seed x (default: domain centre)")
	traceCmd.Flags().Float64Var(&seedY, "y", 0, "seed y (default: domain centre)")
	traceCmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long (0 = no limit)")

	batchCmd := &cobra.Command{
		Use:   "batch [field]",
		Short: "trace every seed in the seed table",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBatch,
	}
	addTraceFlags(batchCmd)
	batchCmd.Flags().StringVar(&seedsFile, "seeds", "", "seed table (overrides config)")
	batchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent traces (0 = GOMAXPROCS)")
	batchCmd.Flags().BoolVar(&skipMissing, "skip-missing", false, "skip empty seed rows instead of using the domain centre")

	inspectCmd := &cobra.Command{
		Use:   "inspect [field]",
		Short: "pick a seed interactively and store it in the seed table",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInspect,
	}
	addTraceFlags(inspectCmd)
	inspectCmd.Flags().StringVar(&seedsFile, "seeds", "", "seed table (overrides config)")
	inspectCmd.Flags().IntVar(&seedIndex, "index", 0, "seed table row to edit")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectory to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run trajectory to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "render the braille plot instead of a vector path")
	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "render run trajectory over its field speed to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVar(&fieldFile, "field-file", "", "JSON field file (default: the run's named field)")
	exportPNGCmd.Flags().IntVar(&resolution, "resolution", experiment.DefaultResolution, "lattice size for analytic fields")
	for _, c := range []*cobra.Command{exportCSVCmd, exportJSONCmd, exportSVGCmd, exportPNGCmd} {
		c.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")
	}
	for _, c := range []*cobra.Command{exportSVGCmd, exportPNGCmd} {
		c.Flags().IntVar(&width, "width", 800, "image width")
		c.Flags().IntVar(&height, "height", 600, "image height")
	}

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list integration methods",
		Args:  cobra.NoArgs,
		RunE:  listMethods,
	}
	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "list built-in analytic fields",
		Args:  cobra.NoArgs,
		RunE:  listFields,
	}
	presetsCmd := &cobra.Command{
		Use:   "presets [field]",
		Short: "list available presets for a field",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}
	benchCmd := &cobra.Command{
		Use:   "bench [field]",
		Short: "compare integration methods on one seed",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchMethods,
	}
	addTraceFlags(benchCmd)
	benchCmd.Flags().Float64Var(&seedX, "x", 0, "seed x (default: domain centre)")
	benchCmd.Flags().Float64Var(&seedY, "y", 0, "seed y (default: domain centre)")
	benchCmd.Flags().DurationVar(&benchTimeout, "timeout", 30*time.Second, "per-method time limit")

	rootCmd.AddCommand(traceCmd, batchCmd, inspectCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, exportPNGCmd,
		methodsCmd, fieldsCmd, presetsCmd, benchCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addTraceFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	f := cmd.Flags()
	f.Float64Var(&duration, "duration", defaults.Trace.Duration, "integration time per direction (arclength when normalized)")
	f.IntVar(&samples, "samples", defaults.Trace.Samples, "points per direction, seed included")
	f.StringVar(&method, "method", defaults.Trace.Method, "integration method")
	f.BoolVar(&normalize, "normalize", defaults.Trace.Normalize, "integrate the unit-speed field")
	f.StringVar(&bounds, "bounds", defaults.Trace.Bounds, "out-of-grid policy: stall, extrapolate or clamp")
	f.Float64Var(&rtol, "rtol", defaults.Trace.RTol, "relative tolerance")
	f.Float64Var(&atol, "atol", defaults.Trace.ATol, "absolute tolerance")
	f.IntVar(&maxSteps, "max-steps", defaults.Trace.MaxSteps, "step budget per direction")
	f.Float64Var(&speedThreshold, "speed-threshold", 0, "mask cells at or below this speed")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&fieldFile, "field-file", "", "JSON field file (overrides the field name)")
	f.IntVar(&resolution, "resolution", experiment.DefaultResolution, "lattice size for analytic fields")
	f.BoolVar(&crop, "crop", false, "crop to the unmasked region before tracing")
}

// loadConfig resolves config file, preset and flags, in increasing priority.
func loadConfig(cmd *cobra.Command, fieldName string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.LoadLayered(defaultConfigFiles...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if preset != "" && !cfg.Apply(fieldName, preset) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(fieldName))
	}

	flags := cmd.Flags()
	if flags.Changed("duration") {
		cfg.Trace.Duration = duration
	}
	if flags.Changed("samples") {
		cfg.Trace.Samples = samples
	}
	if flags.Changed("method") {
		cfg.Trace.Method = method
	}
	if flags.Changed("normalize") {
		cfg.Trace.Normalize = normalize
	}
	if flags.Changed("bounds") {
		cfg.Trace.Bounds = bounds
	}
	if flags.Changed("rtol") {
		cfg.Trace.RTol = rtol
	}
	if flags.Changed("atol") {
		cfg.Trace.ATol = atol
	}
	if flags.Changed("max-steps") {
		cfg.Trace.MaxSteps = maxSteps
	}
	if flags.Changed("speed-threshold") {
		cfg.Processing.SpeedThreshold = speedThreshold
	}
	if flags.Changed("seeds") {
		cfg.Paths.Seeds = seedsFile
	}
	if dataDir != "" {
		cfg.Paths.Data = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadField returns the field to trace and the name runs are saved under.
// --field-file wins over a field name, which wins over paths.field.
func loadField(cfg *config.Config, args []string) (*field.VectorField, string, error) {
	path := fieldFile
	if path == "" && len(args) == 0 {
		path = cfg.Paths.Field
	}
	if path != "" {
		f, err := fieldio.ReadFile(path)
		if err != nil {
			return nil, "", err
		}
		return f, path, nil
	}
	if len(args) == 0 {
		return nil, "", fmt.Errorf("no field given: pass a field name or --field-file")
	}
	f, err := experiment.NewRegistry().GetField(args[0], resolution)
	if err != nil {
		return nil, "", err
	}
	return f, args[0], nil
}

// prepareField masks cells at or below the speed threshold, then crops if
// --crop is set.
func prepareField(f *field.VectorField, cfg *config.Config) (*field.VectorField, error) {
	f = f.MaskBelowSpeed(cfg.Processing.SpeedThreshold)
	if crop {
		return f.CropToFinite()
	}
	return f, nil
}

func fieldNameArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func openOutput() (*os.File, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
